// Package catalogtest serves a small in-memory PokeAPI for tests.
package catalogtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Pokemon is the fixture for one catalog entry.
type Pokemon struct {
	ID        int
	Name      string
	Types     []string
	Abilities []string
	Height    int
	Weight    int
	// Flavor maps a language code to its flavor text.
	Flavor map[string]string
}

// Server is a fake catalog. Lookups for ids passed to FailID return 500.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	pokemon []Pokemon
	fail    map[int]bool
	failIdx bool
	hits    map[string]int
}

// New starts a fake catalog seeded with pokemon and registers cleanup on t.
func New(t testing.TB, pokemon ...Pokemon) *Server {
	t.Helper()
	s := &Server{
		pokemon: pokemon,
		fail:    map[int]bool{},
		hits:    map[string]int{},
	}

	r := chi.NewRouter()
	r.Use(s.count, middleware.StripSlashes)
	r.Get("/api/v2/pokemon", s.handleIndex)
	r.Get("/api/v2/pokemon/{key}", s.handlePokemon)
	r.Get("/api/v2/pokemon-species/{id}", s.handleSpecies)
	r.Get("/api/v2/type/{name}", s.handleType)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// BaseURL is the API root to hand to catalog.NewClient.
func (s *Server) BaseURL() string {
	return s.URL + "/api/v2"
}

// FailID makes lookups of id return 500.
func (s *Server) FailID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[id] = true
}

// FailIndex makes the index endpoint return 500.
func (s *Server) FailIndex(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failIdx = fail
}

// Hits returns how many requests were made to paths starting with prefix.
func (s *Server) Hits(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for path, n := range s.hits {
		if strings.HasPrefix(path, prefix) {
			total += n
		}
	}
	return total
}

// Generate returns n fixtures with ids 1..n named pokemon-<id>.
func Generate(n int) []Pokemon {
	out := make([]Pokemon, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, Pokemon{
			ID:        i,
			Name:      fmt.Sprintf("pokemon-%d", i),
			Types:     []string{"normal"},
			Abilities: []string{"run-away"},
			Height:    i,
			Weight:    i * 10,
		})
	}
	return out
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[strings.TrimPrefix(r.URL.Path, "/api/v2")]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	failIdx := s.failIdx
	all := append([]Pokemon(nil), s.pokemon...)
	s.mu.Unlock()
	if failIdx {
		http.Error(w, "index unavailable", http.StatusInternalServerError)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 20
	}
	type ref struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	results := []ref{}
	for i := offset; i < len(all) && i < offset+limit; i++ {
		results = append(results, ref{Name: all[i].Name, URL: s.pokemonURL(all[i].ID)})
	}
	writeJSON(w, map[string]any{"count": len(all), "results": results})
}

func (s *Server) handlePokemon(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(chi.URLParam(r, "key"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if s.failing(p.ID) {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}

	types := make([]map[string]any, 0, len(p.Types))
	for i, t := range p.Types {
		types = append(types, map[string]any{"slot": i + 1, "type": map[string]string{"name": t}})
	}
	abilities := make([]map[string]any, 0, len(p.Abilities))
	for _, a := range p.Abilities {
		abilities = append(abilities, map[string]any{"ability": map[string]string{"name": a}})
	}
	writeJSON(w, map[string]any{
		"id":        p.ID,
		"name":      p.Name,
		"height":    p.Height,
		"weight":    p.Weight,
		"types":     types,
		"abilities": abilities,
		"sprites": map[string]any{
			"front_default": fmt.Sprintf("%s/sprites/%d.png", s.URL, p.ID),
			"other": map[string]any{
				"official-artwork": map[string]string{
					"front_default": fmt.Sprintf("%s/artwork/%d.png", s.URL, p.ID),
				},
			},
		},
	})
}

func (s *Server) handleSpecies(w http.ResponseWriter, r *http.Request) {
	p, ok := s.lookup(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	if s.failing(p.ID) {
		http.Error(w, "boom", http.StatusInternalServerError)
		return
	}
	entries := []map[string]any{}
	for lang, text := range p.Flavor {
		entries = append(entries, map[string]any{
			"flavor_text": text,
			"language":    map[string]string{"name": lang},
		})
	}
	writeJSON(w, map[string]any{"flavor_text_entries": entries})
}

func (s *Server) handleType(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	all := append([]Pokemon(nil), s.pokemon...)
	s.mu.Unlock()

	members := []map[string]any{}
	for _, p := range all {
		for _, t := range p.Types {
			if t == name {
				members = append(members, map[string]any{
					"pokemon": map[string]string{"name": p.Name, "url": s.pokemonURL(p.ID)},
				})
				break
			}
		}
	}
	if len(members) == 0 {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]any{"name": name, "pokemon": members})
}

func (s *Server) lookup(key string) (Pokemon, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := strconv.Atoi(key)
	for _, p := range s.pokemon {
		if (err == nil && p.ID == id) || (err != nil && p.Name == key) {
			return p, true
		}
	}
	return Pokemon{}, false
}

func (s *Server) failing(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail[id]
}

func (s *Server) pokemonURL(id int) string {
	return fmt.Sprintf("%s/api/v2/pokemon/%d/", s.URL, id)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
