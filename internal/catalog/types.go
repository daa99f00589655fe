package catalog

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// DescriptionFallback is returned when a species has no English flavor text.
	DescriptionFallback = "No description available."

	descriptionLanguage = "en"
)

// Record is a catalog entry as the rest of dex sees it. Records are never
// mutated after they are decoded.
type Record struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Types     []string        `json:"types"`
	Abilities []string        `json:"abilities"`
	Height    int             `json:"height"`
	Weight    int             `json:"weight"`
	ImageURL  string          `json:"image_url,omitempty"`
	Raw       json.RawMessage `json:"-"`
}

// DisplayName returns the name with its first letter of each word upper-cased.
func (r Record) DisplayName() string {
	// A Caser keeps state between calls, so each call gets its own.
	return cases.Title(language.English).String(strings.ReplaceAll(r.Name, "-", " "))
}

// Matches reports whether the lower-cased query is a substring of the name or
// of any type tag.
func (r Record) Matches(query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Name), query) {
		return true
	}
	for _, t := range r.Types {
		if strings.Contains(strings.ToLower(t), query) {
			return true
		}
	}
	return false
}

// namedRef mirrors PokeAPI's {name, url} resource pointers.
type namedRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// indexPage mirrors GET /pokemon?limit=&offset=.
type indexPage struct {
	Count   int        `json:"count"`
	Next    string     `json:"next"`
	Results []namedRef `json:"results"`
}

// pokemonPayload is the subset of GET /pokemon/{id} that Record needs.
type pokemonPayload struct {
	ID        int           `json:"id"`
	Name      string        `json:"name"`
	Height    int           `json:"height"`
	Weight    int           `json:"weight"`
	Types     []pokemonType `json:"types"`
	Abilities []struct {
		Ability namedRef `json:"ability"`
	} `json:"abilities"`
	Sprites struct {
		FrontDefault string `json:"front_default"`
		Other        map[string]struct {
			FrontDefault string `json:"front_default"`
		} `json:"other"`
	} `json:"sprites"`
}

type pokemonType struct {
	Slot int      `json:"slot"`
	Type namedRef `json:"type"`
}

// speciesPayload mirrors GET /pokemon-species/{id}.
type speciesPayload struct {
	FlavorTextEntries []struct {
		FlavorText string   `json:"flavor_text"`
		Language   namedRef `json:"language"`
	} `json:"flavor_text_entries"`
}

// typePayload mirrors GET /type/{name}.
type typePayload struct {
	Name    string `json:"name"`
	Pokemon []struct {
		Pokemon namedRef `json:"pokemon"`
	} `json:"pokemon"`
}

// decodeRecord builds a Record from a raw pokemon payload, keeping the raw
// bytes for detail rendering.
func decodeRecord(raw json.RawMessage) (Record, error) {
	var p pokemonPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Record{}, err
	}
	rec := Record{
		ID:     p.ID,
		Name:   p.Name,
		Height: p.Height,
		Weight: p.Weight,
		Raw:    append(json.RawMessage(nil), raw...),
	}
	slices.SortStableFunc(p.Types, func(a, b pokemonType) int { return cmp.Compare(a.Slot, b.Slot) })
	for _, t := range p.Types {
		rec.Types = append(rec.Types, t.Type.Name)
	}
	for _, a := range p.Abilities {
		rec.Abilities = append(rec.Abilities, a.Ability.Name)
	}
	if art, ok := p.Sprites.Other["official-artwork"]; ok && art.FrontDefault != "" {
		rec.ImageURL = art.FrontDefault
	} else {
		rec.ImageURL = p.Sprites.FrontDefault
	}
	return rec, nil
}

// englishFlavorText returns the first English entry, or DescriptionFallback.
func (s speciesPayload) englishFlavorText() string {
	for _, entry := range s.FlavorTextEntries {
		if entry.Language.Name != descriptionLanguage {
			continue
		}
		return cleanFlavorText(entry.FlavorText)
	}
	return DescriptionFallback
}

var flavorTextCleaner = strings.NewReplacer("\f", " ", "\n", " ", "\r", "")

func cleanFlavorText(text string) string {
	return strings.Join(strings.Fields(flavorTextCleaner.Replace(text)), " ")
}
