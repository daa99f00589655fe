// Package favorites persists the set of favorited pokemon ids.
// The set is stored as a JSON array under a single key.
package favorites

import (
	"context"
	"encoding/json"
	"io"
	"log"

	"github.com/five82/dex/internal/kv"
)

// StorageKey is the key holding the JSON-encoded id array.
const StorageKey = "@pokemon_favorites"

// Store reads and writes the favorite set. Storage errors are logged and never
// returned.
type Store struct {
	kv     kv.Store
	logger *log.Logger
}

// NewStore wraps a kv.Store. A nil logger discards output.
func NewStore(store kv.Store, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{kv: store, logger: logger}
}

// Load returns the stored ids in stored order with duplicates removed, or an
// empty slice when nothing usable is stored.
func (s *Store) Load(ctx context.Context) []int {
	raw, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Printf("load favorites: %v", err)
		return []int{}
	}
	if !ok {
		return []int{}
	}

	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.logger.Printf("decode favorites: %v", err)
		return []int{}
	}
	return dedupe(ids)
}

// Save writes ids as a JSON array.
func (s *Store) Save(ctx context.Context, ids []int) {
	if ids == nil {
		ids = []int{}
	}
	encoded, err := json.Marshal(ids)
	if err != nil {
		s.logger.Printf("encode favorites: %v", err)
		return
	}
	if err := s.kv.Set(ctx, StorageKey, string(encoded)); err != nil {
		s.logger.Printf("save favorites: %v", err)
	}
}

func dedupe(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
