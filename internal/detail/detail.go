// Package detail loads the secondary description for the focused record.
package detail

import (
	"context"
	"io"
	"log"
	"sync"

	"github.com/five82/dex/internal/catalog"
)

// Fallback is shown when the description request fails.
const Fallback = "Description not available."

// Phase is the description load lifecycle.
type Phase int

const (
	Idle Phase = iota
	Loading
	Loaded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Describer fetches a record's description. *catalog.Client satisfies it.
type Describer interface {
	GetDescription(ctx context.Context, id int) (string, error)
}

// Snapshot is the loader state for rendering.
type Snapshot struct {
	Record      *catalog.Record
	Phase       Phase
	Description string
}

// Loader tracks one open record and its description. A description that
// arrives after Close, or after a different record was opened, is dropped.
type Loader struct {
	describer Describer
	logger    *log.Logger

	mu          sync.Mutex
	gen         uint64
	record      *catalog.Record
	phase       Phase
	description string
}

// NewLoader builds a Loader. A nil logger discards output.
func NewLoader(d Describer, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Loader{describer: d, logger: logger}
}

// Open makes rec the active record and fetches its description. It blocks
// until the fetch finishes and reports whether the result was applied.
func (l *Loader) Open(ctx context.Context, rec catalog.Record) bool {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.record = &rec
	l.phase = Loading
	l.description = ""
	l.mu.Unlock()

	desc, err := l.describer.GetDescription(ctx, rec.ID)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return false
	}
	if err != nil {
		l.logger.Printf("description for %d: %v", rec.ID, err)
		l.phase = Failed
		l.description = Fallback
		return true
	}
	l.phase = Loaded
	l.description = desc
	return true
}

// Close clears the active record and discards any in-flight description.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	l.record = nil
	l.phase = Idle
	l.description = ""
}

// Snapshot returns a copy of the loader state.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	snap := Snapshot{Phase: l.phase, Description: l.description}
	if l.record != nil {
		rec := *l.record
		snap.Record = &rec
	}
	return snap
}
