package prefs

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/five82/dex/internal/kv"
)

type failingKV struct{}

func (failingKV) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("locked")
}

func (failingKV) Set(context.Context, string, string) error {
	return errors.New("locked")
}

func TestLoad_MissingValueUsesDefault(t *testing.T) {
	s := NewThemeStore(kv.NewMemory(), nil)
	if got := s.Load(context.Background()); got != defaultTheme {
		t.Fatalf("Theme = %q, want %q", got, defaultTheme)
	}
}

func TestSave_WritesLiteralValues(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	s := NewThemeStore(mem, nil)

	s.Save(ctx, Dark)
	raw, _, _ := mem.Get(ctx, StorageKey)
	if raw != "dark" {
		t.Fatalf("stored %q, want dark", raw)
	}

	s.Save(ctx, Theme("sepia"))
	raw, _, _ = mem.Get(ctx, StorageKey)
	if raw != "light" {
		t.Fatalf("stored %q, want light for unknown theme", raw)
	}
}

func TestLoad_ReadsExistingValue(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	if err := mem.Set(ctx, StorageKey, "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := NewThemeStore(mem, nil).Load(ctx); got != Dark {
		t.Fatalf("Theme = %q, want dark", got)
	}
}

func TestLoad_UnknownValueFallsBackToLight(t *testing.T) {
	ctx := context.Background()
	mem := kv.NewMemory()
	if err := mem.Set(ctx, StorageKey, "Dracula"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := NewThemeStore(mem, nil).Load(ctx); got != Light {
		t.Fatalf("Theme = %q, want light", got)
	}
}

func TestToggle_FlipsAndPersists(t *testing.T) {
	ctx := context.Background()
	s := NewThemeStore(kv.NewMemory(), nil)

	if got := s.Toggle(ctx); got != Dark {
		t.Fatalf("first Toggle = %q, want dark", got)
	}
	if got := s.Load(ctx); got != Dark {
		t.Fatalf("Load after toggle = %q, want dark", got)
	}
	if got := s.Toggle(ctx); got != Light {
		t.Fatalf("second Toggle = %q, want light", got)
	}
}

func TestStorageFailureLogsAndDefaults(t *testing.T) {
	var logs bytes.Buffer
	s := NewThemeStore(failingKV{}, log.New(&logs, "", 0))
	ctx := context.Background()

	if got := s.Load(ctx); got != Light {
		t.Fatalf("Theme = %q, want light", got)
	}
	s.Save(ctx, Dark)
	if !strings.Contains(logs.String(), "load theme: locked") || !strings.Contains(logs.String(), "save theme: locked") {
		t.Fatalf("logs = %q, want load and save failures", logs.String())
	}
}
