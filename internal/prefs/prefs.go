// Package prefs handles dex user preferences persistence.
// The theme is stored as the literal "dark" or "light" under @app_theme.
package prefs

import (
	"context"
	"io"
	"log"
	"strings"

	"github.com/five82/dex/internal/kv"
)

// Theme is the light/dark preference.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// StorageKey is the key holding the theme value.
const StorageKey = "@app_theme"

const defaultTheme = Light

// IsDark reports whether t is the dark theme.
func (t Theme) IsDark() bool {
	return t == Dark
}

// Toggled returns the opposite theme.
func (t Theme) Toggled() Theme {
	if t.IsDark() {
		return Light
	}
	return Dark
}

// ParseTheme maps "dark" to Dark; anything else is Light.
func ParseTheme(value string) Theme {
	if strings.EqualFold(strings.TrimSpace(value), string(Dark)) {
		return Dark
	}
	return Light
}

// ThemeStore loads and saves the theme. Storage errors are logged and never
// returned.
type ThemeStore struct {
	kv     kv.Store
	logger *log.Logger
}

// NewThemeStore wraps a kv.Store. A nil logger discards output.
func NewThemeStore(store kv.Store, logger *log.Logger) *ThemeStore {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &ThemeStore{kv: store, logger: logger}
}

// Load reads the theme, falling back to light if missing or unreadable.
func (s *ThemeStore) Load(ctx context.Context) Theme {
	value, ok, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		s.logger.Printf("load theme: %v", err)
		return defaultTheme
	}
	if !ok {
		return defaultTheme
	}
	return ParseTheme(value)
}

// Save writes the theme.
func (s *ThemeStore) Save(ctx context.Context, theme Theme) {
	if theme != Dark {
		theme = Light
	}
	if err := s.kv.Set(ctx, StorageKey, string(theme)); err != nil {
		s.logger.Printf("save theme: %v", err)
	}
}

// Toggle flips the stored theme and returns the new value.
func (s *ThemeStore) Toggle(ctx context.Context) Theme {
	next := s.Load(ctx).Toggled()
	s.Save(ctx, next)
	return next
}
