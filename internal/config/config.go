package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings dex reads at startup.
type Config struct {
	APIBaseURL     string
	PageSize       int
	Debounce       time.Duration
	MaxConcurrency int
	DataDir        string
	LogFile        string
}

const (
	defaultConfigPath     = "~/.config/dex/config.toml"
	defaultDataDir        = "~/.local/share/dex"
	defaultAPIBaseURL     = "https://pokeapi.co/api/v2"
	defaultPageSize       = 20
	defaultDebounceMS     = 500
	defaultMaxConcurrency = 8
	logFileName           = "dex.log"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	dataDir := mustExpand(defaultDataDir)
	return Config{
		APIBaseURL:     defaultAPIBaseURL,
		PageSize:       defaultPageSize,
		Debounce:       defaultDebounceMS * time.Millisecond,
		MaxConcurrency: defaultMaxConcurrency,
		DataDir:        dataDir,
		LogFile:        filepath.Join(dataDir, logFileName),
	}
}

// Load locates and parses the dex config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBaseURL     string `toml:"api_base_url"`
		PageSize       int    `toml:"page_size"`
		DebounceMS     int    `toml:"debounce_ms"`
		MaxConcurrency int    `toml:"max_concurrency"`
		DataDir        string `toml:"data_dir"`
		LogFile        string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if raw.DebounceMS > 0 {
		cfg.Debounce = time.Duration(raw.DebounceMS) * time.Millisecond
	}
	if raw.MaxConcurrency > 0 {
		cfg.MaxConcurrency = raw.MaxConcurrency
	}

	if v := strings.TrimSpace(raw.DataDir); v != "" {
		cfg.DataDir = mustExpand(v)
	}
	cfg.LogFile = filepath.Join(cfg.DataDir, logFileName)
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}

	return cfg, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
