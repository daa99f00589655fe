// Package config loads the dex TOML configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/dex/config.toml
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing, empty, or not positive, use defaults
//
// # Default Values
//
//   - api_base_url: https://pokeapi.co/api/v2
//   - page_size: 20
//   - debounce_ms: 500
//   - max_concurrency: 8
//   - data_dir: ~/.local/share/dex
//   - log_file: <data_dir>/dex.log
//
// # TOML Format
//
//	api_base_url = "https://pokeapi.co/api/v2"
//	page_size = 20
//	debounce_ms = 500
//	max_concurrency = 8
//	data_dir = "~/.local/share/dex"
//
// Tilde expansion is applied to data_dir and log_file.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files and TOML
// parse errors. A missing file is not an error.
package config
