// Package app is the composition root for dex.
//
// # Overview
//
// Open turns configuration into a ready Env: a file logger, durable (or
// in-memory) key-value storage, the catalog client, and the favorites and
// theme stores built on that storage. The TUI and every CLI command start
// from the same Env, so they share storage and logging behavior.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()         Read ~/.config/dex/config.toml
//	       ├─────> logging.Open()        Append to log_file
//	       ├─────> kv.Open()             SQLite in data_dir (or kv.NewMemory)
//	       ├─────> catalog.NewClient()   PokeAPI gateway
//	       ├─────> state.NewOrchestrator Paginated list, search, favorites
//	       ├─────> detail.NewLoader()    Description overlay
//	       └─────> ui.Run()              Start TUI (blocks)
//
// # Options
//
//   - ConfigPath: explicit config file; empty uses the default location
//   - Ephemeral: keep favorites and theme in memory only
//   - APIBaseURL: override api_base_url, mainly for tests
//   - HTTPClient: custom transport for the catalog client
//   - LogOutput: write logs here instead of log_file
//
// # Shutdown
//
// Run closes the orchestrator before releasing storage, so a pending
// debounce timer cannot fire against a closed database.
package app
