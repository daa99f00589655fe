package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/config"
	"github.com/five82/dex/internal/detail"
	"github.com/five82/dex/internal/favorites"
	"github.com/five82/dex/internal/kv"
	"github.com/five82/dex/internal/logging"
	"github.com/five82/dex/internal/prefs"
	"github.com/five82/dex/internal/state"
	"github.com/five82/dex/internal/ui"
)

// Options configure the dex application.
type Options struct {
	ConfigPath string
	Ephemeral  bool   // in-memory storage; nothing is written to data_dir
	APIBaseURL string // overrides api_base_url when set
	HTTPClient *http.Client
	// LogOutput replaces the configured log file when set.
	LogOutput io.Writer
}

// Env holds the wired components shared by the TUI and the CLI commands.
type Env struct {
	Config    config.Config
	Logger    *log.Logger
	Catalog   *catalog.Client
	Favorites *favorites.Store
	Themes    *prefs.ThemeStore

	closers []io.Closer
}

// Open loads configuration and wires storage, logging and the catalog client.
// The caller must Close the returned Env.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}

	env := &Env{Config: cfg}

	if opts.LogOutput != nil {
		env.Logger = logging.New(opts.LogOutput, "dex")
	} else {
		logger, closer, err := logging.Open(cfg.LogFile, "dex")
		if err != nil {
			return nil, err
		}
		env.Logger = logger
		env.closers = append(env.closers, closer)
	}

	var store kv.Store
	if opts.Ephemeral {
		store = kv.NewMemory()
	} else {
		db, err := kv.Open(cfg.DataDir)
		if err != nil {
			_ = env.Close()
			return nil, fmt.Errorf("open storage: %w", err)
		}
		store = db
		env.closers = append(env.closers, db)
	}

	clientOpts := []catalog.Option{
		catalog.WithLogger(env.Logger),
		catalog.WithConcurrency(cfg.MaxConcurrency),
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, catalog.WithHTTPClient(opts.HTTPClient))
	}
	client, err := catalog.NewClient(cfg.APIBaseURL, clientOpts...)
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("init catalog client: %w", err)
	}
	env.Catalog = client
	env.Favorites = favorites.NewStore(store, env.Logger)
	env.Themes = prefs.NewThemeStore(store, env.Logger)
	return env, nil
}

// NewOrchestrator builds a list orchestrator over the Env's catalog and
// favorites store. notify may be nil.
func (e *Env) NewOrchestrator(notify func()) (*state.Orchestrator, error) {
	return state.NewOrchestrator(state.Options{
		Catalog:   e.Catalog,
		Favorites: e.Favorites,
		Logger:    e.Logger,
		PageSize:  e.Config.PageSize,
		Debounce:  e.Config.Debounce,
		Notify:    notify,
	})
}

// NewLoader builds a description loader over the Env's catalog.
func (e *Env) NewLoader() *detail.Loader {
	return detail.NewLoader(e.Catalog, e.Logger)
}

// Close releases storage and the log file.
func (e *Env) Close() error {
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

// Run boots the dex TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	env, err := Open(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	notifier := ui.NewNotifier()
	orch, err := env.NewOrchestrator(notifier.Notify)
	if err != nil {
		return fmt.Errorf("init orchestrator: %w", err)
	}
	defer orch.Close()

	env.Logger.Printf("starting browse against %s", env.Config.APIBaseURL)
	return ui.Run(ui.Options{
		Context:  ctx,
		List:     orch,
		Details:  env.NewLoader(),
		Themes:   env.Themes,
		Notifier: notifier,
	})
}
