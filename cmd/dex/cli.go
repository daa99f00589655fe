package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/five82/dex/internal/app"
	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/config"
	"github.com/five82/dex/internal/logging"
	"github.com/five82/dex/internal/prefs"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// isTerminal reports whether stdout is an interactive terminal.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// newCLIApp creates the CLI application with all commands.
func newCLIApp(out io.Writer) *cli.App {
	cliApp := &cli.App{
		Name:    "dex",
		Usage:   "Browse the PokeAPI catalog from the terminal",
		Version: Version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Config file path (default ~/.config/dex/config.toml)"},
			&cli.BoolFlag{Name: "ephemeral", Usage: "Keep favorites and theme in memory only"},
			&cli.StringFlag{Name: "api-url", Usage: "Override api_base_url", Hidden: true},
		},
		Action: browseAction,
		Commands: []*cli.Command{
			browseCmd(),
			listCmd(),
			showCmd(),
			searchCmd(),
			favoritesCmd(),
			themeCmd(),
			logsCmd(),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	cliApp.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return cliApp
}

func appOptions(c *cli.Context) app.Options {
	return app.Options{
		ConfigPath: c.String("config"),
		Ephemeral:  c.Bool("ephemeral"),
		APIBaseURL: c.String("api-url"),
	}
}

// openEnv wires the application components for a non-interactive command.
func openEnv(c *cli.Context) (*app.Env, error) {
	env, err := app.Open(appOptions(c))
	if err != nil {
		return nil, outputError(err)
	}
	return env, nil
}

// browseCmd creates the browse command.
func browseCmd() *cli.Command {
	return &cli.Command{
		Name:   "browse",
		Usage:  "Open the interactive browser (default)",
		Action: browseAction,
	}
}

func browseAction(c *cli.Context) error {
	if !isTerminal() {
		return cli.Exit("browse needs an interactive terminal; try list, show or search", 1)
	}
	if err := app.Run(c.Context, appOptions(c)); err != nil {
		return outputError(err)
	}
	return nil
}

// listCmd creates the list command.
func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "Print one page of records",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Page size (defaults to page_size)"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Usage: "Records to skip"},
		},
		Action: func(c *cli.Context) error {
			env, err := openEnv(c)
			if err != nil {
				return err
			}
			defer env.Close()

			limit := c.Int("limit")
			if limit <= 0 {
				limit = env.Config.PageSize
			}
			offset := c.Int("offset")
			if offset < 0 {
				return cli.Exit("offset must be non-negative", 1)
			}

			records, err := env.Catalog.ListPage(c.Context, limit, offset)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(c, records)
		},
	}
}

type showOutput struct {
	catalog.Record
	Description string `json:"description"`
	Favorite    bool   `json:"favorite"`
}

// showCmd creates the show command.
func showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print one record with its description",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			id, err := parseID(c.Args().First())
			if err != nil {
				return outputError(err)
			}
			env, err := openEnv(c)
			if err != nil {
				return err
			}
			defer env.Close()

			rec, err := env.Catalog.GetByID(c.Context, id)
			if err != nil {
				return outputError(err)
			}

			loader := env.NewLoader()
			loader.Open(c.Context, rec)
			snap := loader.Snapshot()

			return outputJSON(c, showOutput{
				Record:      rec,
				Description: snap.Description,
				Favorite:    slices.Contains(env.Favorites.Load(c.Context), id),
			})
		},
	}
}

// searchCmd creates the search command.
func searchCmd() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search by exact name or type",
		ArgsUsage: "<term>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("search term is required", 1)
			}
			env, err := openEnv(c)
			if err != nil {
				return err
			}
			defer env.Close()

			results := env.Catalog.Search(c.Context, c.Args().First())
			if results == nil {
				results = []catalog.Record{}
			}
			return outputJSON(c, results)
		},
	}
}

// favoritesCmd creates the favorites command group.
func favoritesCmd() *cli.Command {
	return &cli.Command{
		Name:  "favorites",
		Usage: "List or edit favorites",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Print favorite ids, or records with --records",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "records", Aliases: []string{"r"}, Usage: "Fetch the full records"},
				},
				Action: func(c *cli.Context) error {
					env, err := openEnv(c)
					if err != nil {
						return err
					}
					defer env.Close()

					ids := env.Favorites.Load(c.Context)
					if !c.Bool("records") {
						return outputJSON(c, ids)
					}
					records := env.Catalog.GetManyByIDs(c.Context, ids)
					if records == nil {
						records = []catalog.Record{}
					}
					slices.SortStableFunc(records, func(a, b catalog.Record) int {
						return slices.Index(ids, a.ID) - slices.Index(ids, b.ID)
					})
					return outputJSON(c, records)
				},
			},
			{
				Name:      "add",
				Usage:     "Add ids to favorites",
				ArgsUsage: "<id>...",
				Action: func(c *cli.Context) error {
					return editFavorites(c, func(ids []int, id int) []int {
						if slices.Contains(ids, id) {
							return ids
						}
						return append(ids, id)
					})
				},
			},
			{
				Name:      "remove",
				Usage:     "Remove ids from favorites",
				ArgsUsage: "<id>...",
				Action: func(c *cli.Context) error {
					return editFavorites(c, func(ids []int, id int) []int {
						return slices.DeleteFunc(ids, func(v int) bool { return v == id })
					})
				},
			},
		},
	}
}

func editFavorites(c *cli.Context, apply func([]int, int) []int) error {
	if c.NArg() == 0 {
		return cli.Exit("at least one id is required", 1)
	}
	targets := make([]int, 0, c.NArg())
	for _, arg := range c.Args().Slice() {
		id, err := parseID(arg)
		if err != nil {
			return outputError(err)
		}
		targets = append(targets, id)
	}

	env, err := openEnv(c)
	if err != nil {
		return err
	}
	defer env.Close()

	ids := env.Favorites.Load(c.Context)
	for _, id := range targets {
		ids = apply(ids, id)
	}
	env.Favorites.Save(c.Context, ids)
	return outputJSON(c, ids)
}

// themeCmd creates the theme command.
func themeCmd() *cli.Command {
	return &cli.Command{
		Name:      "theme",
		Usage:     "Print or set the theme",
		ArgsUsage: "[light|dark|toggle]",
		Action: func(c *cli.Context) error {
			env, err := openEnv(c)
			if err != nil {
				return err
			}
			defer env.Close()

			var theme prefs.Theme
			switch arg := c.Args().First(); arg {
			case "":
				theme = env.Themes.Load(c.Context)
			case "toggle":
				theme = env.Themes.Toggle(c.Context)
			case string(prefs.Light), string(prefs.Dark):
				theme = prefs.Theme(arg)
				env.Themes.Save(c.Context, theme)
			default:
				return cli.Exit(fmt.Sprintf("unknown theme %q (want light, dark or toggle)", arg), 1)
			}
			return outputJSON(c, map[string]prefs.Theme{"theme": theme})
		},
	}
}

// logsCmd creates the logs command.
func logsCmd() *cli.Command {
	return &cli.Command{
		Name:  "logs",
		Usage: "Print the end of the dex log",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "lines", Aliases: []string{"n"}, Value: 50, Usage: "Lines to print (0 for all)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return outputError(err)
			}

			lines, err := logging.Tail(cfg.LogFile, c.Int("lines"))
			if err != nil {
				return outputError(err)
			}
			for _, line := range lines {
				fmt.Fprintln(c.App.Writer, line)
			}
			return nil
		},
	}
}

// Helper functions

// outputJSON writes v to the app's writer as indented JSON.
func outputJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	return cli.Exit(err.Error(), 1)
}

func parseID(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("id is required")
	}
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
