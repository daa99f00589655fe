package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/catalog/catalogtest"
)

type testEnv struct {
	srv     *catalogtest.Server
	cfgPath string
	dataDir string
}

func setupTestEnv(t *testing.T, pokemon ...catalogtest.Pokemon) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	dataDir := filepath.Join(dir, "data")
	cfgPath := filepath.Join(dir, "config.toml")
	body := "data_dir = \"" + dataDir + "\"\npage_size = 4\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &testEnv{srv: catalogtest.New(t, pokemon...), cfgPath: cfgPath, dataDir: dataDir}
}

// run executes the CLI with the given args and returns stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	full := append([]string{"dex", "--config", e.cfgPath, "--api-url", e.srv.BaseURL()}, args...)
	err := newCLIApp(&out).RunContext(context.Background(), full)
	return out.String(), err
}

func decode[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return v
}

func TestListCommand(t *testing.T) {
	env := setupTestEnv(t, catalogtest.Generate(10)...)

	out, err := env.run(t, "list")
	require.NoError(t, err)
	records := decode[[]catalog.Record](t, out)
	require.Len(t, records, 4)
	require.Equal(t, 1, records[0].ID)

	out, err = env.run(t, "list", "--limit", "3", "--offset", "8")
	require.NoError(t, err)
	records = decode[[]catalog.Record](t, out)
	require.Len(t, records, 2)
	require.Equal(t, 9, records[0].ID)
}

func TestListCommandRejectsNegativeOffset(t *testing.T) {
	env := setupTestEnv(t, catalogtest.Generate(2)...)
	_, err := env.run(t, "list", "--offset", "-1")
	require.ErrorContains(t, err, "non-negative")
}

func TestShowCommand(t *testing.T) {
	env := setupTestEnv(t, catalogtest.Pokemon{
		ID:     25,
		Name:   "pikachu",
		Types:  []string{"electric"},
		Flavor: map[string]string{"en": "When several of\nthese gather."},
	})

	out, err := env.run(t, "show", "25")
	require.NoError(t, err)
	got := decode[map[string]any](t, out)
	require.Equal(t, "pikachu", got["name"])
	require.Equal(t, "When several of these gather.", got["description"])
	require.Equal(t, false, got["favorite"])
}

func TestShowCommandErrors(t *testing.T) {
	env := setupTestEnv(t, catalogtest.Generate(1)...)

	_, err := env.run(t, "show", "abc")
	require.ErrorContains(t, err, "invalid id")

	_, err = env.run(t, "show", "99")
	require.ErrorContains(t, err, "404")
}

func TestSearchCommand(t *testing.T) {
	env := setupTestEnv(t,
		catalogtest.Pokemon{ID: 4, Name: "charmander", Types: []string{"fire"}},
		catalogtest.Pokemon{ID: 7, Name: "squirtle", Types: []string{"water"}},
	)

	out, err := env.run(t, "search", "Charmander")
	require.NoError(t, err)
	records := decode[[]catalog.Record](t, out)
	require.Len(t, records, 1)
	require.Equal(t, 4, records[0].ID)

	out, err = env.run(t, "search", "zzz")
	require.NoError(t, err)
	require.Equal(t, "[]", strings.TrimSpace(out))

	_, err = env.run(t, "search")
	require.ErrorContains(t, err, "required")
}

func TestFavoritesCommands(t *testing.T) {
	env := setupTestEnv(t, catalogtest.Generate(5)...)

	out, err := env.run(t, "favorites", "add", "3", "1", "3")
	require.NoError(t, err)
	require.Equal(t, []int{3, 1}, decode[[]int](t, out))

	out, err = env.run(t, "favorites", "list")
	require.NoError(t, err)
	require.Equal(t, []int{3, 1}, decode[[]int](t, out))

	out, err = env.run(t, "favorites", "list", "--records")
	require.NoError(t, err)
	records := decode[[]catalog.Record](t, out)
	require.Len(t, records, 2)
	require.Equal(t, 3, records[0].ID)
	require.Equal(t, 1, records[1].ID)

	out, err = env.run(t, "favorites", "remove", "3")
	require.NoError(t, err)
	require.Equal(t, []int{1}, decode[[]int](t, out))

	out, err = env.run(t, "show", "1")
	require.NoError(t, err)
	require.Equal(t, true, decode[map[string]any](t, out)["favorite"])

	require.FileExists(t, filepath.Join(env.dataDir, "dex.db"))
}

func TestFavoritesEphemeral(t *testing.T) {
	env := setupTestEnv(t, catalogtest.Generate(2)...)

	_, err := env.run(t, "--ephemeral", "favorites", "add", "2")
	require.NoError(t, err)

	out, err := env.run(t, "--ephemeral", "favorites", "list")
	require.NoError(t, err)
	require.Equal(t, []int{}, decode[[]int](t, out))
}

func TestThemeCommand(t *testing.T) {
	env := setupTestEnv(t)

	out, err := env.run(t, "theme")
	require.NoError(t, err)
	require.Equal(t, "light", decode[map[string]string](t, out)["theme"])

	out, err = env.run(t, "theme", "toggle")
	require.NoError(t, err)
	require.Equal(t, "dark", decode[map[string]string](t, out)["theme"])

	out, err = env.run(t, "theme")
	require.NoError(t, err)
	require.Equal(t, "dark", decode[map[string]string](t, out)["theme"])

	out, err = env.run(t, "theme", "light")
	require.NoError(t, err)
	require.Equal(t, "light", decode[map[string]string](t, out)["theme"])

	_, err = env.run(t, "theme", "sepia")
	require.ErrorContains(t, err, "unknown theme")
}

func TestLogsCommand(t *testing.T) {
	env := setupTestEnv(t, catalogtest.Generate(1)...)
	env.srv.FailID(1)

	_, err := env.run(t, "favorites", "add", "1")
	require.NoError(t, err)
	_, err = env.run(t, "favorites", "list", "--records")
	require.NoError(t, err)

	out, err := env.run(t, "logs", "-n", "5")
	require.NoError(t, err)
	require.Contains(t, out, "dropping pokemon 1")
}

func TestBrowseRequiresTerminal(t *testing.T) {
	env := setupTestEnv(t)
	orig := isTerminal
	isTerminal = func() bool { return false }
	t.Cleanup(func() { isTerminal = orig })

	_, err := env.run(t)
	require.ErrorContains(t, err, "interactive terminal")

	_, err = env.run(t, "browse")
	require.ErrorContains(t, err, "interactive terminal")
}

func TestParseID(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"25", 25, false},
		{"", 0, true},
		{"0", 0, true},
		{"-3", 0, true},
		{"pika", 0, true},
	}
	for _, tt := range tests {
		got, err := parseID(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got)
	}
}
