package ui

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/detail"
	"github.com/five82/dex/internal/prefs"
	"github.com/five82/dex/internal/state"
)

type fakeList struct {
	mu       sync.Mutex
	snap     state.Snapshot
	queries  []string
	toggled  []int
	loadMore int
	reloads  int
	focused  int
	blurred  int
	started  int
}

func (f *fakeList) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
	return nil
}

func (f *fakeList) Snapshot() state.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeList) LoadMore(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadMore++
	return nil
}

func (f *fakeList) Reload(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return nil
}

func (f *fakeList) SetQuery(q string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
}

func (f *fakeList) ToggleFavorite(_ context.Context, id int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggled = append(f.toggled, id)
}

func (f *fakeList) FocusFavorites(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused++
}

func (f *fakeList) BlurFavorites() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blurred++
}

type fakeDetails struct {
	opened []int
	closed int
	snap   detail.Snapshot
}

func (f *fakeDetails) Open(_ context.Context, rec catalog.Record) bool {
	f.opened = append(f.opened, rec.ID)
	f.snap = detail.Snapshot{Record: &rec, Phase: detail.Loaded, Description: "A strange seed."}
	return true
}

func (f *fakeDetails) Close() {
	f.closed++
	f.snap = detail.Snapshot{}
}

func (f *fakeDetails) Snapshot() detail.Snapshot { return f.snap }

type fakeThemes struct{ theme prefs.Theme }

func (f *fakeThemes) Load(context.Context) prefs.Theme { return f.theme }

func (f *fakeThemes) Toggle(context.Context) prefs.Theme {
	f.theme = f.theme.Toggled()
	return f.theme
}

func records(n int) []catalog.Record {
	out := make([]catalog.Record, n)
	for i := range out {
		out[i] = catalog.Record{ID: i + 1, Name: "pokemon", Types: []string{"grass"}}
	}
	return out
}

type harness struct {
	list    *fakeList
	details *fakeDetails
	themes  *fakeThemes
	model   Model
}

func newHarness(t *testing.T, snap state.Snapshot) *harness {
	t.Helper()
	h := &harness{
		list:    &fakeList{snap: snap},
		details: &fakeDetails{},
		themes:  &fakeThemes{theme: prefs.Light},
	}
	h.model = New(Options{List: h.list, Details: h.details, Themes: h.themes})
	h.send(tea.WindowSizeMsg{Width: 80, Height: 24})
	h.send(syncMsg{})
	return h
}

// send delivers msg and returns the command Update produced.
func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

// sendAndRun delivers msg and feeds the command's result back into the model.
func (h *harness) sendAndRun(msg tea.Msg) {
	cmd := h.send(msg)
	if cmd == nil {
		return
	}
	if out := cmd(); out != nil {
		h.send(out)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestToggleFavoriteUsesSelectedRecord(t *testing.T) {
	h := newHarness(t, state.Snapshot{Records: records(5), Cursor: state.Cursor{HasMore: true}})

	h.send(tea.KeyMsg{Type: tea.KeyDown})
	h.sendAndRun(runes("f"))

	require.Equal(t, []int{2}, h.list.toggled)
}

func TestMovingNearEndRequestsNextPage(t *testing.T) {
	h := newHarness(t, state.Snapshot{Records: records(5), Cursor: state.Cursor{HasMore: true}})

	h.sendAndRun(tea.KeyMsg{Type: tea.KeyDown})
	require.Zero(t, h.list.loadMore)

	h.sendAndRun(tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, 1, h.list.loadMore)
}

func TestFavoritesViewDoesNotPaginate(t *testing.T) {
	h := newHarness(t, state.Snapshot{
		Records:         records(5),
		Favorites:       []int{1, 2},
		FavoriteRecords: records(2),
	})

	h.sendAndRun(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, ViewFavorites, h.model.view)
	require.Equal(t, 1, h.list.focused)

	h.sendAndRun(tea.KeyMsg{Type: tea.KeyDown})
	require.Zero(t, h.list.loadMore)

	h.sendAndRun(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, ViewAll, h.model.view)
	require.Equal(t, 1, h.list.blurred)
}

func TestTypingUpdatesQuery(t *testing.T) {
	h := newHarness(t, state.Snapshot{Records: records(3)})

	h.send(runes("/"))
	require.True(t, h.model.search.Focused())

	h.send(runes("p"))
	h.send(runes("i"))
	require.Equal(t, []string{"p", "pi"}, h.list.queries)

	// Keys typed into the search box are not treated as commands.
	h.send(runes("f"))
	require.Empty(t, h.list.toggled)

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, h.model.search.Focused())
	require.Equal(t, "", h.list.queries[len(h.list.queries)-1])
}

func TestEnterKeepsQueryAndLeavesSearchBox(t *testing.T) {
	h := newHarness(t, state.Snapshot{Records: records(3)})

	h.send(runes("/"))
	h.send(runes("x"))
	h.send(tea.KeyMsg{Type: tea.KeyEnter})

	require.False(t, h.model.search.Focused())
	require.Equal(t, "x", h.model.search.Value())
	require.Equal(t, []string{"x"}, h.list.queries)
}

func TestDetailOpenAndClose(t *testing.T) {
	h := newHarness(t, state.Snapshot{Records: records(3)})

	h.sendAndRun(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, h.model.showDetail)
	require.Equal(t, []int{1}, h.details.opened)
	require.Contains(t, h.model.View(), "A strange seed.")

	h.sendAndRun(runes("f"))
	require.Equal(t, []int{1}, h.list.toggled)

	h.send(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, h.model.showDetail)
	require.Equal(t, 1, h.details.closed)
}

func TestThemeToggle(t *testing.T) {
	h := newHarness(t, state.Snapshot{})

	h.sendAndRun(runes("T"))
	require.Equal(t, prefs.Dark, h.model.themeName)
	require.Equal(t, "Dark", h.model.theme.Name)
	require.Equal(t, prefs.Dark, h.themes.theme)
}

func TestReloadKey(t *testing.T) {
	h := newHarness(t, state.Snapshot{Page: state.PageFailed})

	h.sendAndRun(runes("r"))
	require.Equal(t, 1, h.list.reloads)
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name string
		snap state.Snapshot
		want string
	}{
		{"end of list", state.Snapshot{Page: state.PageLoaded, Records: records(3)}, "end of list"},
		{"failed page", state.Snapshot{Page: state.PageFailed, Cursor: state.Cursor{HasMore: true}}, "r to retry"},
		{"suggestions", state.Snapshot{Search: state.SearchEmpty, ResultsFor: "pikchu", Suggestions: []string{"pikachu"}}, "Did you mean: pikachu"},
		{"remote results", state.Snapshot{Search: state.SearchResults, Mode: state.MatchRemote, ResultsFor: "fire", Results: records(2)}, "2 remote matches"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.snap)
			require.Contains(t, h.model.renderStatus(), tt.want)
		})
	}
}

func TestNotifierCoalesces(t *testing.T) {
	n := NewNotifier()
	n.Notify()
	n.Notify()
	n.Notify()

	require.Equal(t, refreshMsg{}, n.wait()())
	select {
	case <-n.ch:
		t.Fatal("expected a single pending redraw")
	default:
	}
}

func TestNotifierStopReleasesWait(t *testing.T) {
	n := NewNotifier()
	got := make(chan tea.Msg, 1)
	go func() { got <- n.wait()() }()

	n.Stop()
	n.Stop()
	select {
	case msg := <-got:
		require.Nil(t, msg)
	case <-time.After(time.Second):
		t.Fatal("wait still blocked after Stop")
	}
	n.Notify()
}

func TestScrollOffset(t *testing.T) {
	require.Equal(t, 0, scrollOffset(0, 3, 10))
	require.Equal(t, 5, scrollOffset(0, 14, 10))
	require.Equal(t, 2, scrollOffset(5, 2, 10))
	require.Equal(t, 0, scrollOffset(4, 2, 0))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "bulbasaur", truncate("bulbasaur", 10))
	require.Equal(t, "bulba…", truncate("bulbasaur", 6))
	require.True(t, strings.HasSuffix(truncate("charmander", 4), "…"))
}
