package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/dex/internal/catalog"
	"github.com/five82/dex/internal/detail"
	"github.com/five82/dex/internal/prefs"
	"github.com/five82/dex/internal/state"
)

// View represents the active list.
type View int

const (
	ViewAll View = iota
	ViewFavorites
)

// Rows from the end of the list at which the next page is requested.
const loadMoreThreshold = 3

// Lister is the orchestrator surface the UI drives.
type Lister interface {
	Start(ctx context.Context) error
	Snapshot() state.Snapshot
	LoadMore(ctx context.Context) error
	Reload(ctx context.Context) error
	SetQuery(q string)
	ToggleFavorite(ctx context.Context, id int)
	FocusFavorites(ctx context.Context)
	BlurFavorites()
}

// Details loads the description shown in the detail overlay.
type Details interface {
	Open(ctx context.Context, rec catalog.Record) bool
	Close()
	Snapshot() detail.Snapshot
}

// Themes persists the light/dark preference.
type Themes interface {
	Load(ctx context.Context) prefs.Theme
	Toggle(ctx context.Context) prefs.Theme
}

// Options configures the UI.
type Options struct {
	Context  context.Context
	List     Lister
	Details  Details
	Themes   Themes
	Notifier *Notifier
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx      context.Context
	list     Lister
	details  Details
	themes   Themes
	notifier *Notifier
	keys     keyMap

	// UI state
	theme     Theme
	themeName prefs.Theme
	view      View
	width     int
	height    int
	ready     bool
	selected  int
	offset    int

	search         textinput.Model
	spinner        spinner.Model
	detailViewport viewport.Model
	showDetail     bool
	showHelp       bool

	// Data state
	snapshot state.Snapshot
	detail   detail.Snapshot
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	search := textinput.New()
	search.Placeholder = "Search by name or type"
	search.Prompt = "/ "
	search.CharLimit = 64

	return Model{
		ctx:       ctx,
		list:      opts.List,
		details:   opts.Details,
		themes:    opts.Themes,
		notifier:  opts.Notifier,
		keys:      DefaultKeyMap(),
		theme:     ThemeFor(prefs.Light),
		themeName: prefs.Light,
		search:    search,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.startCmd(),
	}
	if m.themes != nil {
		cmds = append(cmds, m.loadThemeCmd())
	}
	if m.notifier != nil {
		cmds = append(cmds, m.notifier.wait())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeDetailViewport()
		m.ready = true
		m.clampSelection()
		return m, nil

	case refreshMsg:
		m.refresh()
		if m.notifier != nil {
			return m, m.notifier.wait()
		}
		return m, nil

	case syncMsg:
		m.refresh()
		return m, nil

	case themeMsg:
		m.themeName = prefs.Theme(msg)
		m.theme = ThemeFor(m.themeName)
		m.updateDetailViewport()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.search.Focused() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showDetail {
		return m.renderDetail()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.showDetail {
		return m.handleDetailKey(msg)
	}
	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		if m.themes == nil {
			return m, nil
		}
		return m, m.toggleThemeCmd()

	case key.Matches(msg, m.keys.Tab):
		return m.switchView()

	case key.Matches(msg, m.keys.Search):
		if m.view != ViewAll {
			return m, nil
		}
		return m, m.search.Focus()

	case key.Matches(msg, m.keys.Escape):
		if m.search.Value() == "" {
			return m, nil
		}
		m.search.SetValue("")
		m.list.SetQuery("")
		m.selected = 0
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.run(m.list.Reload)

	case key.Matches(msg, m.keys.Open):
		rec, ok := m.selectedRecord()
		if !ok || m.details == nil {
			return m, nil
		}
		return m.openDetail(rec)

	case key.Matches(msg, m.keys.ToggleFavorite):
		rec, ok := m.selectedRecord()
		if !ok {
			return m, nil
		}
		return m, m.toggleFavoriteCmd(rec.ID)
	}

	return m.handleNavKey(msg)
}

func (m Model) handleNavKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.rows())
	if count == 0 {
		return m, nil
	}
	page := max(m.listHeight()-1, 1)

	switch {
	case key.Matches(msg, m.keys.Down):
		m.selected++
	case key.Matches(msg, m.keys.Up):
		m.selected--
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	case key.Matches(msg, m.keys.PageDown):
		m.selected += page
	case key.Matches(msg, m.keys.PageUp):
		m.selected -= page
	default:
		return m, nil
	}
	m.clampSelection()

	if m.view == ViewAll && m.selected >= count-loadMoreThreshold {
		return m, m.run(m.list.LoadMore)
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.search.Blur()
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.list.SetQuery("")
			m.selected = 0
			m.refresh()
		}
		return m, nil
	}

	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != prev {
		m.list.SetQuery(value)
		m.selected = 0
		m.refresh()
	}
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Open):
		m.details.Close()
		m.showDetail = false
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.ToggleFavorite):
		if m.detail.Record == nil {
			return m, nil
		}
		return m, m.toggleFavoriteCmd(m.detail.Record.ID)
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m Model) switchView() (tea.Model, tea.Cmd) {
	m.selected = 0
	m.offset = 0
	if m.view == ViewAll {
		m.view = ViewFavorites
		m.search.Blur()
		ctx := m.ctx
		list := m.list
		return m, func() tea.Msg {
			list.FocusFavorites(ctx)
			return syncMsg{}
		}
	}
	m.view = ViewAll
	m.list.BlurFavorites()
	m.refresh()
	return m, nil
}

func (m Model) openDetail(rec catalog.Record) (tea.Model, tea.Cmd) {
	m.showDetail = true
	m.detail = detail.Snapshot{Record: &rec, Phase: detail.Loading}
	m.updateDetailViewport()
	ctx := m.ctx
	details := m.details
	return m, func() tea.Msg {
		details.Open(ctx, rec)
		return syncMsg{}
	}
}

// refresh pulls fresh snapshots from the orchestrator and the loader.
func (m *Model) refresh() {
	if m.list != nil {
		m.snapshot = m.list.Snapshot()
	}
	if m.details != nil && m.showDetail {
		m.detail = m.details.Snapshot()
	}
	m.clampSelection()
	m.updateDetailViewport()
}

func (m Model) rows() []catalog.Record {
	if m.view == ViewFavorites {
		return m.snapshot.FavoriteRecords
	}
	return m.snapshot.Display()
}

func (m Model) selectedRecord() (catalog.Record, bool) {
	rows := m.rows()
	if m.selected < 0 || m.selected >= len(rows) {
		return catalog.Record{}, false
	}
	return rows[m.selected], true
}

func (m *Model) clampSelection() {
	count := len(m.rows())
	if m.selected >= count {
		m.selected = count - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	m.offset = scrollOffset(m.offset, m.selected, m.listHeight())
}

// scrollOffset keeps selected inside a window of height rows starting at offset.
func scrollOffset(offset, selected, height int) int {
	if height <= 0 {
		return 0
	}
	if selected < offset {
		return selected
	}
	if selected >= offset+height {
		return selected - height + 1
	}
	return offset
}

// Messages

type refreshMsg struct{}

type syncMsg struct{}

type themeMsg prefs.Theme

// Commands

func (m Model) run(op func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		_ = op(ctx)
		return syncMsg{}
	}
}

func (m Model) startCmd() tea.Cmd {
	if m.list == nil {
		return nil
	}
	return m.run(m.list.Start)
}

func (m Model) toggleFavoriteCmd(id int) tea.Cmd {
	ctx := m.ctx
	list := m.list
	return func() tea.Msg {
		list.ToggleFavorite(ctx, id)
		return syncMsg{}
	}
}

func (m Model) loadThemeCmd() tea.Cmd {
	ctx := m.ctx
	themes := m.themes
	return func() tea.Msg {
		return themeMsg(themes.Load(ctx))
	}
}

func (m Model) toggleThemeCmd() tea.Cmd {
	ctx := m.ctx
	themes := m.themes
	return func() tea.Msg {
		return themeMsg(themes.Toggle(ctx))
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(opts Options) error {
	if opts.List == nil {
		return fmt.Errorf("ui requires a list orchestrator")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Notifier != nil {
		defer opts.Notifier.Stop()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
