package state

import (
	"context"
	"fmt"
	"io"
	"log"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/five82/dex/internal/catalog"
)

const (
	DefaultPageSize = 20
	DefaultDebounce = 500 * time.Millisecond

	maxSuggestions = 5
)

// Catalog is the subset of the catalog gateway the orchestrator uses.
type Catalog interface {
	ListPage(ctx context.Context, limit, offset int) ([]catalog.Record, error)
	GetManyByIDs(ctx context.Context, ids []int) []catalog.Record
	Search(ctx context.Context, term string) []catalog.Record
}

// FavoritesStore loads and saves the favorite id set.
type FavoritesStore interface {
	Load(ctx context.Context) []int
	Save(ctx context.Context, ids []int)
}

// Options configure an Orchestrator.
type Options struct {
	Catalog   Catalog
	Favorites FavoritesStore
	Logger    *log.Logger
	Scheduler Scheduler     // nil uses time.AfterFunc
	PageSize  int           // zero uses DefaultPageSize
	Debounce  time.Duration // zero uses DefaultDebounce
	// Notify is called after every state change, outside the lock.
	Notify func()
}

// Cursor is the pagination position.
type Cursor struct {
	Limit   int
	Offset  int
	HasMore bool
}

// Snapshot is a copy of the orchestrator state for rendering.
type Snapshot struct {
	Page    PageState
	PageErr error
	Cursor  Cursor
	Records []catalog.Record

	Query       string
	Search      SearchState
	Mode        MatchMode
	Results     []catalog.Record
	ResultsFor  string
	Suggestions []string

	Favorites        []int
	FavoriteRecords  []catalog.Record
	FavoritesLoaded  bool
	FavoritesLoading bool
}

// Display returns the collection the list view should show: search results
// while a search overlay is active, the paginated records otherwise.
func (s Snapshot) Display() []catalog.Record {
	if s.Search == SearchIdle || s.ResultsFor == "" {
		return s.Records
	}
	return s.Results
}

// IsFavorite reports whether id is in the snapshot's favorite set.
func (s Snapshot) IsFavorite(id int) bool {
	return slices.Contains(s.Favorites, id)
}

// Orchestrator owns the paginated collection, the search overlay, and the
// favorite set. It is safe for concurrent use; no lock is held across I/O.
type Orchestrator struct {
	catalog   Catalog
	store     FavoritesStore
	logger    *log.Logger
	scheduler Scheduler
	debounce  time.Duration
	notifyFn  func()

	ctx    context.Context
	cancel context.CancelFunc
	bg     sync.WaitGroup
	saveMu sync.Mutex

	mu      sync.Mutex
	page    PageState
	pageErr error
	cursor  Cursor
	records []catalog.Record

	query       string
	search      SearchState
	mode        MatchMode
	results     []catalog.Record
	resultsFor  string
	suggestions []string
	timer       Timer
	searchGen   uint64

	favIDs        []int
	favSet        map[int]struct{}
	favRecords    []catalog.Record
	favLoaded     bool
	favLoading    bool
	favoritesView bool
	favGen        uint64
	recGen        uint64
	favReads      int

	// Toggles made before the stored set was first read, replayed onto it.
	favPending []int

	closed bool
}

// NewOrchestrator builds an Orchestrator. Catalog and Favorites are required.
func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.Catalog == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	if opts.Favorites == nil {
		return nil, fmt.Errorf("favorites store is nil")
	}
	o := &Orchestrator{
		catalog:   opts.Catalog,
		store:     opts.Favorites,
		logger:    opts.Logger,
		scheduler: opts.Scheduler,
		debounce:  opts.Debounce,
		notifyFn:  opts.Notify,
		cursor:    Cursor{Limit: opts.PageSize, HasMore: true},
		favSet:    map[int]struct{}{},
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard, "", 0)
	}
	if o.scheduler == nil {
		o.scheduler = realScheduler{}
	}
	if o.debounce <= 0 {
		o.debounce = DefaultDebounce
	}
	if o.cursor.Limit <= 0 {
		o.cursor.Limit = DefaultPageSize
	}
	o.ctx, o.cancel = context.WithCancel(context.Background())
	return o, nil
}

// Start loads the first page and the stored favorites concurrently. It
// returns when the page load finishes; favorites may land afterwards.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.goBackground(func() { o.loadFavoriteIDs(ctx) })
	return o.loadPage(ctx, func() (bool, bool) {
		return true, o.page != PageLoading
	})
}

// LoadMore fetches the next page. It does nothing while a load is in flight,
// after a failure, when every page has been loaded, or while a search query
// is active.
func (o *Orchestrator) LoadMore(ctx context.Context) error {
	return o.loadPage(ctx, func() (bool, bool) {
		return false, o.page == PageLoaded && o.cursor.HasMore && catalog.NormalizeQuery(o.query) == ""
	})
}

// Reload retries after a failed page load: page 0 when nothing is loaded,
// otherwise the page at the current cursor.
func (o *Orchestrator) Reload(ctx context.Context) error {
	return o.loadPage(ctx, func() (bool, bool) {
		return len(o.records) == 0, o.page == PageFailed
	})
}

// loadPage fetches one page. ready runs under o.mu and reports whether this
// is a first-page load and whether the load should happen at all.
func (o *Orchestrator) loadPage(ctx context.Context, ready func() (first, ok bool)) error {
	o.mu.Lock()
	first, ok := ready()
	if !ok {
		o.mu.Unlock()
		return nil
	}
	if !o.setPage(PageLoading) {
		o.mu.Unlock()
		return nil
	}
	limit := o.cursor.Limit
	offset := o.cursor.Offset
	if first {
		offset = 0
	}
	o.pageErr = nil
	o.mu.Unlock()
	o.notify()

	records, err := o.catalog.ListPage(ctx, limit, offset)

	o.mu.Lock()
	if err != nil {
		o.pageErr = err
		o.setPage(PageFailed)
		o.mu.Unlock()
		o.logger.Printf("load page offset=%d: %v", offset, err)
		o.notify()
		return err
	}
	if first {
		o.records = slices.Clone(records)
		o.cursor.HasMore = true
	} else {
		o.records = append(o.records, records...)
	}
	o.cursor.Offset = offset + limit
	if len(records) < limit {
		o.cursor.HasMore = false
	}
	o.setPage(PageLoaded)
	o.mu.Unlock()
	o.notify()
	return nil
}

// SetQuery records a new query and restarts the debounce timer. A blank query
// clears the search overlay immediately without searching.
func (o *Orchestrator) SetQuery(q string) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.query = q
	normalized := catalog.NormalizeQuery(q)
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.searchGen++
	gen := o.searchGen

	if normalized == "" {
		if o.search != SearchIdle {
			o.setSearch(SearchIdle)
		}
		o.results = nil
		o.resultsFor = ""
		o.suggestions = nil
		o.mode = MatchNone
		o.mu.Unlock()
		o.notify()
		return
	}

	o.setSearch(SearchDebouncing)
	o.timer = o.scheduler.AfterFunc(o.debounce, func() {
		o.runSearch(gen, normalized)
	})
	o.mu.Unlock()
	o.notify()
}

// runSearch evaluates the query once its debounce timer survives. Loaded
// records are checked first; the catalog is only asked when none match.
func (o *Orchestrator) runSearch(gen uint64, normalized string) {
	o.mu.Lock()
	if o.closed || gen != o.searchGen {
		o.mu.Unlock()
		return
	}
	o.timer = nil
	o.setSearch(SearchSearching)
	local := filterRecords(o.records, normalized)
	names := recordNames(o.records)
	o.mu.Unlock()
	o.notify()

	mode := MatchLocal
	results := local
	if len(local) == 0 {
		mode = MatchRemote
		results = o.catalog.Search(o.ctx, normalized)
	}

	o.mu.Lock()
	if gen != o.searchGen {
		o.mu.Unlock()
		return
	}
	o.results = results
	o.resultsFor = normalized
	o.mode = mode
	o.suggestions = nil
	switch {
	case o.ctx.Err() != nil:
		o.results = nil
		o.setSearch(SearchFailed)
	case len(results) == 0:
		o.suggestions = suggest(normalized, names)
		o.setSearch(SearchEmpty)
	default:
		o.setSearch(SearchResults)
	}
	o.mu.Unlock()
	o.notify()
}

// ToggleFavorite flips membership of id and persists the whole set. The flip
// is applied before the write and is not rolled back if the write fails.
// While the favorites view is active the favorite records are refetched.
//
// Until the stored set has been read, flips are kept pending and replayed
// onto it once the read lands; nothing is written before then.
func (o *Orchestrator) ToggleFavorite(ctx context.Context, id int) {
	o.mu.Lock()
	o.favIDs = toggleID(o.favIDs, id)
	o.favSet = setOf(o.favIDs)
	o.favRecords = o.keepFavorites(o.favRecords)
	refetch := o.favoritesView
	if !o.favLoaded {
		o.favPending = append(o.favPending, id)
		idle := o.favReads == 0
		o.mu.Unlock()
		o.notify()
		if !idle {
			return
		}
		if ids, ok := o.loadFavoriteIDs(ctx); ok && refetch {
			o.refreshFavoriteRecords(ctx, ids)
		}
		return
	}
	o.favGen++
	o.mu.Unlock()
	o.notify()

	ids := o.persistFavorites(ctx)
	if refetch {
		o.refreshFavoriteRecords(ctx, ids)
	}
}

// persistFavorites writes the current set. Writes are serialized and each one
// saves the latest in-memory set.
func (o *Orchestrator) persistFavorites(ctx context.Context) []int {
	o.saveMu.Lock()
	defer o.saveMu.Unlock()
	o.mu.Lock()
	ids := slices.Clone(o.favIDs)
	o.mu.Unlock()
	o.store.Save(ctx, ids)
	return ids
}

// FocusFavorites marks the favorites view active, reloads the stored set, and
// refetches every favorite record.
func (o *Orchestrator) FocusFavorites(ctx context.Context) {
	o.mu.Lock()
	o.favoritesView = true
	o.mu.Unlock()

	ids, ok := o.loadFavoriteIDs(ctx)
	if !ok {
		return
	}
	o.refreshFavoriteRecords(ctx, ids)
}

// BlurFavorites marks the favorites view inactive.
func (o *Orchestrator) BlurFavorites() {
	o.mu.Lock()
	o.favoritesView = false
	o.mu.Unlock()
}

// loadFavoriteIDs reads the stored set and replays pending toggles onto it.
// The result is dropped if the set was changed or reloaded while the read
// was in flight.
func (o *Orchestrator) loadFavoriteIDs(ctx context.Context) ([]int, bool) {
	o.mu.Lock()
	o.favGen++
	gen := o.favGen
	o.favReads++
	o.mu.Unlock()

	stored := o.store.Load(ctx)

	o.mu.Lock()
	o.favReads--
	if gen != o.favGen {
		o.mu.Unlock()
		return nil, false
	}
	ids := slices.Clone(stored)
	for _, id := range o.favPending {
		ids = toggleID(ids, id)
	}
	o.favPending = nil
	o.favIDs = ids
	o.favSet = setOf(ids)
	o.favRecords = o.keepFavorites(o.favRecords)
	o.favLoaded = true
	o.mu.Unlock()
	o.notify()

	if !slices.Equal(ids, stored) {
		return o.persistFavorites(ctx), true
	}
	return slices.Clone(ids), true
}

func (o *Orchestrator) refreshFavoriteRecords(ctx context.Context, ids []int) {
	o.mu.Lock()
	o.recGen++
	gen := o.recGen
	o.favLoading = true
	o.mu.Unlock()
	o.notify()

	var records []catalog.Record
	if len(ids) > 0 {
		records = o.catalog.GetManyByIDs(ctx, ids)
	}

	o.mu.Lock()
	if gen != o.recGen {
		o.mu.Unlock()
		return
	}
	o.favRecords = o.keepFavorites(records)
	o.favLoading = false
	o.mu.Unlock()
	o.notify()
}

// keepFavorites drops records no longer in the set and orders the rest by
// their position in the set. Callers hold o.mu.
func (o *Orchestrator) keepFavorites(records []catalog.Record) []catalog.Record {
	pos := make(map[int]int, len(o.favIDs))
	for i, id := range o.favIDs {
		pos[id] = i
	}
	out := make([]catalog.Record, 0, len(records))
	for _, rec := range records {
		if _, ok := pos[rec.ID]; ok {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return pos[out[i].ID] < pos[out[j].ID] })
	return out
}

// toggleID removes id from ids when present and appends it otherwise.
func toggleID(ids []int, id int) []int {
	if slices.Contains(ids, id) {
		return slices.DeleteFunc(ids, func(v int) bool { return v == id })
	}
	return append(ids, id)
}

func setOf(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// IsFavorite reports whether id is in the favorite set.
func (o *Orchestrator) IsFavorite(id int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.favSet[id]
	return ok
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		Page:             o.page,
		PageErr:          o.pageErr,
		Cursor:           o.cursor,
		Records:          slices.Clone(o.records),
		Query:            o.query,
		Search:           o.search,
		Mode:             o.mode,
		Results:          slices.Clone(o.results),
		ResultsFor:       o.resultsFor,
		Suggestions:      slices.Clone(o.suggestions),
		Favorites:        slices.Clone(o.favIDs),
		FavoriteRecords:  slices.Clone(o.favRecords),
		FavoritesLoaded:  o.favLoaded,
		FavoritesLoading: o.favLoading,
	}
}

// Close stops the pending debounce timer, cancels timer-driven searches, and
// waits for background loads to finish.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	o.mu.Unlock()
	o.cancel()
	o.bg.Wait()
}

func (o *Orchestrator) goBackground(fn func()) {
	o.bg.Add(1)
	go func() {
		defer o.bg.Done()
		fn()
	}()
}

// setPage applies a page transition. Callers hold o.mu.
func (o *Orchestrator) setPage(next PageState) bool {
	if !canTransition(pageTransitions, o.page, next) {
		o.logger.Printf("refusing page transition %s -> %s", o.page, next)
		return false
	}
	o.page = next
	return true
}

// setSearch applies a search transition. Callers hold o.mu.
func (o *Orchestrator) setSearch(next SearchState) bool {
	if !canTransition(searchTransitions, o.search, next) {
		o.logger.Printf("refusing search transition %s -> %s", o.search, next)
		return false
	}
	o.search = next
	return true
}

func (o *Orchestrator) notify() {
	if o.notifyFn != nil {
		o.notifyFn()
	}
}

func filterRecords(records []catalog.Record, query string) []catalog.Record {
	var out []catalog.Record
	for _, rec := range records {
		if rec.Matches(query) {
			out = append(out, rec)
		}
	}
	return out
}

func recordNames(records []catalog.Record) []string {
	names := make([]string, 0, len(records))
	for _, rec := range records {
		names = append(names, rec.Name)
	}
	return names
}

// suggest ranks loaded names by fuzzy distance to query.
func suggest(query string, names []string) []string {
	ranks := fuzzy.RankFindNormalizedFold(query, names)
	if len(ranks) == 0 {
		return nil
	}
	sort.Sort(ranks)
	out := make([]string, 0, maxSuggestions)
	for _, r := range ranks {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
