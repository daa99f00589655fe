// Package state provides the list orchestrator for dex.
//
// # Overview
//
// The Orchestrator owns everything the list and favorites views render: the
// paginated record collection, the debounced search overlay, and the favorite
// set with its fetched records. The presentation layer calls its operations
// and reads Snapshot values; it never touches the catalog or storage itself.
//
// # State Machines
//
// Two independent machines replace a pile of loading/searching booleans:
//
//	Page load:  idle -> loading -> loaded | failed
//	            loaded -> loading        (next page)
//	            failed -> loading        (Reload)
//
//	Search:     idle -> debouncing -> searching -> results | empty | failed
//	            any  -> debouncing       (new non-empty query)
//	            any  -> idle             (blank query)
//
// The legal transitions live in pageTransitions and searchTransitions. An
// illegal transition is logged and refused.
//
// # Pagination and Search
//
// LoadMore is ignored while a page is loading, after the last short page, or
// while a query is active. A non-empty query replaces the displayed
// collection instead of extending it; Snapshot.Display picks the right one.
//
// Every SetQuery restarts the debounce timer. When the surviving timer fires
// the query is matched against loaded records by name or type substring; the
// catalog is only searched when nothing local matches. Empty results come
// with fuzzy "did you mean" suggestions drawn from loaded names.
//
// # Favorites
//
// ToggleFavorite flips membership immediately and writes the whole set
// through to the FavoritesStore. A failed write is logged by the store and
// the in-memory flip stays: the stored set can lag behind memory until the
// next successful write.
//
// FocusFavorites reloads the stored set and refetches every favorite record
// with GetManyByIDs. Lookups that fail drop the record, never the id.
//
// # Concurrency Model
//
// Operations may be called from any goroutine. A single mutex guards state
// and is never held across catalog or storage calls. Because in-flight
// requests are not cancelled, each async operation takes a generation token
// before it starts and applies its result only if the token is still current:
//
//   - searchGen: bumped by every SetQuery
//   - favGen: bumped by every toggle and stored-set reload
//   - recGen: bumped by every favorite-record refetch
//
// A stale completion is dropped, so the newest request wins even if an older
// one finishes last.
//
// # Testing Considerations
//
// Options.Scheduler replaces time.AfterFunc so tests can fire debounce timers
// by hand. Options.Notify is called after each change; the TUI uses it to
// schedule a redraw.
package state
