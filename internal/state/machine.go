package state

// PageState tracks the page-load lifecycle.
type PageState int

const (
	PageIdle PageState = iota
	PageLoading
	PageLoaded
	PageFailed
)

var pageStateNames = map[PageState]string{
	PageIdle:    "idle",
	PageLoading: "loading",
	PageLoaded:  "loaded",
	PageFailed:  "failed",
}

func (s PageState) String() string {
	if name, ok := pageStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// pageTransitions lists the legal next states for each page state.
var pageTransitions = map[PageState][]PageState{
	PageIdle:    {PageLoading},
	PageLoading: {PageLoaded, PageFailed},
	PageLoaded:  {PageLoading},
	PageFailed:  {PageLoading},
}

// SearchState tracks the debounced search overlay.
type SearchState int

const (
	SearchIdle SearchState = iota
	SearchDebouncing
	SearchSearching
	SearchResults
	SearchEmpty
	SearchFailed
)

var searchStateNames = map[SearchState]string{
	SearchIdle:       "idle",
	SearchDebouncing: "debouncing",
	SearchSearching:  "searching",
	SearchResults:    "results",
	SearchEmpty:      "empty",
	SearchFailed:     "failed",
}

func (s SearchState) String() string {
	if name, ok := searchStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// searchTransitions lists the legal next states for each search state. Every
// state may restart debouncing or return to idle when the query changes.
var searchTransitions = map[SearchState][]SearchState{
	SearchIdle:       {SearchDebouncing},
	SearchDebouncing: {SearchDebouncing, SearchSearching, SearchIdle},
	SearchSearching:  {SearchDebouncing, SearchResults, SearchEmpty, SearchFailed, SearchIdle},
	SearchResults:    {SearchDebouncing, SearchIdle},
	SearchEmpty:      {SearchDebouncing, SearchIdle},
	SearchFailed:     {SearchDebouncing, SearchIdle},
}

// Settled reports whether a search has finished for the current query.
func (s SearchState) Settled() bool {
	return s == SearchResults || s == SearchEmpty || s == SearchFailed
}

// MatchMode records how the current search results were produced.
type MatchMode int

const (
	MatchNone MatchMode = iota
	MatchLocal
	MatchRemote
)

func (m MatchMode) String() string {
	switch m {
	case MatchLocal:
		return "local"
	case MatchRemote:
		return "remote"
	default:
		return "none"
	}
}

func canTransition[S comparable](table map[S][]S, from, to S) bool {
	for _, next := range table[from] {
		if next == to {
			return true
		}
	}
	return false
}
