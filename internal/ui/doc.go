// Package ui provides the dex terminal interface built on Bubble Tea.
//
// # Architecture Overview
//
// The UI is a thin presentation layer. It holds no catalog data of its own:
// every frame is rendered from a state.Snapshot taken from the list
// orchestrator and a detail.Snapshot taken from the description loader.
// User input is translated into orchestrator operations, and blocking
// operations run as tea.Cmd functions so the event loop never waits on the
// network.
//
// # Package Structure
//
//   - app.go: Model, Update loop, key handling and commands
//   - view.go: list screen (header, search bar, rows, status line, footer)
//   - detail.go: detail overlay backed by a scrollable viewport
//   - help.go: keyboard shortcut overlay
//   - keys.go: key bindings
//   - theme.go: light and dark palettes and Lipgloss styles
//   - notify.go: coalescing redraw channel
//
// # Views
//
//   - All: paginated records, or search results while a query is active.
//     Moving within three rows of the end requests the next page.
//   - Favorites: the favorite records, refetched each time the view opens.
//
// Tab switches views. Enter opens the detail overlay, which closes with esc.
//
// # Redraws
//
// The orchestrator calls Notifier.Notify after every state change, from
// whichever goroutine made it. Notify never blocks, and a burst of calls
// collapses into one pending refreshMsg, so a debounce timer firing from
// another goroutine is enough to repaint the screen.
//
// # Themes
//
// The light/dark preference is loaded from the theme store at startup and
// persisted each time T toggles it.
package ui
