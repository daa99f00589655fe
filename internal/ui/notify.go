package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Notifier turns orchestrator change callbacks into redraws. Bursts of
// notifications collapse into a single pending redraw.
type Notifier struct {
	ch       chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewNotifier returns a Notifier with room for one pending redraw.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1), done: make(chan struct{})}
}

// Notify requests a redraw. It never blocks.
func (n *Notifier) Notify() {
	select {
	case n.ch <- struct{}{}:
	default:
	}
}

// Stop releases any pending wait. Notify stays safe to call afterwards.
func (n *Notifier) Stop() {
	n.stopOnce.Do(func() { close(n.done) })
}

func (n *Notifier) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-n.ch:
			return refreshMsg{}
		case <-n.done:
			return nil
		}
	}
}
