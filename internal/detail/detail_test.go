package detail

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/five82/dex/internal/catalog"
)

type describeCall struct {
	desc    string
	err     error
	gate    chan struct{}
	entered chan struct{}
}

type fakeDescriber struct {
	mu    sync.Mutex
	calls map[int]*describeCall
}

func (f *fakeDescriber) GetDescription(_ context.Context, id int) (string, error) {
	f.mu.Lock()
	call := f.calls[id]
	f.mu.Unlock()
	if call == nil {
		return "", errors.New("unknown id")
	}
	if call.entered != nil {
		close(call.entered)
	}
	if call.gate != nil {
		<-call.gate
	}
	return call.desc, call.err
}

func TestOpen_LoadsDescription(t *testing.T) {
	d := &fakeDescriber{calls: map[int]*describeCall{25: {desc: "Electric mouse."}}}
	l := NewLoader(d, nil)

	require.Equal(t, Idle, l.Snapshot().Phase)
	require.True(t, l.Open(context.Background(), catalog.Record{ID: 25, Name: "pikachu"}))

	snap := l.Snapshot()
	require.Equal(t, Loaded, snap.Phase)
	require.Equal(t, "Electric mouse.", snap.Description)
	require.NotNil(t, snap.Record)
	require.Equal(t, 25, snap.Record.ID)
}

func TestOpen_FailureUsesFallback(t *testing.T) {
	d := &fakeDescriber{calls: map[int]*describeCall{1: {err: errors.New("timeout")}}}
	l := NewLoader(d, nil)

	require.True(t, l.Open(context.Background(), catalog.Record{ID: 1}))
	snap := l.Snapshot()
	require.Equal(t, Failed, snap.Phase)
	require.Equal(t, Fallback, snap.Description)
}

func TestClose_ClearsState(t *testing.T) {
	d := &fakeDescriber{calls: map[int]*describeCall{1: {desc: "Seed."}}}
	l := NewLoader(d, nil)
	l.Open(context.Background(), catalog.Record{ID: 1})

	l.Close()
	snap := l.Snapshot()
	require.Nil(t, snap.Record)
	require.Equal(t, Idle, snap.Phase)
	require.Empty(t, snap.Description)
}

func TestClose_DiscardsPendingDescription(t *testing.T) {
	gate := make(chan struct{})
	entered := make(chan struct{})
	d := &fakeDescriber{calls: map[int]*describeCall{1: {desc: "stale", gate: gate, entered: entered}}}
	l := NewLoader(d, nil)

	applied := make(chan bool, 1)
	go func() { applied <- l.Open(context.Background(), catalog.Record{ID: 1}) }()
	<-entered
	require.Equal(t, Loading, l.Snapshot().Phase)

	l.Close()
	close(gate)
	require.False(t, <-applied)

	snap := l.Snapshot()
	require.Nil(t, snap.Record)
	require.Equal(t, Idle, snap.Phase)
	require.Empty(t, snap.Description)
}

func TestReopen_StaleDescriptionNotApplied(t *testing.T) {
	gate := make(chan struct{})
	entered := make(chan struct{})
	d := &fakeDescriber{calls: map[int]*describeCall{
		1: {desc: "bulbasaur text", gate: gate, entered: entered},
		4: {desc: "charmander text"},
	}}
	l := NewLoader(d, nil)

	applied := make(chan bool, 1)
	go func() { applied <- l.Open(context.Background(), catalog.Record{ID: 1}) }()
	<-entered

	l.Close()
	require.True(t, l.Open(context.Background(), catalog.Record{ID: 4}))

	close(gate)
	require.False(t, <-applied)

	snap := l.Snapshot()
	require.Equal(t, 4, snap.Record.ID)
	require.Equal(t, Loaded, snap.Phase)
	require.Equal(t, "charmander text", snap.Description)
}

func TestPhaseString(t *testing.T) {
	require.Equal(t, "idle", Idle.String())
	require.Equal(t, "loading", Loading.String())
	require.Equal(t, "loaded", Loaded.String())
	require.Equal(t, "failed", Failed.String())
}
