package navigator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ziadkadry99/learnhub/internal/catalog"
	"github.com/ziadkadry99/learnhub/internal/fetcher"
)

// gatedFetcher holds each fetch until its path is released.
type gatedFetcher struct {
	mu           sync.Mutex
	gates        map[string]chan struct{}
	ignoreCancel bool
}

func newGatedFetcher(ignoreCancel bool) *gatedFetcher {
	return &gatedFetcher{gates: map[string]chan struct{}{}, ignoreCancel: ignoreCancel}
}

func (g *gatedFetcher) gate(path string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[path]
	if !ok {
		ch = make(chan struct{})
		g.gates[path] = ch
	}
	return ch
}

func (g *gatedFetcher) release(path string) { close(g.gate(path)) }

func (g *gatedFetcher) Fetch(ctx context.Context, ref catalog.FileRef) (string, error) {
	gate := g.gate(ref.Path)
	if g.ignoreCancel {
		<-gate
		return "# " + ref.FileName, nil
	}
	select {
	case <-gate:
		return "# " + ref.FileName, nil
	case <-ctx.Done():
		return "", &fetcher.Error{Kind: fetcher.KindNetwork, Path: ref.Path, Err: ctx.Err()}
	}
}

func next(t *testing.T, out <-chan State) State {
	t.Helper()
	select {
	case s := <-out:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state")
		return State{}
	}
}

func waitFor(t *testing.T, out <-chan State, cond func(State) bool) State {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-out:
			if cond(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for state")
			return State{}
		}
	}
}

func TestRunDiscardsStaleResponse(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGatedFetcher(true)
	c := New(testRegistry(t), g, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan Event)
	out := make(chan State, 16)
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, in, out) }()

	assert.Equal(t, PhaseIdle, next(t, out).Phase)

	in <- SelectFile{Subject: "Go", Folder: catalog.KindNotes, Index: 0}
	s := next(t, out)
	assert.Equal(t, PhaseLoading, s.Phase)
	assert.Equal(t, "Go/notes/a.md", s.Current.Path)

	in <- SelectFile{Subject: "Go", Folder: catalog.KindNotes, Index: 1}
	s = next(t, out)
	assert.Equal(t, "Go/notes/b.md", s.Current.Path)

	g.release("Go/notes/b.md")
	s = next(t, out)
	require.Equal(t, PhaseDisplaying, s.Phase)
	assert.Equal(t, "b.md", s.Document.Title)

	// a.md resolves last; the state it produces must still show b.md.
	g.release("Go/notes/a.md")
	s = next(t, out)
	assert.Equal(t, PhaseDisplaying, s.Phase)
	assert.Equal(t, "Go/notes/b.md", s.Document.Ref.Path)
	assert.Equal(t, 1, s.FileIndex)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestRunCancelsInFlightFetchOnShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := newGatedFetcher(false)
	c := New(testRegistry(t), g, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	in := make(chan Event)
	out := make(chan State, 16)
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, in, out) }()

	next(t, out)
	in <- SelectFile{Subject: "Go", Folder: catalog.KindNotes, Index: 0}
	waitFor(t, out, func(s State) bool { return s.Phase == PhaseLoading })

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestRunStopsWhenInputCloses(t *testing.T) {
	defer goleak.VerifyNone(t)

	c := New(testRegistry(t), newFakeFetcher(testDocs()), nil, nil)
	in := make(chan Event)
	out := make(chan State, 16)
	done := make(chan error, 1)
	go func() { done <- c.Run(context.Background(), in, out) }()

	next(t, out)
	in <- SelectFile{Subject: "Go", Folder: catalog.KindNotes, Index: 0}
	s := waitFor(t, out, func(s State) bool { return s.Phase == PhaseDisplaying })
	assert.Equal(t, "A", s.Document.Title)

	in <- ToggleDarkMode{}
	assert.True(t, next(t, out).DarkMode)

	close(in)
	assert.NoError(t, <-done)
}
