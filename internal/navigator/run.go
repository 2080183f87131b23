package navigator

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run owns the controller until ctx is done or in is closed. Every event,
// from in or from a finished Cmd, goes through Update on this goroutine and
// the resulting state is sent on out. The initial state is sent first.
func (c *Controller) Run(ctx context.Context, in <-chan Event, out chan<- State) error {
	loopCtx, stop := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(loopCtx)
	results := make(chan Event)

	defer func() {
		stop()
		c.supersede()
		_ = g.Wait()
	}()

	emit := func() bool {
		select {
		case out <- c.State():
			return true
		case <-ctx.Done():
			return false
		}
	}
	dispatch := func(cmd Cmd) {
		if cmd == nil {
			return
		}
		g.Go(func() error {
			ev := cmd()
			select {
			case results <- ev:
			case <-gctx.Done():
			}
			return nil
		})
	}

	if !emit() {
		return ctx.Err()
	}
	for {
		var ev Event
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e, ok := <-in:
			if !ok {
				return nil
			}
			ev = e
		case ev = <-results:
		}

		dispatch(c.Update(loopCtx, ev))
		if !emit() {
			return ctx.Err()
		}
	}
}
