package gateway

import (
	"context"
	"fmt"
)

// syncGate serializes one request/response-correlated vendor call at
// a time, via a query_mutex + done/error signal pair. Login
// steps and synchronous Query* calls both open a gate, issue the
// vendor request, then wait for the matching OnRsp* callback (with
// is_last=true) to close it.
type syncGate struct {
	mu   chan struct{} // 1-buffered: acts as the "at most one outstanding query" lock
	done chan error    // any value sent signals completion; nil means success
}

func newSyncGate() *syncGate {
	g := &syncGate{mu: make(chan struct{}, 1)}
	g.mu <- struct{}{}
	return g
}

// open acquires the single-outstanding-request lock and returns a
// close function the caller must invoke exactly once to release it
// and deliver the result to wait.
func (g *syncGate) open() (closeFn func(err error)) {
	<-g.mu
	g.done = make(chan error, 1)
	done := g.done
	return func(err error) {
		done <- err
		g.mu <- struct{}{}
	}
}

// wait blocks until close(err) is called on the gate opened for this
// round, ctx is canceled, or the timeout elapses.
func (g *syncGate) wait(ctx context.Context) error {
	select {
	case err := <-g.done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("gateway: sync wait: %w", ctx.Err())
	}
}
