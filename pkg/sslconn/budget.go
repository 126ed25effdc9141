package sslconn

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rpcssl/rpcssl-go/pkg/poll"
)

// budget tracks what is left of a caller's timeout across several waits.
type budget struct {
	clock    clock.Clock
	timeout  time.Duration
	deadline time.Time
	start    time.Time
	polls    int
}

func newBudget(clk clock.Clock, timeout time.Duration) *budget {
	now := clk.Now()
	b := &budget{clock: clk, timeout: timeout, start: now}
	if timeout > 0 {
		b.deadline = now.Add(timeout)
	}
	return b
}

// next returns the timeout for the next readiness wait and false once the
// budget is used up. A zero budget allows a single non-blocking check.
func (b *budget) next() (time.Duration, bool) {
	switch {
	case b.timeout < 0:
		return poll.Infinite, true
	case b.timeout == 0:
		return poll.Immediate, b.polls == 0
	}
	left := b.deadline.Sub(b.clock.Now())
	if left <= 0 {
		return 0, false
	}
	return left, true
}

// context bounds a blocking wait by the budget.
func (b *budget) context() (context.Context, context.CancelFunc) {
	switch {
	case b.timeout < 0:
		return context.WithCancel(context.Background())
	case b.timeout == 0:
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx, cancel
	}
	return b.clock.WithDeadline(context.Background(), b.deadline)
}

func (b *budget) elapsed() time.Duration {
	return b.clock.Since(b.start)
}
