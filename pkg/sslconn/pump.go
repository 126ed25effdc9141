package sslconn

import (
	"errors"
	"syscall"
	"time"

	"github.com/rpcssl/rpcssl-go/pkg/engine"
	"github.com/rpcssl/rpcssl-go/pkg/poll"
)

// stepFunc performs one non-blocking engine call.
type stepFunc func() (n int, st engine.Status, err error)

// pumpResult is the outcome of a pump loop.
type pumpResult struct {
	n      int
	status engine.Status
	err    error
	code   int

	timedOut bool

	// aborted is set when the guard stopped the loop.
	aborted bool
}

func (r pumpResult) done() bool {
	return !r.timedOut && !r.aborted && r.err == nil &&
		(r.status == engine.StatusOK || r.status == engine.StatusZeroReturn)
}

// pump repeats step until it stops asking for readiness, waiting on the
// poller in between. Read waits are capped by readCap when it is positive.
// guard is checked before every step.
func (c *Conn) pump(b *budget, readCap time.Duration, guard func() bool, step stepFunc) pumpResult {
	for {
		if guard != nil && !guard() {
			return pumpResult{aborted: true}
		}

		n, st, err := step()
		switch st {
		case engine.StatusOK, engine.StatusZeroReturn:
			return pumpResult{n: n, status: st}
		case engine.StatusWantRead, engine.StatusWantWrite:
		default:
			return pumpResult{status: st, err: err, code: c.sess.LastError()}
		}

		wait, ok := b.next()
		if !ok {
			return pumpResult{timedOut: true}
		}
		dir := poll.DirectionWrite
		if st == engine.StatusWantRead {
			dir = poll.DirectionRead
			if readCap > 0 && (wait < 0 || wait > readCap) {
				wait = readCap
			}
		}

		b.polls++
		res, err := c.cfg.Poller.Wait(c.sess.FD(), dir, wait)
		if err != nil {
			return pumpResult{status: engine.StatusSyscall, err: err, code: errnoCode(err)}
		}
		if res == poll.ResultTimedOut {
			return pumpResult{timedOut: true}
		}
	}
}

func errnoCode(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int(errno)
	}
	return engine.CodeNone
}
