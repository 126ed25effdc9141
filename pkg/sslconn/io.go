package sslconn

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rpcssl/rpcssl-go/pkg/engine"
	"github.com/rpcssl/rpcssl-go/pkg/log"
)

var _ io.ReadWriteCloser = (*Conn)(nil)

// Read reads application data using Config.ReadTimeout. It returns io.EOF
// once the peer shut down cleanly.
func (c *Conn) Read(p []byte) (int, error) {
	n, err := c.ReadTimeout(p, c.cfg.ReadTimeout)
	if errors.Is(err, ErrPeerClosed) {
		return n, io.EOF
	}
	return n, err
}

// Write writes application data using Config.WriteTimeout.
func (c *Conn) Write(p []byte) (int, error) {
	return c.WriteTimeout(p, c.cfg.WriteTimeout)
}

// ReadTimeout reads up to len(p) bytes of application data. It is allowed in
// PhaseConnected and, to drain the peer's last records, in PhaseShutdown.
// A short read is normal. A clean shutdown by the peer returns
// ErrPeerClosed with n == 0.
func (c *Conn) ReadTimeout(p []byte, timeout time.Duration) (int, error) {
	if ph := c.phase.load(); ph == PhaseHandshake {
		return 0, &Error{Kind: KindInvalidPhase, Op: opRead, Err: fmt.Errorf("phase %s", ph)}
	}
	if len(p) == 0 {
		return 0, nil
	}

	c.ioMu.RLock()
	defer c.ioMu.RUnlock()
	c.readMu.Lock()
	defer c.readMu.Unlock()

	// A renegotiation may have run while we waited for the lock.
	if ph := c.phase.load(); ph == PhaseHandshake {
		return 0, &Error{Kind: KindInvalidPhase, Op: opRead, Err: fmt.Errorf("phase %s", ph)}
	}

	b := newBudget(c.cfg.Clock, timeout)
	res := c.pump(b, 0, nil, func() (int, engine.Status, error) {
		return c.sess.Read(p)
	})

	switch {
	case res.timedOut:
		c.emitIO(log.DirectionIn, len(p), 0, b, false)
		return 0, c.fail(KindReadTimeout, opRead, engine.CodeNone, nil)
	case res.status == engine.StatusZeroReturn:
		c.emitIO(log.DirectionIn, len(p), 0, b, true)
		return 0, &Error{Kind: KindPeerClosed, Op: opRead}
	case !res.done():
		return 0, c.fail(KindReadError, opRead, res.code, res.err)
	}
	c.emitIO(log.DirectionIn, len(p), res.n, b, false)
	return res.n, nil
}

// WriteTimeout writes p as application data. It is only allowed in
// PhaseConnected. The count may be less than len(p); the caller writes the
// remainder with another call. After ErrWriteTimeout part of p may already
// be encrypted; retry with the same buffer.
func (c *Conn) WriteTimeout(p []byte, timeout time.Duration) (int, error) {
	if ph := c.phase.load(); ph != PhaseConnected {
		return 0, &Error{Kind: KindInvalidPhase, Op: opWrite, Err: fmt.Errorf("phase %s", ph)}
	}
	if len(p) == 0 {
		return 0, nil
	}

	c.ioMu.RLock()
	defer c.ioMu.RUnlock()
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if ph := c.phase.load(); ph != PhaseConnected {
		return 0, &Error{Kind: KindInvalidPhase, Op: opWrite, Err: fmt.Errorf("phase %s", ph)}
	}

	b := newBudget(c.cfg.Clock, timeout)
	res := c.pump(b, 0, nil, func() (int, engine.Status, error) {
		return c.sess.Write(p)
	})

	switch {
	case res.timedOut:
		c.emitIO(log.DirectionOut, len(p), 0, b, false)
		return 0, c.fail(KindWriteTimeout, opWrite, engine.CodeNone, nil)
	case !res.done():
		return 0, c.fail(KindWriteError, opWrite, res.code, res.err)
	}
	c.emitIO(log.DirectionOut, len(p), res.n, b, false)
	return res.n, nil
}
