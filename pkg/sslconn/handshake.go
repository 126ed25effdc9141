package sslconn

import (
	"errors"
	"fmt"
	"time"

	"github.com/rpcssl/rpcssl-go/pkg/claim"
	"github.com/rpcssl/rpcssl-go/pkg/engine"
	"github.com/rpcssl/rpcssl-go/pkg/log"
)

var (
	errShutdownDuringHandshake = errors.New("connection shut down during handshake")
	errCloseNotifyTimeout      = errors.New("close_notify not sent before the timeout")
)

// Connect runs the handshake of an initiating connection.
func (c *Conn) Connect(timeout time.Duration) error {
	if c.role != RoleInitiator {
		return &Error{Kind: KindWrongRole, Op: opConnect}
	}
	return c.handshake(opConnect, timeout)
}

// Accept runs the handshake of a responding connection.
func (c *Conn) Accept(timeout time.Duration) error {
	if c.role != RoleResponder {
		return &Error{Kind: KindWrongRole, Op: opAccept}
	}
	return c.handshake(opAccept, timeout)
}

// Handshake runs the handshake for either role. It may be called from
// several goroutines; one of them negotiates and the others wait for it and
// return its success. A timeout leaves the connection in PhaseHandshake and
// the call may be repeated.
func (c *Conn) Handshake(timeout time.Duration) error {
	return c.handshake(opHandshake, timeout)
}

func (c *Conn) handshake(op string, timeout time.Duration) error {
	b := newBudget(c.cfg.Clock, timeout)
	for {
		s := claim.Claim(&c.hs)
		if s.Owned() {
			return c.ownHandshake(s, op, b)
		}

		state, err := c.awaitClaim(b)
		if err != nil {
			c.emitHandshake(log.HandshakeInitial, log.OutcomeTimedOut, b, nil)
			return c.fail(KindHandshakeTimeout, op, engine.CodeNone, err)
		}
		switch c.phase.load() {
		case PhaseConnected:
			if state == claim.Completed {
				c.emitHandshake(log.HandshakeInitial, log.OutcomeJoined, b, nil)
			}
			return nil
		case PhaseShutdown:
			return &Error{Kind: KindInvalidPhase, Op: op, Err: errShutdownDuringHandshake}
		}
		// The owner failed or timed out; try again ourselves.
	}
}

// awaitClaim waits until the flag is released or the budget runs out.
func (c *Conn) awaitClaim(b *budget) (claim.State, error) {
	ctx, cancel := b.context()
	defer cancel()
	return c.hs.Wait(ctx)
}

func (c *Conn) ownHandshake(s *claim.Sentinel, op string, b *budget) error {
	defer s.Release()

	c.ioMu.Lock()
	defer c.ioMu.Unlock()

	switch ph := c.phase.load(); ph {
	case PhaseConnected:
		s.Complete()
		return nil
	case PhaseShutdown:
		return &Error{Kind: KindInvalidPhase, Op: op, Err: fmt.Errorf("phase %s", ph)}
	}
	return c.negotiate(s, op, log.HandshakeInitial, b)
}

// negotiate drives the engine handshake while the phase stays
// PhaseHandshake. The caller owns the claim and holds ioMu for writing.
func (c *Conn) negotiate(s *claim.Sentinel, op string, kind log.HandshakeKind, b *budget) error {
	res := c.pump(b, c.cfg.HandshakeReadTimeout,
		func() bool { return c.phase.load() == PhaseHandshake },
		func() (int, engine.Status, error) {
			st, err := c.sess.Handshake()
			return 0, st, err
		})

	switch {
	case res.aborted:
		return &Error{Kind: KindInvalidPhase, Op: op, Err: errShutdownDuringHandshake}
	case res.timedOut:
		c.emitHandshake(kind, log.OutcomeTimedOut, b, nil)
		return c.fail(KindHandshakeTimeout, op, engine.CodeNone, nil)
	case res.err != nil || res.status != engine.StatusOK:
		c.emitHandshake(kind, log.OutcomeFailed, b, nil)
		return c.fail(KindHandshakeFailure, op, res.code, res.err)
	}

	if !c.phase.cas(PhaseHandshake, PhaseConnected) {
		return &Error{Kind: KindInvalidPhase, Op: op, Err: errShutdownDuringHandshake}
	}
	s.Complete()

	c.hsDuration.Store(int64(b.elapsed()))
	c.hsPolls.Store(int64(b.polls))

	info := c.Info()
	c.emitState(PhaseHandshake, PhaseConnected, op)
	c.emitHandshake(kind, log.OutcomeCompleted, b, &info)
	c.traceHandshake(&info)
	return nil
}

// Renegotiate runs a new handshake on a connected session. Application I/O
// waits until it finishes. It is bounded by Config.HandshakeTimeout.
//
// The connection is put back into PhaseHandshake first. If the engine cannot
// start a renegotiation at all, nothing was sent and the connection returns
// to PhaseConnected.
func (c *Conn) Renegotiate() error {
	b := newBudget(c.cfg.Clock, c.cfg.HandshakeTimeout)

	s, err := c.claimOwned(b)
	if err != nil {
		return c.fail(KindHandshakeTimeout, opRenegotiate, engine.CodeNone, err)
	}
	defer s.Release()

	c.ioMu.Lock()
	defer c.ioMu.Unlock()

	if !c.phase.cas(PhaseConnected, PhaseHandshake) {
		return &Error{
			Kind: KindInvalidPhase,
			Op:   opRenegotiate,
			Err:  fmt.Errorf("phase %s", c.phase.load()),
		}
	}
	c.emitState(PhaseConnected, PhaseHandshake, opRenegotiate)

	st, err := c.sess.Renegotiate()
	if !st.Retryable() && st != engine.StatusOK {
		code := c.sess.LastError()
		if code == engine.CodeRenegotiationUnsupported && c.phase.cas(PhaseHandshake, PhaseConnected) {
			s.Complete()
			c.emitState(PhaseHandshake, PhaseConnected, "renegotiation refused")
		}
		c.emitHandshake(log.HandshakeRenegotiate, log.OutcomeFailed, b, nil)
		return c.fail(KindHandshakeFailure, opRenegotiate, code, err)
	}
	return c.negotiate(s, opRenegotiate, log.HandshakeRenegotiate, b)
}

// claimOwned claims the flag, waiting for other owners within the budget.
func (c *Conn) claimOwned(b *budget) (*claim.Sentinel, error) {
	for {
		s := claim.Claim(&c.hs)
		if s.Owned() {
			return s, nil
		}
		if _, err := c.awaitClaim(b); err != nil {
			return nil, err
		}
	}
}

// Shutdown ends the connection. Before the handshake completed it only
// changes the phase. On a connected session it sends close_notify, bounded
// by timeout; the phase becomes PhaseShutdown whatever the outcome. Calling
// Shutdown again returns nil.
//
// Reads remain possible afterwards to drain data the peer sent before its
// own close_notify. Close must still be called.
func (c *Conn) Shutdown(timeout time.Duration) error {
	b := newBudget(c.cfg.Clock, timeout)
	for {
		switch c.phase.load() {
		case PhaseShutdown:
			return nil
		case PhaseHandshake:
			if c.phase.cas(PhaseHandshake, PhaseShutdown) {
				c.emitState(PhaseHandshake, PhaseShutdown, opShutdown)
				return nil
			}
			continue
		}

		s := claim.Claim(&c.hs)
		if !s.Owned() {
			if _, err := c.awaitClaim(b); err != nil {
				if old := c.phase.shutdown(); old != PhaseShutdown {
					c.emitState(old, PhaseShutdown, opShutdown)
				}
				return c.fail(KindShutdownFailure, opShutdown, engine.CodeNone, err)
			}
			continue
		}

		done, err := c.closeNotify(s, b)
		if done {
			return err
		}
	}
}

// closeNotify runs the close_notify exchange. It reports false when the
// phase changed before the exchange started.
func (c *Conn) closeNotify(s *claim.Sentinel, b *budget) (bool, error) {
	defer s.Release()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if !c.phase.cas(PhaseConnected, PhaseShutdown) {
		return false, nil
	}
	c.emitState(PhaseConnected, PhaseShutdown, opShutdown)

	res := c.pump(b, 0, nil, func() (int, engine.Status, error) {
		st, err := c.sess.Shutdown()
		return 0, st, err
	})
	switch {
	case res.timedOut:
		c.emitHandshake(log.HandshakeCloseNotify, log.OutcomeTimedOut, b, nil)
		return true, c.fail(KindShutdownFailure, opShutdown, engine.CodeNone, errCloseNotifyTimeout)
	case !res.done():
		c.emitHandshake(log.HandshakeCloseNotify, log.OutcomeFailed, b, nil)
		return true, c.fail(KindShutdownFailure, opShutdown, res.code, res.err)
	}

	s.Complete()
	c.emitHandshake(log.HandshakeCloseNotify, log.OutcomeCompleted, b, nil)
	return true, nil
}
