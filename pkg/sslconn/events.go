package sslconn

import (
	"log/slog"

	"github.com/rpcssl/rpcssl-go/pkg/log"
)

func (c *Conn) emit(cat log.Category, fill func(*log.Event)) {
	if _, noop := c.cfg.ProtocolLogger.(log.NoopLogger); noop {
		return
	}
	ev := log.Event{
		Timestamp:    c.cfg.Clock.Now(),
		ConnectionID: c.handle.String(),
		Role:         logRole(c.role),
		Category:     cat,
		LocalAddr:    addrString(c.sess.LocalAddr()),
		RemoteAddr:   addrString(c.sess.RemoteAddr()),
	}
	fill(&ev)
	c.cfg.ProtocolLogger.Log(ev)
}

func (c *Conn) emitState(from, to Phase, reason string) {
	if c.cfg.TraceLevel >= TraceState {
		c.log.Debug("phase changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
			slog.String("reason", reason))
	}
	c.emit(log.CategoryState, func(e *log.Event) {
		e.StateChange = &log.StateChangeEvent{
			OldPhase: from.String(),
			NewPhase: to.String(),
			Reason:   reason,
		}
	})
}

func (c *Conn) emitHandshake(kind log.HandshakeKind, outcome log.Outcome, b *budget, info *ConnectionInfo) {
	c.emit(log.CategoryHandshake, func(e *log.Event) {
		hs := &log.HandshakeEvent{
			Kind:     kind,
			Outcome:  outcome,
			Duration: b.elapsed(),
			Polls:    b.polls,
		}
		if info != nil {
			hs.Version = info.Version
			hs.CipherSuite = info.CipherSuite
			hs.ALPN = info.ALPN
			hs.ServerName = info.ServerName
			hs.Resumed = info.Resumed
			hs.PeerSubject = info.PeerSubject()
		}
		e.Handshake = hs
	})
}

func (c *Conn) emitIO(dir log.Direction, requested, transferred int, b *budget, peerClosed bool) {
	if c.cfg.TraceLevel >= TraceIO {
		c.log.Debug("application data",
			slog.String("direction", dir.String()),
			slog.Int("requested", requested),
			slog.Int("transferred", transferred),
			slog.Int("polls", b.polls))
	}
	c.emit(log.CategoryIO, func(e *log.Event) {
		e.IO = &log.IOEvent{
			Direction:   dir,
			Requested:   requested,
			Transferred: transferred,
			Polls:       b.polls,
			Duration:    b.elapsed(),
			PeerClosed:  peerClosed,
		}
	})
}

func (c *Conn) emitError(e *Error) {
	c.emit(log.CategoryError, func(ev *log.Event) {
		ev.Error = &log.ErrorEventData{
			Kind:    e.Kind.String(),
			Op:      e.Op,
			Code:    e.Code,
			Message: e.Error(),
		}
	})
}

func logRole(r Role) log.Role {
	if r == RoleResponder {
		return log.RoleResponder
	}
	return log.RoleInitiator
}
