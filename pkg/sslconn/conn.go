package sslconn

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rpcssl/rpcssl-go/pkg/claim"
	"github.com/rpcssl/rpcssl-go/pkg/engine"
	"github.com/rpcssl/rpcssl-go/pkg/registry"
	"github.com/rpcssl/rpcssl-go/pkg/socket"
)

// Role is the handshake role of a connection.
type Role = engine.Role

const (
	RoleInitiator = engine.RoleInitiator
	RoleResponder = engine.RoleResponder
)

// Operation names used in errors and events.
const (
	opConnect     = "connect"
	opAccept      = "accept"
	opHandshake   = "handshake"
	opRenegotiate = "renegotiate"
	opShutdown    = "shutdown"
	opRead        = "read"
	opWrite       = "write"
	opVerify      = "verify"
)

var errNoTLSConfig = errors.New("sslconn: TLS config is required")

// sessions maps engine handles to live connections. It holds weak
// references only.
var sessions = registry.New[engine.Handle, Conn]()

// Conn is a TLS connection over a non-blocking socket.
//
// All methods are safe for concurrent use.
type Conn struct {
	sess   engine.Session
	handle engine.Handle
	role   Role
	cfg    Config
	log    *slog.Logger

	phase   phaseValue
	lastErr atomic.Int64

	// hs serializes handshake, renegotiation and the shutdown exchange.
	hs claim.Flag

	// ioMu is held for reading by application I/O and for writing by the
	// handshake owner.
	ioMu    sync.RWMutex
	readMu  sync.Mutex
	writeMu sync.Mutex

	hsDuration atomic.Int64
	hsPolls    atomic.Int64

	closeOnce sync.Once
	closeErr  error
	cleanup   runtime.Cleanup
}

// Client wraps sock as the initiating side.
func Client(sock socket.Socket, cfg Config) (*Conn, error) {
	return dial(sock, RoleInitiator, cfg)
}

// Server wraps sock as the responding side.
func Server(sock socket.Socket, cfg Config) (*Conn, error) {
	return dial(sock, RoleResponder, cfg)
}

func dial(sock socket.Socket, role Role, cfg Config) (*Conn, error) {
	if cfg.TLS == nil {
		return nil, errNoTLSConfig
	}
	sess, err := engine.NewSession(sock, role, cfg.TLS, engine.Options{
		Verify: verifyChain,
		Handle: engine.NewHandle(),
	})
	if err != nil {
		return nil, fmt.Errorf("sslconn: create session: %w", err)
	}
	c, err := New(sess, role, cfg)
	if err != nil {
		_ = sess.Close()
		return nil, err
	}
	return c, nil
}

// New wraps an existing engine session. The Conn takes ownership of sess and
// releases it on Close. sess must report role and a handle not used by any
// other live connection.
func New(sess engine.Session, role Role, cfg Config) (*Conn, error) {
	if sess == nil {
		return nil, errors.New("sslconn: nil session")
	}
	if sess.Role() != role {
		return nil, &Error{
			Kind: KindWrongRole,
			Op:   "new",
			Err:  fmt.Errorf("session is %s, want %s", sess.Role(), role),
		}
	}

	cfg = cfg.withDefaults()
	c := &Conn{
		sess:   sess,
		handle: sess.Handle(),
		role:   role,
		cfg:    cfg,
	}
	c.log = cfg.Logger.With(
		slog.String("conn_id", c.handle.String()),
		slog.String("role", role.String()),
	)
	c.phase.v.Store(int32(PhaseHandshake))

	if err := sessions.Register(c.handle, c); err != nil {
		return nil, fmt.Errorf("sslconn: register %s: %w", c.handle, err)
	}
	c.cleanup = runtime.AddCleanup(c, releaseSession, cleanupArg{handle: c.handle, sess: sess})

	if cfg.TraceLevel >= TraceState {
		c.log.Debug("connection created",
			slog.Any("remote", sess.RemoteAddr()))
	}
	return c, nil
}

type cleanupArg struct {
	handle engine.Handle
	sess   engine.Session
}

// releaseSession runs when a Conn is collected without Close.
func releaseSession(arg cleanupArg) {
	sessions.Unregister(arg.handle)
	_ = arg.sess.Close()
}

// Close releases the session and its socket. The connection is removed from
// the registry first, which waits for a verification callback in progress.
// Close does not send close_notify; call Shutdown first for that.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.cleanup.Stop()
		sessions.Unregister(c.handle)

		old := c.phase.shutdown()
		c.closeErr = c.sess.Close()

		if old != PhaseShutdown {
			c.emitState(old, PhaseShutdown, "closed")
		}
		if c.cfg.TraceLevel >= TraceState {
			c.log.Debug("connection closed", slog.String("phase", old.String()))
		}
	})
	return c.closeErr
}

// Handle returns the engine session handle.
func (c *Conn) Handle() engine.Handle { return c.handle }

// Role returns the handshake role.
func (c *Conn) Role() Role { return c.role }

// Phase returns the current phase.
func (c *Conn) Phase() Phase { return c.phase.load() }

// LastError returns the native code of the most recent failure, or 0.
func (c *Conn) LastError() int { return int(c.lastErr.Load()) }

// Pending returns the number of decrypted bytes that can be read without
// touching the socket.
func (c *Conn) Pending() int { return c.sess.Pending() }

func (c *Conn) LocalAddr() net.Addr  { return c.sess.LocalAddr() }
func (c *Conn) RemoteAddr() net.Addr { return c.sess.RemoteAddr() }

// fail records err and returns it as a typed error.
func (c *Conn) fail(kind Kind, op string, code int, err error) error {
	if code != engine.CodeNone {
		c.lastErr.Store(int64(code))
	}
	e := &Error{Kind: kind, Op: op, Code: code, Err: err}
	c.emitError(e)
	if c.cfg.TraceLevel >= TraceState && !e.Timeout() {
		c.log.Warn("operation failed",
			slog.String("op", op),
			slog.String("kind", kind.String()),
			slog.Int("code", code),
			slog.Any("error", err))
	}
	return e
}
