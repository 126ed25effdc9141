package engine

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"go.uber.org/multierr"

	"github.com/rpcssl/rpcssl-go/pkg/socket"
)

const (
	// socketChunk is the most ciphertext moved per socket read.
	socketChunk = 32 * 1024

	// maxPlaintext is the largest TLS record payload.
	maxPlaintext = 16 * 1024
)

// op is a blocking crypto/tls call running on a worker goroutine. Its
// fields are written under bio.mu.
type op struct {
	done bool
	n    int
	err  error
}

type tlsSession struct {
	handle Handle
	role   Role
	sock   socket.Socket
	tc     *tls.Conn
	bio    *bio

	outMu sync.Mutex // socket writes
	inMu  sync.Mutex // socket reads
	rbuf  []byte

	hsMu  sync.Mutex
	hs    *op
	state atomic.Pointer[tls.ConnectionState]

	rdMu    sync.Mutex
	rd      *op
	rdErr   error
	scratch []byte
	plain   bytes.Buffer
	pending atomic.Int64

	wrMu         sync.Mutex
	wrActive     bool
	wrN          int
	wrErr        error
	shutdownSent bool

	lastErr atomic.Int64

	sent, received recordCounter

	closeOnce sync.Once
	closeErr  error
}

// NewSession creates a session over sock. When opts.Verify is set, cfg is
// cloned and the clone's VerifyPeerCertificate runs any hook already present
// on cfg first and then calls opts.Verify. Automatic session ticket keys do
// not survive cloning; responders that want resumption set them with
// tls.Config.SetSessionTicketKeys.
func NewSession(sock socket.Socket, role Role, cfg *tls.Config, opts Options) (Session, error) {
	if sock == nil {
		return nil, errors.New("engine: nil socket")
	}
	if cfg == nil {
		return nil, errors.New("engine: nil tls config")
	}

	h := opts.Handle
	if h.IsZero() {
		h = NewHandle()
	}

	if opts.Verify != nil {
		cfg = cfg.Clone()
		cfg.VerifyPeerCertificate = verifyHook(h, cfg.VerifyPeerCertificate, opts.Verify)
	}

	s := &tlsSession{
		handle:  h,
		role:    role,
		sock:    sock,
		bio:     newBIO(sock.LocalAddr(), sock.RemoteAddr()),
		rbuf:    make([]byte, socketChunk),
		scratch: make([]byte, maxPlaintext),
	}
	switch role {
	case RoleInitiator:
		s.tc = tls.Client(s.bio, cfg)
	case RoleResponder:
		s.tc = tls.Server(s.bio, cfg)
	default:
		return nil, fmt.Errorf("engine: unknown role %d", role)
	}
	return s, nil
}

func verifyHook(h Handle, prev func([][]byte, [][]*x509.Certificate) error, verify VerifyFunc) func([][]byte, [][]*x509.Certificate) error {
	return func(raw [][]byte, verified [][]*x509.Certificate) error {
		if prev != nil {
			if err := prev(raw, verified); err != nil {
				return err
			}
		}

		chain := make([]*x509.Certificate, 0, len(raw))
		for _, der := range raw {
			cert, err := x509.ParseCertificate(der)
			if err != nil {
				return fmt.Errorf("engine: parse peer certificate: %w", err)
			}
			chain = append(chain, cert)
		}

		if err := verify(h, chain, len(verified) > 0); err != nil {
			return fmt.Errorf("%w: %w", ErrRejected, err)
		}
		return nil
	}
}

func (s *tlsSession) Handle() Handle { return s.handle }
func (s *tlsSession) Role() Role     { return s.role }
func (s *tlsSession) FD() int        { return s.sock.FD() }

func (s *tlsSession) LocalAddr() net.Addr  { return s.sock.LocalAddr() }
func (s *tlsSession) RemoteAddr() net.Addr { return s.sock.RemoteAddr() }

func (s *tlsSession) Handshake() (Status, error) {
	s.hsMu.Lock()
	defer s.hsMu.Unlock()

	if s.hs == nil {
		o := &op{}
		s.hs = o
		go func() {
			err := s.tc.Handshake()
			if err == nil {
				// ConnectionState takes the handshake lock; read it here
				// once so later callers never wait on a running handshake.
				cs := s.tc.ConnectionState()
				s.state.Store(&cs)
			}
			s.finish(o, 0, err)
		}()
	}

	if st, err := s.drive(s.hs); st != StatusOK {
		return st, err
	}
	if s.hs.err != nil {
		return s.fail(s.hs.err)
	}
	return StatusOK, nil
}

// Renegotiate always fails: crypto/tls cannot initiate a renegotiation.
func (s *tlsSession) Renegotiate() (Status, error) {
	return s.fail(ErrRenegotiationUnsupported)
}

func (s *tlsSession) Read(p []byte) (int, Status, error) {
	s.rdMu.Lock()
	defer s.rdMu.Unlock()

	if !s.connected() {
		st, err := s.fail(ErrNotConnected)
		return 0, st, err
	}

	for {
		if s.plain.Len() > 0 {
			return s.drain(p), StatusOK, nil
		}
		if s.rdErr != nil {
			return s.readFailure()
		}
		if len(p) == 0 {
			return 0, StatusOK, nil
		}

		if s.rd == nil {
			o := &op{}
			s.rd = o
			go func() {
				n, err := s.tc.Read(s.scratch)
				s.finish(o, n, err)
			}()
		}
		if st, err := s.drive(s.rd); st != StatusOK {
			return 0, st, err
		}

		o := s.rd
		s.rd = nil
		s.plain.Write(s.scratch[:o.n])
		s.pending.Store(int64(s.plain.Len()))
		if o.err != nil {
			s.rdErr = o.err
		}
	}
}

func (s *tlsSession) drain(p []byte) int {
	n, _ := s.plain.Read(p)
	s.pending.Store(int64(s.plain.Len()))
	return n
}

// readFailure reports the sticky read error. io.EOF means the peer sent
// close_notify or closed the stream at a record boundary.
func (s *tlsSession) readFailure() (int, Status, error) {
	if errors.Is(s.rdErr, io.EOF) {
		return 0, StatusZeroReturn, io.EOF
	}
	st, err := s.fail(s.rdErr)
	return 0, st, err
}

func (s *tlsSession) Write(p []byte) (int, Status, error) {
	s.wrMu.Lock()
	defer s.wrMu.Unlock()

	if !s.connected() {
		st, err := s.fail(ErrNotConnected)
		return 0, st, err
	}
	if s.wrErr != nil {
		st, err := s.fail(s.wrErr)
		return 0, st, err
	}

	if !s.wrActive {
		if len(p) == 0 {
			return 0, StatusOK, nil
		}
		// The bio never blocks, so this only encrypts into memory.
		n, err := s.tc.Write(p)
		if err != nil {
			s.wrErr = err
			st, err := s.fail(err)
			return 0, st, err
		}
		s.wrActive = true
		s.wrN = n
	}

	if st, err := s.flush(); st != StatusOK {
		return 0, st, err
	}
	n := s.wrN
	s.wrActive = false
	s.wrN = 0
	return n, StatusOK, nil
}

func (s *tlsSession) Shutdown() (Status, error) {
	s.wrMu.Lock()
	defer s.wrMu.Unlock()

	if !s.connected() {
		return s.fail(ErrNotConnected)
	}
	if !s.shutdownSent {
		s.shutdownSent = true
		if err := s.tc.CloseWrite(); err != nil {
			return s.fail(err)
		}
	}
	return s.flush()
}

func (s *tlsSession) Pending() int {
	return int(s.pending.Load())
}

func (s *tlsSession) LastError() int {
	return int(s.lastErr.Load())
}

func (s *tlsSession) ConnectionState() tls.ConnectionState {
	if cs := s.state.Load(); cs != nil {
		return *cs
	}
	return tls.ConnectionState{}
}

func (s *tlsSession) Records() RecordStats {
	return RecordStats{
		Sent:     s.sent.snapshot(),
		Received: s.received.snapshot(),
	}
}

func (s *tlsSession) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = multierr.Combine(s.bio.Close(), s.sock.Close())
	})
	return s.closeErr
}

func (s *tlsSession) connected() bool {
	return s.state.Load() != nil
}

func (s *tlsSession) fail(err error) (Status, error) {
	st, code := classify(err)
	s.lastErr.Store(int64(code))
	return st, err
}

func (s *tlsSession) finish(o *op, n int, err error) {
	s.bio.mu.Lock()
	defer s.bio.mu.Unlock()
	o.done = true
	o.n = n
	o.err = err
	s.bio.cond.Broadcast()
}

// drive moves ciphertext until o finishes or the socket would block.
func (s *tlsSession) drive(o *op) (Status, error) {
	b := s.bio
	for {
		if st, err := s.flush(); st != StatusOK {
			return st, err
		}

		b.mu.Lock()
		for !o.done && !b.closed && b.out.Len() == 0 && !b.starved() {
			b.cond.Wait()
		}
		var (
			done     = o.done
			hasOut   = b.out.Len() > 0
			closed   = b.closed
			starving = b.starved()
		)
		b.mu.Unlock()

		switch {
		case hasOut:
			continue
		case done:
			return StatusOK, nil
		case closed:
			return s.fail(net.ErrClosed)
		case starving:
			if st, err := s.fill(); st != StatusOK {
				return st, err
			}
		}
	}
}

// starved reports whether a crypto/tls reader waits for socket input.
// Callers hold b.mu.
func (b *bio) starved() bool {
	return b.readers > 0 && b.in.Len() == 0 && b.readErr == nil
}

// flush writes buffered ciphertext to the socket.
func (s *tlsSession) flush() (Status, error) {
	s.outMu.Lock()
	defer s.outMu.Unlock()

	b := s.bio
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.out.Len() > 0 {
		n, err := s.sock.Write(b.out.Bytes())
		if n > 0 {
			s.sent.observe(b.out.Next(n))
		}
		if err != nil {
			if errors.Is(err, socket.ErrWouldBlock) {
				return StatusWantWrite, nil
			}
			return s.fail(err)
		}
	}
	return StatusOK, nil
}

// fill reads one chunk of ciphertext from the socket.
func (s *tlsSession) fill() (Status, error) {
	s.inMu.Lock()
	defer s.inMu.Unlock()

	n, err := s.sock.Read(s.rbuf)
	if n > 0 {
		s.received.observe(s.rbuf[:n])
		s.bio.feed(s.rbuf[:n])
	}

	switch {
	case err == nil:
		return StatusOK, nil
	case errors.Is(err, socket.ErrWouldBlock):
		return StatusWantRead, nil
	case errors.Is(err, io.EOF):
		// The worker sees EOF and finishes with it.
		s.bio.fail(io.EOF)
		return StatusOK, nil
	default:
		s.bio.fail(err)
		return s.fail(err)
	}
}
