//go:build unix

package engine

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpcssl/rpcssl-go/internal/pki"
	"github.com/rpcssl/rpcssl-go/pkg/poll"
	"github.com/rpcssl/rpcssl-go/pkg/socket"
)

var errStepTimeout = errors.New("step did not finish in time")

// run repeats step, waiting for readiness in between, until it stops asking
// for I/O.
func run(fd int, step func() (Status, error)) (Status, error) {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		st, err := step()
		switch st {
		case StatusWantRead:
			if _, err := poll.Wait(fd, poll.DirectionRead, 50*time.Millisecond); err != nil {
				return StatusSyscall, err
			}
		case StatusWantWrite:
			if _, err := poll.Wait(fd, poll.DirectionWrite, 50*time.Millisecond); err != nil {
				return StatusSyscall, err
			}
		default:
			return st, err
		}
	}
	return StatusFatal, errStepTimeout
}

type pair struct {
	client, server Session
}

func newPair(t *testing.T, clientCfg, serverCfg *tls.Config, clientOpts, serverOpts Options) *pair {
	t.Helper()

	a, b, err := socket.Pair()
	require.NoError(t, err)

	client, err := NewSession(a, RoleInitiator, clientCfg, clientOpts)
	require.NoError(t, err)
	server, err := NewSession(b, RoleResponder, serverCfg, serverOpts)
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return &pair{client: client, server: server}
}

// handshake runs both sides concurrently and returns their results.
func (p *pair) handshake() (clientErr, serverErr error) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, clientErr = run(p.client.FD(), p.client.Handshake)
	}()
	go func() {
		defer wg.Done()
		_, serverErr = run(p.server.FD(), p.server.Handshake)
	}()
	wg.Wait()
	return clientErr, serverErr
}

func write(s Session, data []byte) (int, error) {
	var n int
	_, err := run(s.FD(), func() (Status, error) {
		var (
			st  Status
			err error
		)
		n, st, err = s.Write(data)
		return st, err
	})
	return n, err
}

func read(s Session, p []byte) (int, Status, error) {
	var n int
	st, err := run(s.FD(), func() (Status, error) {
		var (
			st  Status
			err error
		)
		n, st, err = s.Read(p)
		return st, err
	})
	return n, st, err
}

func testBundle(t *testing.T) *pki.Bundle {
	t.Helper()
	b, err := pki.Generate(pki.DefaultOptions())
	require.NoError(t, err)
	return b
}

func TestHandshakeAndEcho(t *testing.T) {
	tests := []struct {
		name    string
		version uint16
	}{
		{"TLS12", tls.VersionTLS12},
		{"TLS13", tls.VersionTLS13},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBundle(t)
			clientCfg := b.ClientConfig(true)
			clientCfg.MaxVersion = tt.version
			serverCfg := b.ServerConfig(true)

			p := newPair(t, clientCfg, serverCfg, Options{}, Options{})
			cerr, serr := p.handshake()
			require.NoError(t, cerr)
			require.NoError(t, serr)

			cs := p.client.ConnectionState()
			assert.True(t, cs.HandshakeComplete)
			assert.Equal(t, tt.version, cs.Version)
			assert.Len(t, p.server.ConnectionState().PeerCertificates, 2)

			n, err := write(p.client, []byte("ping"))
			require.NoError(t, err)
			assert.Equal(t, 4, n)

			buf := make([]byte, 64)
			n, st, err := read(p.server, buf)
			require.NoError(t, err)
			assert.Equal(t, StatusOK, st)
			assert.Equal(t, "ping", string(buf[:n]))

			_, err = write(p.server, []byte("pong"))
			require.NoError(t, err)
			n, _, err = read(p.client, buf)
			require.NoError(t, err)
			assert.Equal(t, "pong", string(buf[:n]))

			rec := p.client.Records()
			assert.NotZero(t, rec.Sent.Records)
			assert.NotZero(t, rec.Received.Handshake)
			assert.NotZero(t, rec.Sent.ApplicationData)
			assert.Equal(t, CodeNone, p.client.LastError())
		})
	}
}

func TestHandshakeIsSticky(t *testing.T) {
	b := testBundle(t)
	p := newPair(t, b.ClientConfig(false), b.ServerConfig(false), Options{}, Options{})

	cerr, serr := p.handshake()
	require.NoError(t, cerr)
	require.NoError(t, serr)

	st, err := p.client.Handshake()
	assert.Equal(t, StatusOK, st)
	assert.NoError(t, err)
}

func TestPendingKeepsRemainder(t *testing.T) {
	b := testBundle(t)
	p := newPair(t, b.ClientConfig(false), b.ServerConfig(false), Options{}, Options{})
	cerr, serr := p.handshake()
	require.NoError(t, cerr)
	require.NoError(t, serr)

	_, err := write(p.server, []byte("0123456789"))
	require.NoError(t, err)

	small := make([]byte, 4)
	n, _, err := read(p.client, small)
	require.NoError(t, err)
	assert.Equal(t, "0123", string(small[:n]))
	assert.Equal(t, 6, p.client.Pending())

	rest := make([]byte, 16)
	n, st, err := p.client.Read(rest)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, st)
	assert.Equal(t, "456789", string(rest[:n]))
	assert.Zero(t, p.client.Pending())
}

func TestLargeWrite(t *testing.T) {
	b := testBundle(t)
	p := newPair(t, b.ClientConfig(false), b.ServerConfig(false), Options{}, Options{})
	cerr, serr := p.handshake()
	require.NoError(t, cerr)
	require.NoError(t, serr)

	payload := make([]byte, 1<<20)
	for i := range payload {
		payload[i] = byte(i)
	}

	// The socket buffer fills long before a megabyte is written, so the
	// writer has to see WANT_WRITE while the reader drains.
	done := make(chan error, 1)
	go func() {
		n, err := write(p.client, payload)
		if err == nil && n != len(payload) {
			err = io.ErrShortWrite
		}
		done <- err
	}()

	got := make([]byte, 0, len(payload))
	buf := make([]byte, 32*1024)
	for len(got) < len(payload) {
		n, _, err := read(p.server, buf)
		require.NoError(t, err)
		got = append(got, buf[:n]...)
	}
	require.NoError(t, <-done)
	assert.Equal(t, payload, got)
}

func TestShutdownZeroReturn(t *testing.T) {
	b := testBundle(t)
	p := newPair(t, b.ClientConfig(false), b.ServerConfig(false), Options{}, Options{})
	cerr, serr := p.handshake()
	require.NoError(t, cerr)
	require.NoError(t, serr)

	_, err := run(p.server.FD(), p.server.Shutdown)
	require.NoError(t, err)

	// A second shutdown only flushes.
	st, err := p.server.Shutdown()
	assert.Equal(t, StatusOK, st)
	assert.NoError(t, err)

	buf := make([]byte, 8)
	n, st, err := read(p.client, buf)
	assert.Zero(t, n)
	assert.Equal(t, StatusZeroReturn, st)
	assert.ErrorIs(t, err, io.EOF)

	// The result is sticky.
	_, st, _ = p.client.Read(buf)
	assert.Equal(t, StatusZeroReturn, st)
}

func TestVerifyReceivesHandle(t *testing.T) {
	b := testBundle(t)

	var (
		mu          sync.Mutex
		gotHandle   Handle
		gotChain    []*x509.Certificate
		preverified bool
	)
	verify := func(h Handle, chain []*x509.Certificate, pre bool) error {
		mu.Lock()
		defer mu.Unlock()
		gotHandle, gotChain, preverified = h, chain, pre
		return nil
	}

	handle := NewHandle()
	p := newPair(t, b.ClientConfig(false), b.ServerConfig(false),
		Options{Verify: verify, Handle: handle}, Options{})
	cerr, serr := p.handshake()
	require.NoError(t, cerr)
	require.NoError(t, serr)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, handle, p.client.Handle())
	assert.Equal(t, handle, gotHandle)
	require.Len(t, gotChain, 2)
	assert.Equal(t, "localhost", gotChain[0].Subject.CommonName)
	assert.True(t, preverified)
}

func TestVerifyInsecureIsNotPreverified(t *testing.T) {
	b := testBundle(t)
	clientCfg := b.ClientConfig(false)
	clientCfg.RootCAs = nil
	clientCfg.InsecureSkipVerify = true

	preverified := true
	verify := func(_ Handle, _ []*x509.Certificate, pre bool) error {
		preverified = pre
		return nil
	}

	p := newPair(t, clientCfg, b.ServerConfig(false), Options{Verify: verify}, Options{})
	cerr, serr := p.handshake()
	require.NoError(t, cerr)
	require.NoError(t, serr)
	assert.False(t, preverified)
}

func TestVerifyRejects(t *testing.T) {
	b := testBundle(t)
	reject := func(Handle, []*x509.Certificate, bool) error {
		return errors.New("not on the allow list")
	}

	p := newPair(t, b.ClientConfig(false), b.ServerConfig(false), Options{Verify: reject}, Options{})
	cerr, serr := p.handshake()

	require.Error(t, cerr)
	assert.ErrorIs(t, cerr, ErrRejected)
	assert.Contains(t, cerr.Error(), "not on the allow list")
	assert.Equal(t, CodeCertificateRejected, p.client.LastError())

	require.Error(t, serr)
	alert, ok := Alert(p.server.LastError())
	assert.True(t, ok, "server code %s", CodeText(p.server.LastError()))
	assert.Equal(t, uint8(42), alert) // bad_certificate
}

func TestVerifyRunsExistingHookFirst(t *testing.T) {
	b := testBundle(t)
	clientCfg := b.ClientConfig(false)
	clientCfg.VerifyPeerCertificate = func([][]byte, [][]*x509.Certificate) error {
		return errors.New("pin mismatch")
	}

	called := false
	verify := func(Handle, []*x509.Certificate, bool) error {
		called = true
		return nil
	}

	p := newPair(t, clientCfg, b.ServerConfig(false), Options{Verify: verify}, Options{})
	cerr, _ := p.handshake()
	require.Error(t, cerr)
	assert.Contains(t, cerr.Error(), "pin mismatch")
	assert.False(t, called)
	assert.EqualError(t, clientCfg.VerifyPeerCertificate(nil, nil), "pin mismatch", "the caller's config must stay untouched")
}

func TestUntrustedServer(t *testing.T) {
	b := testBundle(t)
	other := testBundle(t)

	p := newPair(t, other.ClientConfig(false), b.ServerConfig(false), Options{}, Options{})
	cerr, _ := p.handshake()
	require.Error(t, cerr)
	assert.Equal(t, CodeCertificateInvalid, p.client.LastError())
}

func TestRenegotiateUnsupported(t *testing.T) {
	b := testBundle(t)
	p := newPair(t, b.ClientConfig(false), b.ServerConfig(false), Options{}, Options{})

	st, err := p.client.Renegotiate()
	assert.Equal(t, StatusFatal, st)
	assert.ErrorIs(t, err, ErrRenegotiationUnsupported)
	assert.Equal(t, CodeRenegotiationUnsupported, p.client.LastError())
}

func TestIOBeforeHandshake(t *testing.T) {
	b := testBundle(t)
	p := newPair(t, b.ClientConfig(false), b.ServerConfig(false), Options{}, Options{})

	_, st, err := p.client.Read(make([]byte, 4))
	assert.Equal(t, StatusFatal, st)
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Equal(t, CodeInvalidState, p.client.LastError())

	_, st, _ = p.client.Write([]byte("x"))
	assert.Equal(t, StatusFatal, st)

	st, _ = p.client.Shutdown()
	assert.Equal(t, StatusFatal, st)
	assert.Zero(t, p.client.Records().Sent.Records, "nothing may reach the socket")
}

func TestHandshakeWantsReadWithoutPeer(t *testing.T) {
	b := testBundle(t)
	p := newPair(t, b.ClientConfig(false), b.ServerConfig(false), Options{}, Options{})

	st, err := p.client.Handshake()
	require.NoError(t, err)
	assert.Equal(t, StatusWantRead, st)
	assert.Equal(t, uint64(1), p.client.Records().Sent.Handshake, "ClientHello")

	require.NoError(t, p.client.Close())
	st, _ = p.client.Handshake()
	assert.Equal(t, StatusFatal, st)
	assert.Equal(t, CodeClosed, p.client.LastError())

	assert.NoError(t, p.client.Close(), "close is idempotent")
}

func TestPeerClosedDuringHandshake(t *testing.T) {
	b := testBundle(t)
	p := newPair(t, b.ClientConfig(false), b.ServerConfig(false), Options{}, Options{})

	st, _ := p.client.Handshake()
	require.Equal(t, StatusWantRead, st)
	require.NoError(t, p.server.Close())

	// Depending on whether the ClientHello was still unread, the peer
	// sees a reset or a clean EOF.
	st, err := run(p.client.FD(), p.client.Handshake)
	assert.Contains(t, []Status{StatusFatal, StatusSyscall}, st)
	assert.Error(t, err)
	assert.NotEqual(t, CodeNone, p.client.LastError())
}

func TestNewSessionValidation(t *testing.T) {
	a, b, err := socket.Pair()
	require.NoError(t, err)
	defer a.Close()
	defer b.Close()

	_, err = NewSession(nil, RoleInitiator, &tls.Config{}, Options{})
	assert.Error(t, err)
	_, err = NewSession(a, RoleInitiator, nil, Options{})
	assert.Error(t, err)
	_, err = NewSession(a, Role(9), &tls.Config{}, Options{})
	assert.Error(t, err)

	s, err := NewSession(a, RoleResponder, &tls.Config{}, Options{})
	require.NoError(t, err)
	assert.False(t, s.Handle().IsZero())
	assert.Equal(t, RoleResponder, s.Role())
	assert.Equal(t, a.FD(), s.FD())
	assert.False(t, s.ConnectionState().HandshakeComplete)
}

func TestSessionCacheResumes(t *testing.T) {
	b := testBundle(t)
	cache := NewSessionCache(4)

	// Sessions clone the config, so ticket keys must be fixed up front.
	serverCfg := b.ServerConfig(false)
	serverCfg.SetSessionTicketKeys([][32]byte{{1, 2, 3}})

	for i, wantResumed := range []bool{false, true} {
		clientCfg := b.ClientConfig(false)
		clientCfg.ClientSessionCache = cache
		p := newPair(t, clientCfg, serverCfg, Options{}, Options{})
		cerr, serr := p.handshake()
		require.NoError(t, cerr)
		require.NoError(t, serr)

		// TLS 1.3 tickets arrive after the handshake; a read round trip
		// lets the client store them.
		_, err := write(p.server, []byte("x"))
		require.NoError(t, err)
		_, _, err = read(p.client, make([]byte, 1))
		require.NoError(t, err)

		assert.Equal(t, wantResumed, p.client.ConnectionState().DidResume, "connection %d", i)
	}
}
