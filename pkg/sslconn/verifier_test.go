package sslconn

import (
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpcssl/rpcssl-go/pkg/engine"
	"github.com/rpcssl/rpcssl-go/pkg/log"
)

func testChain(names ...string) []*x509.Certificate {
	chain := make([]*x509.Certificate, len(names))
	for i, n := range names {
		chain[i] = &x509.Certificate{Subject: pkix.Name{CommonName: n}}
	}
	return chain
}

func newTestConn(t *testing.T, cfg Config) (*Conn, *fakeSession) {
	t.Helper()

	sess := newFakeSession(RoleInitiator)
	c, err := New(sess, RoleInitiator, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, sess
}

func TestVerifyChainVisitsRootToLeaf(t *testing.T) {
	var depths []int
	cfg := DefaultConfig()
	cfg.Verifier = VerifierFunc(func(req *VerifyRequest) bool {
		depths = append(depths, req.Depth)
		assert.True(t, req.Preverified)
		assert.Equal(t, RoleInitiator, req.Role)
		return true
	})
	c, _ := newTestConn(t, cfg)

	require.NoError(t, verifyChain(c.Handle(), testChain("leaf", "intermediate", "root"), true))
	assert.Equal(t, []int{2, 1, 0}, depths)
}

func TestVerifyChainFirstRejectionWins(t *testing.T) {
	var depths []int
	cfg := DefaultConfig()
	cfg.Verifier = VerifierFunc(func(req *VerifyRequest) bool {
		depths = append(depths, req.Depth)
		return req.Certificate().Subject.CommonName != "intermediate"
	})
	c, _ := newTestConn(t, cfg)

	err := verifyChain(c.Handle(), testChain("leaf", "intermediate", "root"), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, errChainRejected)
	assert.Equal(t, []int{2, 1}, depths)
}

func TestVerifyChainEmptyChainOfferedOnce(t *testing.T) {
	calls := 0
	cfg := DefaultConfig()
	cfg.Verifier = VerifierFunc(func(req *VerifyRequest) bool {
		calls++
		assert.Zero(t, req.Depth)
		assert.Nil(t, req.Certificate())
		return false
	})
	c, _ := newTestConn(t, cfg)

	assert.Error(t, verifyChain(c.Handle(), nil, false))
	assert.Equal(t, 1, calls)
}

func TestVerifyChainWithoutVerifierAccepts(t *testing.T) {
	c, _ := newTestConn(t, DefaultConfig())
	assert.NoError(t, verifyChain(c.Handle(), testChain("leaf"), false))
}

func TestVerifyChainUnknownHandle(t *testing.T) {
	err := verifyChain(engine.NewHandle(), testChain("leaf"), true)
	require.ErrorIs(t, err, ErrRegistryInconsistency)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "verify", e.Op)
}

func TestVerifyChainAfterClose(t *testing.T) {
	called := false
	cfg := DefaultConfig()
	cfg.Verifier = VerifierFunc(func(*VerifyRequest) bool {
		called = true
		return true
	})
	c, _ := newTestConn(t, cfg)
	h := c.Handle()
	require.NoError(t, c.Close())

	assert.ErrorIs(t, verifyChain(h, testChain("leaf"), true), ErrRegistryInconsistency)
	assert.False(t, called)
}

func TestCloseWaitsForVerification(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	cfg := DefaultConfig()
	cfg.Verifier = VerifierFunc(func(*VerifyRequest) bool {
		close(entered)
		<-release
		return true
	})
	c, sess := newTestConn(t, cfg)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, verifyChain(c.Handle(), testChain("leaf"), true))
	}()
	<-entered

	closed := make(chan struct{})
	go func() {
		c.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close returned while a verification was running")
	case <-time.After(20 * time.Millisecond):
	}
	select {
	case <-sess.closed:
		t.Fatal("session released while a verification was running")
	default:
	}

	close(release)
	wg.Wait()
	<-closed
	<-sess.closed
}

func TestVerifyEventsAreLogged(t *testing.T) {
	var events []log.Event
	cfg := DefaultConfig()
	cfg.ProtocolLogger = log.Func(func(e log.Event) { events = append(events, e) })
	cfg.Verifier = VerifierFunc(func(req *VerifyRequest) bool { return req.Depth != 0 })
	c, _ := newTestConn(t, cfg)

	require.Error(t, verifyChain(c.Handle(), testChain("leaf", "root"), true))
	require.Len(t, events, 2)
	assert.Equal(t, log.CategoryVerify, events[0].Category)
	assert.Equal(t, 1, events[0].Verify.Depth)
	assert.True(t, events[0].Verify.Accepted)
	assert.Equal(t, "CN=root", events[0].Verify.Subject)
	assert.Equal(t, 0, events[1].Verify.Depth)
	assert.False(t, events[1].Verify.Accepted)
}

func TestCollectedConnReleasesSession(t *testing.T) {
	sess := newFakeSession(RoleResponder)
	h := sess.Handle()

	func() {
		_, err := New(sess, RoleResponder, DefaultConfig())
		require.NoError(t, err)
	}()

	require.Eventually(t, func() bool {
		runtime.GC()
		select {
		case <-sess.closed:
			return true
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	assert.False(t, sessions.Contains(h))
	assert.True(t, errors.Is(verifyChain(h, nil, false), ErrRegistryInconsistency))
}
