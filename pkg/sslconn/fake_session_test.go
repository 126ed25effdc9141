package sslconn

import (
	"crypto/tls"
	"net"

	"github.com/rpcssl/rpcssl-go/pkg/engine"
)

// fakeSession is a minimal engine.Session for tests that do not drive I/O.
type fakeSession struct {
	handle engine.Handle
	role   engine.Role
	closed chan struct{}
}

func newFakeSession(role engine.Role) *fakeSession {
	return &fakeSession{
		handle: engine.NewHandle(),
		role:   role,
		closed: make(chan struct{}),
	}
}

func (s *fakeSession) Handle() engine.Handle { return s.handle }
func (s *fakeSession) Role() engine.Role     { return s.role }
func (s *fakeSession) FD() int               { return -1 }
func (s *fakeSession) LocalAddr() net.Addr   { return nil }
func (s *fakeSession) RemoteAddr() net.Addr  { return nil }

func (s *fakeSession) Handshake() (engine.Status, error)   { return engine.StatusOK, nil }
func (s *fakeSession) Renegotiate() (engine.Status, error) { return engine.StatusOK, nil }
func (s *fakeSession) Shutdown() (engine.Status, error)    { return engine.StatusOK, nil }

func (s *fakeSession) Read([]byte) (int, engine.Status, error) {
	return 0, engine.StatusZeroReturn, nil
}

func (s *fakeSession) Write(p []byte) (int, engine.Status, error) {
	return len(p), engine.StatusOK, nil
}

func (s *fakeSession) Pending() int                         { return 0 }
func (s *fakeSession) LastError() int                       { return engine.CodeNone }
func (s *fakeSession) ConnectionState() tls.ConnectionState { return tls.ConnectionState{} }
func (s *fakeSession) Records() engine.RecordStats          { return engine.RecordStats{} }

func (s *fakeSession) Close() error {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	return nil
}

var _ engine.Session = (*fakeSession)(nil)
