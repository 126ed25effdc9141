package engine

import (
	"bytes"
	"net"
	"sync"
	"time"
)

// bio is the in-memory transport under the tls.Conn. Writes never block;
// reads block until ciphertext arrives from the socket, the socket reaches
// EOF, or the bio is closed. The driver observes blocked readers through
// readers and feeds them.
type bio struct {
	mu   sync.Mutex
	cond *sync.Cond

	in  bytes.Buffer // ciphertext from the peer, consumed by crypto/tls
	out bytes.Buffer // ciphertext from crypto/tls, waiting for the socket

	readErr error // delivered to readers once in is drained
	closed  bool
	readers int

	local, remote net.Addr
}

var _ net.Conn = (*bio)(nil)

func newBIO(local, remote net.Addr) *bio {
	b := &bio{local: local, remote: remote}
	b.cond = sync.NewCond(&b.mu)
	return b
}

func (b *bio) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.in.Len() == 0 {
		if b.closed {
			return 0, net.ErrClosed
		}
		if b.readErr != nil {
			return 0, b.readErr
		}
		b.readers++
		b.cond.Broadcast()
		b.cond.Wait()
		b.readers--
	}
	return b.in.Read(p)
}

func (b *bio) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, net.ErrClosed
	}
	b.out.Write(p)
	b.cond.Broadcast()
	return len(p), nil
}

// Close unblocks every reader. crypto/tls never closes the bio itself
// because the session never calls tls.Conn.Close.
func (b *bio) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.cond.Broadcast()
	return nil
}

// feed appends ciphertext received from the socket.
func (b *bio) feed(p []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.in.Write(p)
	b.cond.Broadcast()
}

// fail makes readers return err once the buffered input is consumed.
func (b *bio) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.readErr == nil {
		b.readErr = err
	}
	b.cond.Broadcast()
}

func (b *bio) LocalAddr() net.Addr  { return b.local }
func (b *bio) RemoteAddr() net.Addr { return b.remote }

// Deadlines are enforced by the caller's readiness waits.
func (b *bio) SetDeadline(time.Time) error      { return nil }
func (b *bio) SetReadDeadline(time.Time) error  { return nil }
func (b *bio) SetWriteDeadline(time.Time) error { return nil }
