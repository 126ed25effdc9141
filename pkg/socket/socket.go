package socket

import (
	"errors"
	"net"
)

// ErrWouldBlock is returned when an operation cannot make progress without
// waiting for the socket to become ready.
var ErrWouldBlock = errors.New("socket: operation would block")

// ErrNotSyscallConn is returned by FromConn for connections that do not
// expose their file descriptor.
var ErrNotSyscallConn = errors.New("socket: connection does not expose a file descriptor")

// Socket is a connected, non-blocking byte stream.
type Socket interface {
	// FD returns the descriptor to wait on for readiness.
	FD() int

	// Read reads available bytes. It returns ErrWouldBlock when nothing is
	// buffered and io.EOF once the peer has closed its side.
	Read(p []byte) (int, error)

	// Write writes as many bytes as the kernel accepts. It returns
	// ErrWouldBlock when no byte could be written.
	Write(p []byte) (int, error)

	// Close closes the socket.
	Close() error

	LocalAddr() net.Addr
	RemoteAddr() net.Addr
}
