//go:build unix

package socket

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
)

type rawSocket struct {
	conn net.Conn
	raw  syscall.RawConn
	fd   int

	closeOnce sync.Once
	closeErr  error
}

// FromConn wraps a connection whose descriptor is reachable through
// syscall.Conn (TCP, Unix and file-backed connections). The socket takes
// ownership of conn; closing the socket closes conn.
func FromConn(conn net.Conn) (Socket, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotSyscallConn, conn)
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return nil, fmt.Errorf("socket: raw conn: %w", err)
	}

	fd := -1
	if err := raw.Control(func(s uintptr) { fd = int(s) }); err != nil {
		return nil, fmt.Errorf("socket: descriptor: %w", err)
	}

	return &rawSocket{conn: conn, raw: raw, fd: fd}, nil
}

// Pair returns two connected Unix stream sockets.
func Pair() (Socket, Socket, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, nil, os.NewSyscallError("socketpair", err)
	}

	a, err := fileSocket(fds[0], "pair-a")
	if err != nil {
		unix.Close(fds[1])
		return nil, nil, err
	}
	b, err := fileSocket(fds[1], "pair-b")
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	return a, b, nil
}

func fileSocket(fd int, name string) (Socket, error) {
	f := os.NewFile(uintptr(fd), name)
	defer f.Close()

	// FileConn duplicates the descriptor and registers it with the runtime
	// poller, which switches it to non-blocking mode.
	conn, err := net.FileConn(f)
	if err != nil {
		return nil, fmt.Errorf("socket: file conn: %w", err)
	}
	s, err := FromConn(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func (s *rawSocket) FD() int { return s.fd }

func (s *rawSocket) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	var (
		n     int
		opErr error
	)
	err := s.raw.Read(func(fd uintptr) bool {
		for {
			n, opErr = unix.Read(int(fd), p)
			if opErr != unix.EINTR {
				return true
			}
		}
	})
	if err != nil {
		return 0, err
	}
	if opErr != nil {
		if errors.Is(opErr, unix.EAGAIN) {
			return 0, ErrWouldBlock
		}
		return 0, os.NewSyscallError("read", opErr)
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (s *rawSocket) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	var (
		n     int
		opErr error
	)
	err := s.raw.Write(func(fd uintptr) bool {
		for {
			n, opErr = unix.Write(int(fd), p)
			if opErr != unix.EINTR {
				return true
			}
		}
	})
	if err != nil {
		return 0, err
	}
	if opErr != nil {
		if errors.Is(opErr, unix.EAGAIN) {
			return 0, ErrWouldBlock
		}
		return 0, os.NewSyscallError("write", opErr)
	}
	if n < 0 {
		n = 0
	}
	return n, nil
}

func (s *rawSocket) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.conn.Close()
	})
	return s.closeErr
}

func (s *rawSocket) LocalAddr() net.Addr  { return s.conn.LocalAddr() }
func (s *rawSocket) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }
