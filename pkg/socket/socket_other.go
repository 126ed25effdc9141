//go:build !unix

package socket

import (
	"errors"
	"net"
)

// FromConn is not supported on this platform.
func FromConn(net.Conn) (Socket, error) {
	return nil, errors.ErrUnsupported
}

// Pair is not supported on this platform.
func Pair() (Socket, Socket, error) {
	return nil, nil, errors.ErrUnsupported
}
