// Package socket exposes a connected stream socket as a non-blocking byte
// stream.
//
// Reads and writes never park the calling goroutine: when the kernel has no
// data, or no room for more, they fail with ErrWouldBlock and the caller is
// expected to wait for readiness on FD (see package poll) and try again.
//
//	sock, err := socket.FromConn(tcpConn)
//	...
//	n, err := sock.Read(buf)
//	if errors.Is(err, socket.ErrWouldBlock) {
//	    poll.Wait(sock.FD(), poll.DirectionRead, timeout)
//	}
package socket
