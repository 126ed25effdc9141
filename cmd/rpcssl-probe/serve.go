package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/multierr"

	"github.com/rpcssl/rpcssl-go/pkg/socket"
	"github.com/rpcssl/rpcssl-go/pkg/sslconn"
)

// server accepts TCP connections and echoes application data back to each
// initiator until it shuts down.
type server struct {
	env      *environment
	ln       net.Listener
	tls      *tls.Config
	verifier sslconn.CertificateVerifier

	wg sync.WaitGroup
}

func listen(env *environment, addr string) (*server, error) {
	tlsCfg, verifier, err := serverTLS(env.opts)
	if err != nil {
		return nil, err
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &server{env: env, ln: ln, tls: tlsCfg, verifier: verifier}, nil
}

// Addr returns the listening address.
func (s *server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve accepts connections until ctx is done, then waits for the open
// ones to finish.
func (s *server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { s.ln.Close() })
	defer stop()
	defer s.wg.Wait()

	for {
		nc, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept: %w", err)
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			if err := s.handle(nc); err != nil {
				s.env.logger.Warn("connection failed", "remote", nc.RemoteAddr().String(), "error", err)
			}
		}()
	}
}

// Close stops accepting connections.
func (s *server) Close() error {
	return s.ln.Close()
}

func (s *server) handle(nc net.Conn) (err error) {
	sock, err := socket.FromConn(nc)
	if err != nil {
		nc.Close()
		return err
	}

	cfg := s.env.connConfig()
	cfg.TLS = s.tls
	cfg.Verifier = s.verifier
	conn, err := sslconn.Server(sock, cfg)
	if err != nil {
		sock.Close()
		return err
	}
	defer func() {
		err = multierr.Append(err, conn.Close())
	}()

	if err := conn.Accept(s.env.opts.HandshakeTimeout); err != nil {
		return fmt.Errorf("handshake: %w", err)
	}
	info := conn.Info()
	s.env.logger.Info("accepted",
		"conn_id", info.Handle,
		"remote", info.RemoteAddr,
		"version", info.Version,
		"resumed", info.Resumed,
		"peer", info.PeerSubject())

	n, err := echo(conn)
	s.env.logger.Info("closed", "conn_id", info.Handle, "bytes", n)
	if err != nil {
		return err
	}
	// The initiator may already be gone once it has sent its own close_notify.
	if err := conn.Shutdown(s.env.opts.HandshakeTimeout); err != nil {
		s.env.logger.Debug("close_notify not delivered", "conn_id", info.Handle, "error", err)
	}
	return nil
}

// echo copies application data back until the peer shuts down.
func echo(conn *sslconn.Conn) (int64, error) {
	var total int64
	buf := make([]byte, 16*1024)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if _, werr := conn.Write(buf[:n]); werr != nil {
				return total, fmt.Errorf("write: %w", werr)
			}
			total += int64(n)
		}
		if errors.Is(err, io.EOF) {
			return total, nil
		}
		if err != nil {
			return total, fmt.Errorf("read: %w", err)
		}
	}
}
