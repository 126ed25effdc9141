package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/chzyer/readline"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/rpcssl/rpcssl-go/internal/backoff"
	"github.com/rpcssl/rpcssl-go/pkg/socket"
	"github.com/rpcssl/rpcssl-go/pkg/sslconn"
)

// runConnect dials addr opts.Repeat times. Later connections resume the
// session of earlier ones when the server allows it.
func runConnect(ctx context.Context, env *environment, addr string, out io.Writer) error {
	tlsCfg, verifier, err := clientTLS(env.opts, newSessionCache(env.opts))
	if err != nil {
		return err
	}

	var rl *readline.Instance
	if env.opts.Data == "" {
		rl, err = newReadline()
		if err != nil {
			return err
		}
		defer rl.Close()
		// Keep log output from tearing the prompt.
		env.redirectLogs(rl.Stderr())
	}

	for i := 0; i < env.opts.Repeat; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if env.opts.Repeat > 1 {
			fmt.Fprintf(out, "--- connection %d of %d ---\n", i+1, env.opts.Repeat)
		}
		if err := connectOnce(ctx, env, addr, tlsCfg, verifier, rl, out); err != nil {
			return err
		}
	}
	return nil
}

func connectOnce(ctx context.Context, env *environment, addr string, tlsCfg *tls.Config, verifier sslconn.CertificateVerifier, rl *readline.Instance, out io.Writer) (err error) {
	var conn *sslconn.Conn
	err = backoff.Retry(ctx, nil, backoff.New(backoff.DefaultConfig()), env.opts.Retries, retryable, func(ctx context.Context) error {
		var err error
		conn, err = establish(ctx, env, addr, tlsCfg, verifier)
		if err != nil && env.opts.Retries > 0 {
			env.logger.Info("connect attempt failed", "addr", addr, "error", err)
		}
		return err
	})
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, conn.Close())
	}()

	if err := printInfo(out, conn.Info()); err != nil {
		return err
	}

	if rl == nil {
		err = exchange(conn, []byte(env.opts.Data), out)
	} else {
		err = runInteractive(ctx, conn, rl)
	}

	if serr := conn.Shutdown(env.opts.HandshakeTimeout); serr != nil && !errors.Is(serr, sslconn.ErrPeerClosed) {
		err = multierr.Append(err, serr)
	}
	return err
}

// establish dials addr and completes the initiator handshake.
func establish(ctx context.Context, env *environment, addr string, tlsCfg *tls.Config, verifier sslconn.CertificateVerifier) (*sslconn.Conn, error) {
	conn, err := dial(ctx, env, addr, tlsCfg, verifier)
	if err != nil {
		return nil, err
	}
	if err := conn.Connect(env.opts.HandshakeTimeout); err != nil {
		conn.Close()
		return nil, fmt.Errorf("handshake with %s: %w", addr, err)
	}
	return conn, nil
}

// retryable reports whether a failed attempt may succeed on a new
// connection: refused or unreachable dials and handshake timeouts.
func retryable(err error) bool {
	if errors.Is(err, sslconn.ErrHandshakeTimeout) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// dial opens a TCP connection and wraps it as an initiator.
func dial(ctx context.Context, env *environment, addr string, tlsCfg *tls.Config, verifier sslconn.CertificateVerifier) (*sslconn.Conn, error) {
	var d net.Dialer
	if env.opts.HandshakeTimeout > 0 {
		d.Timeout = env.opts.HandshakeTimeout
	}
	nc, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	sock, err := socket.FromConn(nc)
	if err != nil {
		nc.Close()
		return nil, err
	}

	cfg := env.connConfig()
	cfg.TLS = tlsCfg
	cfg.Verifier = verifier
	conn, err := sslconn.Client(sock, cfg)
	if err != nil {
		sock.Close()
		return nil, err
	}
	return conn, nil
}

// exchange writes data and reads until as many bytes came back.
func exchange(conn *sslconn.Conn, data []byte, out io.Writer) error {
	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	reply := make([]byte, 0, len(data))
	buf := make([]byte, 16*1024)
	for len(reply) < len(data) {
		n, err := conn.Read(buf)
		reply = append(reply, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
	}
	fmt.Fprintf(out, "reply: %s\n", reply)
	return nil
}

func printInfo(out io.Writer, info sslconn.ConnectionInfo) error {
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(info); err != nil {
		return fmt.Errorf("print connection info: %w", err)
	}
	return enc.Close()
}
