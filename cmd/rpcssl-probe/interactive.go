package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/rpcssl/rpcssl-go/pkg/sslconn"
)

// session is an interactive exchange over one connection. Every line that
// is not a dot command is sent with a trailing newline and the reply is
// printed.
type session struct {
	conn *sslconn.Conn
	out  io.Writer
}

func newReadline() (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "rpcssl> ",
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return rl, nil
}

func runInteractive(ctx context.Context, conn *sslconn.Conn, rl *readline.Instance) error {
	s := &session{conn: conn, out: rl.Stdout()}
	s.printHelp()

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			return nil
		}
		quit, err := s.handle(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintf(s.out, "error: %v\n", err)
			if errors.Is(err, sslconn.ErrPeerClosed) || errors.Is(err, io.EOF) {
				return nil
			}
		}
		if quit {
			return nil
		}
	}
}

// handle runs one input line and reports whether the session should end.
func (s *session) handle(line string) (bool, error) {
	switch line {
	case "":
		return false, nil
	case ".help", ".?":
		s.printHelp()
		return false, nil
	case ".info":
		return false, printInfo(s.out, s.conn.Info())
	case ".renegotiate":
		if err := s.conn.Renegotiate(); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "renegotiated")
		return false, nil
	case ".quit", ".exit":
		return true, nil
	}
	return false, exchange(s.conn, []byte(line+"\n"), s.out)
}

func (s *session) printHelp() {
	fmt.Fprintln(s.out, `Type a line to send it and print the reply.
  .info          Show negotiated parameters and peer chain
  .renegotiate   Renegotiate the session
  .quit          Send close_notify and exit`)
}
