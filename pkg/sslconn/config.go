package sslconn

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rpcssl/rpcssl-go/pkg/log"
	"github.com/rpcssl/rpcssl-go/pkg/poll"
)

// TraceLevel selects how much a connection writes to its slog.Logger.
type TraceLevel uint8

const (
	// TraceNone logs nothing.
	TraceNone TraceLevel = iota

	// TraceState logs phase changes and failures.
	TraceState

	// TraceHandshake also logs the negotiated parameters and peer chain
	// after every handshake.
	TraceHandshake

	// TraceIO also logs every application read and write.
	TraceIO
)

// String returns the level name.
func (l TraceLevel) String() string {
	switch l {
	case TraceNone:
		return "none"
	case TraceState:
		return "state"
	case TraceHandshake:
		return "handshake"
	case TraceIO:
		return "io"
	default:
		return "unknown"
	}
}

// ParseTraceLevel parses a level name or its number.
func ParseTraceLevel(s string) (TraceLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "0", "":
		return TraceNone, nil
	case "state", "1":
		return TraceState, nil
	case "handshake", "2":
		return TraceHandshake, nil
	case "io", "3":
		return TraceIO, nil
	}
	return TraceNone, fmt.Errorf("unknown trace level %q", s)
}

// UnmarshalText lets trace levels appear in YAML and flag values.
func (l *TraceLevel) UnmarshalText(text []byte) error {
	v, err := ParseTraceLevel(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (l TraceLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Config configures a Conn. Start from DefaultConfig; the zero value makes
// every Read and Write a single non-blocking attempt.
type Config struct {
	// TLS is the crypto/tls configuration. Required by Client and Server.
	TLS *tls.Config

	// Verifier is asked about every peer certificate. Nil accepts whatever
	// the TLS configuration already accepted. It is shared between
	// connections and must be safe for concurrent use.
	Verifier CertificateVerifier

	// HandshakeTimeout bounds Renegotiate.
	HandshakeTimeout time.Duration

	// HandshakeReadTimeout caps each wait for peer data during a handshake.
	// Zero or negative disables the cap.
	HandshakeReadTimeout time.Duration

	// ReadTimeout and WriteTimeout are used by Read and Write.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Poller waits for socket readiness. Defaults to poll.Default.
	Poller poll.Poller

	// Clock measures timeout budgets. Defaults to the wall clock.
	Clock clock.Clock

	// Logger receives operational logs. Defaults to slog.Default().
	Logger     *slog.Logger
	TraceLevel TraceLevel

	// ProtocolLogger receives protocol events. Optional.
	ProtocolLogger log.Logger
}

// DefaultConfig returns a configuration without time limits.
func DefaultConfig() Config {
	return Config{
		HandshakeTimeout: poll.Infinite,
		ReadTimeout:      poll.Infinite,
		WriteTimeout:     poll.Infinite,
		TraceLevel:       TraceNone,
	}
}

func (c Config) withDefaults() Config {
	if c.Poller == nil {
		c.Poller = poll.Default
	}
	if c.Clock == nil {
		c.Clock = clock.New()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.ProtocolLogger == nil {
		c.ProtocolLogger = log.NoopLogger{}
	}
	return c
}
