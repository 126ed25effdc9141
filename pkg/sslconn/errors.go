package sslconn

import (
	"errors"
	"fmt"
	"io"

	"github.com/rpcssl/rpcssl-go/pkg/engine"
)

// Kind classifies connection errors.
type Kind uint8

const (
	KindHandshakeTimeout Kind = iota + 1
	KindHandshakeFailure
	KindShutdownFailure
	KindReadError
	KindWriteError
	KindPeerClosed
	KindRegistryInconsistency
	KindInvalidPhase
	KindReadTimeout
	KindWriteTimeout
	KindWrongRole
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindHandshakeTimeout:
		return "HANDSHAKE_TIMEOUT"
	case KindHandshakeFailure:
		return "HANDSHAKE_FAILURE"
	case KindShutdownFailure:
		return "SHUTDOWN_FAILURE"
	case KindReadError:
		return "READ_ERROR"
	case KindWriteError:
		return "WRITE_ERROR"
	case KindPeerClosed:
		return "PEER_CLOSED"
	case KindRegistryInconsistency:
		return "REGISTRY_INCONSISTENCY"
	case KindInvalidPhase:
		return "INVALID_PHASE"
	case KindReadTimeout:
		return "READ_TIMEOUT"
	case KindWriteTimeout:
		return "WRITE_TIMEOUT"
	case KindWrongRole:
		return "WRONG_ROLE"
	default:
		return "UNKNOWN"
	}
}

func (k Kind) text() string {
	switch k {
	case KindHandshakeTimeout:
		return "handshake timed out"
	case KindHandshakeFailure:
		return "handshake failed"
	case KindShutdownFailure:
		return "shutdown failed"
	case KindReadError:
		return "read failed"
	case KindWriteError:
		return "write failed"
	case KindPeerClosed:
		return "peer closed the connection"
	case KindRegistryInconsistency:
		return "connection not registered"
	case KindInvalidPhase:
		return "operation not allowed in this phase"
	case KindReadTimeout:
		return "read timed out"
	case KindWriteTimeout:
		return "write timed out"
	case KindWrongRole:
		return "operation not allowed for this role"
	default:
		return "unknown error"
	}
}

// Error is returned by every Conn operation.
type Error struct {
	Kind Kind

	// Op is the operation that failed, e.g. "handshake" or "read".
	Op string

	// Code is the native error code (see engine.CodeText); 0 when none.
	Code int

	// Err is the underlying error from the engine or the poller.
	Err error
}

// Sentinels for errors.Is. They match any *Error of the same Kind.
var (
	ErrHandshakeTimeout      = &Error{Kind: KindHandshakeTimeout}
	ErrHandshakeFailure      = &Error{Kind: KindHandshakeFailure}
	ErrShutdownFailure       = &Error{Kind: KindShutdownFailure}
	ErrReadError             = &Error{Kind: KindReadError}
	ErrWriteError            = &Error{Kind: KindWriteError}
	ErrPeerClosed            = &Error{Kind: KindPeerClosed}
	ErrRegistryInconsistency = &Error{Kind: KindRegistryInconsistency}
	ErrInvalidPhase          = &Error{Kind: KindInvalidPhase}
	ErrReadTimeout           = &Error{Kind: KindReadTimeout}
	ErrWriteTimeout          = &Error{Kind: KindWriteTimeout}
	ErrWrongRole             = &Error{Kind: KindWrongRole}
)

func (e *Error) Error() string {
	msg := "sslconn: "
	if e.Op != "" {
		msg += e.Op + ": "
	}
	msg += e.Kind.text()
	if e.Code != engine.CodeNone {
		msg += fmt.Sprintf(" (%s)", engine.CodeText(e.Code))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same Kind. A PeerClosed error also matches
// io.EOF.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return e.Kind == KindPeerClosed && target == io.EOF
}

// Timeout reports whether the operation ran out of time. The connection
// stays usable and the call may be retried.
func (e *Error) Timeout() bool {
	switch e.Kind {
	case KindHandshakeTimeout, KindReadTimeout, KindWriteTimeout:
		return true
	}
	return false
}

// IsTimeout reports whether err is a timeout error from this package.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Timeout()
}
