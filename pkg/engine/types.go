package engine

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"

	"github.com/google/uuid"
)

// Handle identifies a session. It is generated when the session is created
// and never reused.
type Handle uuid.UUID

// NewHandle generates a random handle.
func NewHandle() Handle {
	return Handle(uuid.New())
}

// ParseHandle parses the string form of a handle.
func ParseHandle(s string) (Handle, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Handle{}, fmt.Errorf("parse handle: %w", err)
	}
	return Handle(u), nil
}

// String returns the canonical UUID form.
func (h Handle) String() string {
	return uuid.UUID(h).String()
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h == Handle{}
}

// Role selects which side of the handshake a session plays.
type Role uint8

const (
	// RoleInitiator starts the handshake (TLS client).
	RoleInitiator Role = iota

	// RoleResponder answers the handshake (TLS server).
	RoleResponder
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleInitiator:
		return "INITIATOR"
	case RoleResponder:
		return "RESPONDER"
	default:
		return "UNKNOWN"
	}
}

// Status is the outcome of a single session step.
type Status uint8

const (
	// StatusOK means the operation finished.
	StatusOK Status = iota

	// StatusWantRead means the operation needs more bytes from the socket.
	StatusWantRead

	// StatusWantWrite means buffered bytes could not be written to the socket.
	StatusWantWrite

	// StatusZeroReturn means the peer closed the session cleanly.
	StatusZeroReturn

	// StatusSyscall means the socket failed. LastError holds the errno.
	StatusSyscall

	// StatusFatal means the session failed. LastError holds the code.
	StatusFatal
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusWantRead:
		return "WANT_READ"
	case StatusWantWrite:
		return "WANT_WRITE"
	case StatusZeroReturn:
		return "ZERO_RETURN"
	case StatusSyscall:
		return "SYSCALL"
	case StatusFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// Retryable reports whether the step should be repeated after waiting for
// socket readiness.
func (s Status) Retryable() bool {
	return s == StatusWantRead || s == StatusWantWrite
}

// Error codes reported by LastError that are not errno values.
const (
	CodeNone = 0

	codeBase = 0x10000

	CodeProtocol                 = codeBase + 1
	CodeUnexpectedEOF            = codeBase + 2
	CodeClosed                   = codeBase + 3
	CodeCertificateRejected      = codeBase + 4
	CodeCertificateInvalid       = codeBase + 5
	CodeRenegotiationUnsupported = codeBase + 6
	CodeInvalidState             = codeBase + 7

	// CodeAlertBase is or-ed with a TLS alert number.
	CodeAlertBase = 0x20000
)

// AlertCode returns the code for a TLS alert.
func AlertCode(alert uint8) int {
	return CodeAlertBase | int(alert)
}

// Alert extracts the TLS alert from a code produced by AlertCode.
func Alert(code int) (uint8, bool) {
	if code&^0xff != CodeAlertBase {
		return 0, false
	}
	return uint8(code & 0xff), true
}

// CodeText describes a code for logs.
func CodeText(code int) string {
	switch code {
	case CodeNone:
		return "none"
	case CodeProtocol:
		return "protocol error"
	case CodeUnexpectedEOF:
		return "unexpected eof"
	case CodeClosed:
		return "session closed"
	case CodeCertificateRejected:
		return "certificate rejected"
	case CodeCertificateInvalid:
		return "certificate invalid"
	case CodeRenegotiationUnsupported:
		return "renegotiation unsupported"
	case CodeInvalidState:
		return "invalid state"
	}
	if alert, ok := Alert(code); ok {
		return fmt.Sprintf("tls alert %d", alert)
	}
	if code > 0 && code < codeBase {
		return fmt.Sprintf("errno %d", code)
	}
	return fmt.Sprintf("code %#x", code)
}

// VerifyFunc inspects a peer chain (leaf first). A non-nil error rejects it.
// preverified reports whether crypto/tls already verified the chain against
// the configured roots.
type VerifyFunc func(h Handle, chain []*x509.Certificate, preverified bool) error

// Options tune NewSession.
type Options struct {
	// Verify is called with every peer chain. Optional.
	Verify VerifyFunc

	// Handle overrides the generated handle. Optional.
	Handle Handle
}

// Session is a TLS session driven step by step over a non-blocking socket.
//
// Handshake, Renegotiate and Shutdown must not be called concurrently with
// each other. One Read and one Write may run concurrently once the handshake
// finished.
type Session interface {
	Handle() Handle
	Role() Role

	// FD returns the socket descriptor to wait on.
	FD() int

	LocalAddr() net.Addr
	RemoteAddr() net.Addr

	Handshake() (Status, error)
	Renegotiate() (Status, error)

	// Read returns decrypted application data. n is only meaningful with
	// StatusOK.
	Read(p []byte) (n int, st Status, err error)

	// Write encrypts p. After StatusWantWrite the caller must retry with the
	// same buffer; the byte count is reported once the records are flushed.
	Write(p []byte) (n int, st Status, err error)

	// Shutdown sends close_notify.
	Shutdown() (Status, error)

	// Pending returns the number of decrypted bytes ready to be read.
	Pending() int

	// LastError returns the code of the most recent failure.
	LastError() int

	// ConnectionState is valid after the handshake finished.
	ConnectionState() tls.ConnectionState

	Records() RecordStats

	// Close releases the session and closes the socket.
	Close() error
}
