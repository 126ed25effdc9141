package engine

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net"
	"reflect"
	"syscall"
)

// ErrRejected wraps errors returned by Options.Verify.
var ErrRejected = errors.New("engine: peer certificate rejected")

// ErrRenegotiationUnsupported is returned by Renegotiate.
var ErrRenegotiationUnsupported = errors.New("engine: renegotiation is not supported")

// ErrNotConnected is returned by Read, Write and Shutdown before the
// handshake finished.
var ErrNotConnected = errors.New("engine: handshake not complete")

// classify maps an error from crypto/tls or the socket to a status and a
// code for LastError.
func classify(err error) (Status, int) {
	if err == nil {
		return StatusOK, CodeNone
	}

	// Socket failures first; they reach crypto/tls through the bio.
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return StatusSyscall, int(errno)
	}

	switch {
	case errors.Is(err, ErrRejected):
		return StatusFatal, CodeCertificateRejected
	case errors.Is(err, ErrRenegotiationUnsupported):
		return StatusFatal, CodeRenegotiationUnsupported
	case errors.Is(err, ErrNotConnected):
		return StatusFatal, CodeInvalidState
	case errors.Is(err, net.ErrClosed):
		return StatusFatal, CodeClosed
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return StatusFatal, CodeUnexpectedEOF
	}

	if alert, ok := alertOf(err); ok {
		return StatusFatal, AlertCode(alert)
	}

	var (
		verifyErr   *tls.CertificateVerificationError
		unknownAuth x509.UnknownAuthorityError
		invalid     x509.CertificateInvalidError
		hostname    x509.HostnameError
	)
	if errors.As(err, &verifyErr) || errors.As(err, &unknownAuth) ||
		errors.As(err, &invalid) || errors.As(err, &hostname) {
		return StatusFatal, CodeCertificateInvalid
	}

	return StatusFatal, CodeProtocol
}

// alertOf extracts the alert number from alert errors. crypto/tls reports
// alerts received from the peer as *net.OpError{Op: "remote error"} and
// alerts it sent as *net.OpError{Op: "local error"}, both wrapping an
// unexported uint8 type.
func alertOf(err error) (uint8, bool) {
	var alertErr tls.AlertError
	if errors.As(err, &alertErr) {
		return uint8(alertErr), true
	}

	var opErr *net.OpError
	if !errors.As(err, &opErr) || opErr.Err == nil {
		return 0, false
	}
	if opErr.Op != "remote error" && opErr.Op != "local error" {
		return 0, false
	}
	v := reflect.ValueOf(opErr.Err)
	if v.Kind() != reflect.Uint8 {
		return 0, false
	}
	return uint8(v.Uint()), true
}
