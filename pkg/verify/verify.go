package verify

import (
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rpcssl/rpcssl-go/pkg/sslconn"
)

// Verification errors.
var (
	ErrNoCertificate   = errors.New("peer sent no certificate")
	ErrCertExpired     = errors.New("certificate has expired")
	ErrCertNotYetValid = errors.New("certificate is not yet valid")
	ErrInvalidChain    = errors.New("invalid certificate chain")
	ErrNotPreverified  = errors.New("chain was not verified by the TLS stack")
	ErrNameMismatch    = errors.New("certificate name mismatch")
)

// Checker is a verifier that explains its rejections.
type Checker interface {
	sslconn.CertificateVerifier
	Check(req *sslconn.VerifyRequest) error
}

// Func adapts an error-returning check. A nil error accepts.
type Func func(req *sslconn.VerifyRequest) error

// Check calls f.
func (f Func) Check(req *sslconn.VerifyRequest) error { return f(req) }

// Verify reports whether f accepts req.
func (f Func) Verify(req *sslconn.VerifyRequest) bool { return f(req) == nil }

var (
	// AcceptAll accepts every certificate.
	AcceptAll sslconn.CertificateVerifier = sslconn.VerifierFunc(func(*sslconn.VerifyRequest) bool { return true })

	// RejectAll rejects every certificate.
	RejectAll sslconn.CertificateVerifier = sslconn.VerifierFunc(func(*sslconn.VerifyRequest) bool { return false })
)

// Pool verifies peer chains against a set of trusted roots.
type Pool struct {
	// Roots are the trust anchors. Nil uses the system pool.
	Roots *x509.CertPool

	// KeyUsages the leaf must allow. Empty means any.
	KeyUsages []x509.ExtKeyUsage

	// RequirePreverified also demands that crypto/tls verified the chain.
	RequirePreverified bool

	// Clock supplies the verification time. Defaults to the wall clock.
	Clock clock.Clock

	// Logger receives rejections at debug level. Optional.
	Logger *slog.Logger
}

// NewPool returns a Pool trusting roots.
func NewPool(roots *x509.CertPool) *Pool {
	return &Pool{
		Roots:     roots,
		KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}
}

// Check validates the certificate at req.Depth. At depth 0 the whole chain
// is built from the leaf, with the other certificates as intermediates.
func (p *Pool) Check(req *sslconn.VerifyRequest) error {
	cert := req.Certificate()
	if cert == nil {
		return ErrNoCertificate
	}
	if p.RequirePreverified && !req.Preverified {
		return ErrNotPreverified
	}

	now := p.now()
	if err := checkValidity(cert, now); err != nil {
		return err
	}
	if req.Depth != 0 {
		return nil
	}

	intermediates := x509.NewCertPool()
	for _, c := range req.Chain[1:] {
		intermediates.AddCert(c)
	}
	opts := x509.VerifyOptions{
		Roots:         p.Roots,
		Intermediates: intermediates,
		CurrentTime:   now,
		KeyUsages:     p.KeyUsages,
	}
	if _, err := cert.Verify(opts); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidChain, err)
	}
	return nil
}

// Verify implements sslconn.CertificateVerifier.
func (p *Pool) Verify(req *sslconn.VerifyRequest) bool {
	return report(p.Logger, req, p.Check(req))
}

func (p *Pool) now() time.Time {
	if p.Clock == nil {
		return time.Now()
	}
	return p.Clock.Now()
}

func checkValidity(cert *x509.Certificate, now time.Time) error {
	if now.Before(cert.NotBefore) {
		return fmt.Errorf("%w: %s valid from %s", ErrCertNotYetValid, cert.Subject, cert.NotBefore.Format(time.RFC3339))
	}
	if now.After(cert.NotAfter) {
		return fmt.Errorf("%w: %s expired %s", ErrCertExpired, cert.Subject, cert.NotAfter.Format(time.RFC3339))
	}
	return nil
}

// Names accepts a leaf whose CommonName or DNS SAN matches one of a fixed
// set of names. Other depths are accepted.
type Names struct {
	names  []string
	Logger *slog.Logger
}

// NewNames returns a Names verifier. Wildcard SANs are honoured.
func NewNames(names ...string) *Names {
	return &Names{names: names}
}

// Check implements Checker.
func (n *Names) Check(req *sslconn.VerifyRequest) error {
	if req.Depth != 0 {
		return nil
	}
	cert := req.Certificate()
	if cert == nil {
		return ErrNoCertificate
	}
	for _, name := range n.names {
		if strings.EqualFold(cert.Subject.CommonName, name) {
			return nil
		}
		if len(cert.DNSNames) > 0 && cert.VerifyHostname(name) == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %s not in %v", ErrNameMismatch, cert.Subject, n.names)
}

// Verify implements sslconn.CertificateVerifier.
func (n *Names) Verify(req *sslconn.VerifyRequest) bool {
	return report(n.Logger, req, n.Check(req))
}

type all []sslconn.CertificateVerifier

// All returns a verifier that accepts only if every verifier accepts. It
// stops at the first rejection.
func All(verifiers ...sslconn.CertificateVerifier) sslconn.CertificateVerifier {
	return all(verifiers)
}

func (a all) Verify(req *sslconn.VerifyRequest) bool {
	for _, v := range a {
		if v != nil && !v.Verify(req) {
			return false
		}
	}
	return true
}

func report(logger *slog.Logger, req *sslconn.VerifyRequest, err error) bool {
	if err != nil && logger != nil {
		logger.Debug("certificate rejected",
			slog.String("conn_id", req.Handle.String()),
			slog.Int("depth", req.Depth),
			slog.Any("error", err))
	}
	return err == nil
}

var (
	_ Checker                     = Func(nil)
	_ Checker                     = (*Pool)(nil)
	_ Checker                     = (*Names)(nil)
	_ sslconn.CertificateVerifier = all(nil)
)
