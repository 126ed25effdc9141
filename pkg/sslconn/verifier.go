package sslconn

import (
	"crypto/x509"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/rpcssl/rpcssl-go/pkg/engine"
	"github.com/rpcssl/rpcssl-go/pkg/log"
)

// VerifyRequest describes one certificate of a peer chain.
type VerifyRequest struct {
	Handle engine.Handle
	Role   Role

	// Chain is the full chain as presented, leaf first. It may be empty
	// when the peer sent no certificate.
	Chain []*x509.Certificate

	// Depth indexes Chain; 0 is the leaf.
	Depth int

	// Preverified reports whether crypto/tls already verified the chain
	// against the configured roots.
	Preverified bool

	RemoteAddr net.Addr
}

// Certificate returns the certificate under inspection, or nil for an empty
// chain.
func (r *VerifyRequest) Certificate() *x509.Certificate {
	if r.Depth < 0 || r.Depth >= len(r.Chain) {
		return nil
	}
	return r.Chain[r.Depth]
}

// CertificateVerifier decides whether to accept a peer certificate. It is
// called from the handshake, once per chain depth from the root down to the
// leaf, and must be safe for concurrent use.
type CertificateVerifier interface {
	Verify(req *VerifyRequest) bool
}

// VerifierFunc adapts a function to CertificateVerifier.
type VerifierFunc func(req *VerifyRequest) bool

// Verify calls f.
func (f VerifierFunc) Verify(req *VerifyRequest) bool { return f(req) }

var errChainRejected = errors.New("certificate rejected by verifier")

// verifyChain is installed as the engine verification callback for every
// connection. It only knows the handle and finds the connection through the
// registry; the connection is used while the registry lock is held.
func verifyChain(h engine.Handle, chain []*x509.Certificate, preverified bool) error {
	var err error
	found := sessions.Lookup(h, func(c *Conn) {
		err = c.verify(chain, preverified)
	})
	if !found {
		slog.Default().Warn("certificate verification for unknown connection",
			slog.String("conn_id", h.String()),
			slog.Int("chain_len", len(chain)))
		return &Error{
			Kind: KindRegistryInconsistency,
			Op:   opVerify,
			Err:  fmt.Errorf("handle %s", h),
		}
	}
	return err
}

func (c *Conn) verify(chain []*x509.Certificate, preverified bool) error {
	if c.cfg.Verifier == nil {
		return nil
	}

	req := &VerifyRequest{
		Handle:      c.handle,
		Role:        c.role,
		Chain:       chain,
		Preverified: preverified,
		RemoteAddr:  c.sess.RemoteAddr(),
	}

	// An empty chain is offered once so the verifier can refuse
	// anonymous peers.
	for depth := max(len(chain)-1, 0); depth >= 0; depth-- {
		req.Depth = depth
		ok := c.cfg.Verifier.Verify(req)
		c.emitVerify(req, ok)
		if !ok {
			if c.cfg.TraceLevel >= TraceState {
				c.log.Info("peer certificate rejected",
					slog.Int("depth", depth),
					slog.String("subject", subjectOf(req.Certificate())))
			}
			return fmt.Errorf("%w at depth %d", errChainRejected, depth)
		}
	}
	return nil
}

func (c *Conn) emitVerify(req *VerifyRequest, accepted bool) {
	ev := &log.VerifyEvent{
		Depth:       req.Depth,
		Preverified: req.Preverified,
		Accepted:    accepted,
	}
	if cert := req.Certificate(); cert != nil {
		ev.Subject = cert.Subject.String()
		ev.Issuer = cert.Issuer.String()
	}
	c.emit(log.CategoryVerify, func(e *log.Event) { e.Verify = ev })
}

func subjectOf(cert *x509.Certificate) string {
	if cert == nil {
		return ""
	}
	return cert.Subject.String()
}
