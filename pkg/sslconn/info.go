package sslconn

import (
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"log/slog"
	"net"
	"time"

	"github.com/rpcssl/rpcssl-go/pkg/engine"
)

// CertificateSummary describes one peer certificate.
type CertificateSummary struct {
	Subject   string    `json:"subject" yaml:"subject"`
	Issuer    string    `json:"issuer" yaml:"issuer"`
	NotBefore time.Time `json:"notBefore" yaml:"notBefore"`
	NotAfter  time.Time `json:"notAfter" yaml:"notAfter"`
	DNSNames  []string  `json:"dnsNames,omitempty" yaml:"dnsNames,omitempty"`

	// Fingerprint is the hex SHA-256 of the DER encoding.
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`
}

// ConnectionInfo is a snapshot of a connection.
type ConnectionInfo struct {
	Handle     string `json:"handle" yaml:"handle"`
	Role       string `json:"role" yaml:"role"`
	Phase      string `json:"phase" yaml:"phase"`
	LocalAddr  string `json:"localAddr,omitempty" yaml:"localAddr,omitempty"`
	RemoteAddr string `json:"remoteAddr,omitempty" yaml:"remoteAddr,omitempty"`

	// Negotiated parameters, empty before the first handshake.
	Version     string `json:"version,omitempty" yaml:"version,omitempty"`
	CipherSuite string `json:"cipherSuite,omitempty" yaml:"cipherSuite,omitempty"`
	ALPN        string `json:"alpn,omitempty" yaml:"alpn,omitempty"`
	ServerName  string `json:"serverName,omitempty" yaml:"serverName,omitempty"`
	Resumed     bool   `json:"resumed" yaml:"resumed"`

	PeerChain []CertificateSummary `json:"peerChain,omitempty" yaml:"peerChain,omitempty"`
	Records   engine.RecordStats   `json:"records" yaml:"records"`

	HandshakeDuration time.Duration `json:"handshakeDuration" yaml:"handshakeDuration"`
	HandshakePolls    int           `json:"handshakePolls" yaml:"handshakePolls"`
}

// Info returns a snapshot of the connection.
func (c *Conn) Info() ConnectionInfo {
	info := ConnectionInfo{
		Handle:            c.handle.String(),
		Role:              c.role.String(),
		Phase:             c.phase.load().String(),
		LocalAddr:         addrString(c.sess.LocalAddr()),
		RemoteAddr:        addrString(c.sess.RemoteAddr()),
		Records:           c.sess.Records(),
		HandshakeDuration: time.Duration(c.hsDuration.Load()),
		HandshakePolls:    int(c.hsPolls.Load()),
	}

	cs := c.sess.ConnectionState()
	if !cs.HandshakeComplete {
		return info
	}
	info.Version = tls.VersionName(cs.Version)
	info.CipherSuite = tls.CipherSuiteName(cs.CipherSuite)
	info.ALPN = cs.NegotiatedProtocol
	info.ServerName = cs.ServerName
	info.Resumed = cs.DidResume
	for _, cert := range cs.PeerCertificates {
		sum := sha256.Sum256(cert.Raw)
		info.PeerChain = append(info.PeerChain, CertificateSummary{
			Subject:     cert.Subject.String(),
			Issuer:      cert.Issuer.String(),
			NotBefore:   cert.NotBefore,
			NotAfter:    cert.NotAfter,
			DNSNames:    cert.DNSNames,
			Fingerprint: hex.EncodeToString(sum[:]),
		})
	}
	return info
}

// PeerSubject returns the subject of the peer leaf certificate, if any.
func (i *ConnectionInfo) PeerSubject() string {
	if len(i.PeerChain) == 0 {
		return ""
	}
	return i.PeerChain[0].Subject
}

func (c *Conn) traceHandshake(info *ConnectionInfo) {
	if c.cfg.TraceLevel < TraceHandshake {
		return
	}
	attrs := []any{
		slog.String("version", info.Version),
		slog.String("cipher_suite", info.CipherSuite),
		slog.Bool("resumed", info.Resumed),
		slog.Duration("duration", info.HandshakeDuration),
		slog.Int("polls", info.HandshakePolls),
		slog.Uint64("records_sent", info.Records.Sent.Records),
		slog.Uint64("records_received", info.Records.Received.Records),
	}
	if info.ALPN != "" {
		attrs = append(attrs, slog.String("alpn", info.ALPN))
	}
	if info.ServerName != "" {
		attrs = append(attrs, slog.String("server_name", info.ServerName))
	}
	for depth, cert := range info.PeerChain {
		attrs = append(attrs, slog.Group("peer",
			slog.Int("depth", depth),
			slog.String("subject", cert.Subject),
			slog.String("issuer", cert.Issuer)))
	}
	c.log.Info("handshake complete", attrs...)
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
