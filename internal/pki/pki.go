// Package pki generates throwaway certificate hierarchies for tests and for
// the probe's ephemeral mode.
package pki

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"time"
)

// Bundle is a CA with one server and one client certificate signed by it.
type Bundle struct {
	CA     *x509.Certificate
	CAKey  *ecdsa.PrivateKey
	CAPool *x509.CertPool

	Server tls.Certificate
	Client tls.Certificate
}

// Options controls Generate.
type Options struct {
	// ServerNames become DNS SANs of the server certificate.
	ServerNames []string

	// ClientName is the client certificate CommonName.
	ClientName string

	// Validity defaults to 24h starting now.
	NotBefore time.Time
	Validity  time.Duration
}

// DefaultOptions returns options for a localhost server.
func DefaultOptions() Options {
	return Options{
		ServerNames: []string{"localhost"},
		ClientName:  "test-client",
		Validity:    24 * time.Hour,
	}
}

// Generate creates a fresh hierarchy using P-256 keys.
func Generate(opts Options) (*Bundle, error) {
	if opts.Validity <= 0 {
		opts.Validity = 24 * time.Hour
	}
	if opts.NotBefore.IsZero() {
		opts.NotBefore = time.Now().Add(-time.Minute)
	}
	notAfter := opts.NotBefore.Add(opts.Validity)

	caKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate CA key: %w", err)
	}
	caTemplate := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "rpcssl test CA"},
		NotBefore:             opts.NotBefore,
		NotAfter:              notAfter,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		IsCA:                  true,
		BasicConstraintsValid: true,
	}
	caDER, err := x509.CreateCertificate(rand.Reader, caTemplate, caTemplate, &caKey.PublicKey, caKey)
	if err != nil {
		return nil, fmt.Errorf("create CA certificate: %w", err)
	}
	ca, err := x509.ParseCertificate(caDER)
	if err != nil {
		return nil, fmt.Errorf("parse CA certificate: %w", err)
	}

	b := &Bundle{CA: ca, CAKey: caKey, CAPool: x509.NewCertPool()}
	b.CAPool.AddCert(ca)

	serverCN := "localhost"
	if len(opts.ServerNames) > 0 {
		serverCN = opts.ServerNames[0]
	}
	b.Server, err = b.Issue(&x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: serverCN},
		NotBefore:    opts.NotBefore,
		NotAfter:     notAfter,
		DNSNames:     opts.ServerNames,
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1"), net.IPv6loopback},
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	})
	if err != nil {
		return nil, fmt.Errorf("server certificate: %w", err)
	}

	b.Client, err = b.Issue(&x509.Certificate{
		SerialNumber: big.NewInt(3),
		Subject:      pkix.Name{CommonName: opts.ClientName},
		NotBefore:    opts.NotBefore,
		NotAfter:     notAfter,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	})
	if err != nil {
		return nil, fmt.Errorf("client certificate: %w", err)
	}

	return b, nil
}

// Issue signs template with the bundle CA using a new key. The returned
// certificate carries the leaf followed by the CA.
func (b *Bundle) Issue(template *x509.Certificate) (tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return tls.Certificate{}, err
	}
	template.KeyUsage |= x509.KeyUsageDigitalSignature
	template.BasicConstraintsValid = true

	der, err := x509.CreateCertificate(rand.Reader, template, b.CA, &key.PublicKey, b.CAKey)
	if err != nil {
		return tls.Certificate{}, err
	}
	leaf, err := x509.ParseCertificate(der)
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.Certificate{
		Certificate: [][]byte{der, b.CA.Raw},
		PrivateKey:  key,
		Leaf:        leaf,
	}, nil
}

// ServerConfig returns a responder config. With requireClient the client
// certificate is verified against the bundle CA.
func (b *Bundle) ServerConfig(requireClient bool) *tls.Config {
	cfg := &tls.Config{
		Certificates: []tls.Certificate{b.Server},
		MinVersion:   tls.VersionTLS12,
	}
	if requireClient {
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
		cfg.ClientCAs = b.CAPool
	}
	return cfg
}

// ClientConfig returns an initiator config trusting the bundle CA.
func (b *Bundle) ClientConfig(withCert bool) *tls.Config {
	cfg := &tls.Config{
		RootCAs:    b.CAPool,
		ServerName: b.Server.Leaf.Subject.CommonName,
		MinVersion: tls.VersionTLS12,
	}
	if withCert {
		cfg.Certificates = []tls.Certificate{b.Client}
	}
	return cfg
}

// CAPEM returns the CA certificate in PEM form.
func (b *Bundle) CAPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: b.CA.Raw})
}

// KeyPairPEM returns the certificate chain and private key of c in PEM form.
func KeyPairPEM(c tls.Certificate) (certPEM, keyPEM []byte, err error) {
	for _, der := range c.Certificate {
		certPEM = append(certPEM, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})...)
	}
	keyDER, err := x509.MarshalPKCS8PrivateKey(c.PrivateKey)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal key: %w", err)
	}
	keyPEM = pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: keyDER})
	return certPEM, keyPEM, nil
}
