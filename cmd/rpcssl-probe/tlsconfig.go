package main

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rpcssl/rpcssl-go/internal/pki"
	"github.com/rpcssl/rpcssl-go/pkg/engine"
	"github.com/rpcssl/rpcssl-go/pkg/sslconn"
	"github.com/rpcssl/rpcssl-go/pkg/verify"
)

// Ephemeral hierarchies are written as three files next to each other.
const (
	clientCertSuffix = ".client.crt"
	clientKeySuffix  = ".client.key"
)

// writeEphemeral generates a throwaway hierarchy and writes the CA and a
// client key pair for connect to pick up.
func writeEphemeral(path string) (*pki.Bundle, error) {
	bundle, err := pki.Generate(pki.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("generate ephemeral hierarchy: %w", err)
	}
	certPEM, keyPEM, err := pki.KeyPairPEM(bundle.Client)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, bundle.CAPEM(), 0o644); err != nil {
		return nil, fmt.Errorf("write CA: %w", err)
	}
	if err := os.WriteFile(path+clientCertSuffix, certPEM, 0o644); err != nil {
		return nil, fmt.Errorf("write client certificate: %w", err)
	}
	if err := os.WriteFile(path+clientKeySuffix, keyPEM, 0o600); err != nil {
		return nil, fmt.Errorf("write client key: %w", err)
	}
	return bundle, nil
}

// serverTLS builds the responder configuration and the verifier for client
// certificates.
func serverTLS(opts Options) (*tls.Config, sslconn.CertificateVerifier, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}

	var roots *x509.CertPool
	switch {
	case opts.Ephemeral != "":
		bundle, err := writeEphemeral(opts.Ephemeral)
		if err != nil {
			return nil, nil, err
		}
		cfg.Certificates = []tls.Certificate{bundle.Server}
		roots = bundle.CAPool
	case opts.Cert != "":
		pair, err := verify.LoadKeyPair(opts.Cert, opts.Key)
		if err != nil {
			return nil, nil, err
		}
		cfg.Certificates = []tls.Certificate{pair}
	default:
		return nil, nil, errors.New("serve requires -cert and -key or -ephemeral")
	}

	if opts.CA != "" {
		pool, err := verify.ReadCertPool(opts.CA)
		if err != nil {
			return nil, nil, err
		}
		roots = pool
	}

	if !opts.RequireClientCert {
		return cfg, nil, nil
	}
	if roots == nil {
		return nil, nil, errors.New("-require-client-cert needs -ca or -ephemeral")
	}
	cfg.ClientAuth = tls.RequireAndVerifyClientCert
	cfg.ClientCAs = roots

	pool := verify.NewPool(roots)
	pool.KeyUsages = []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth}
	pool.RequirePreverified = true
	return cfg, pool, nil
}

// clientTLS builds the initiator configuration and the verifier for the
// server chain. sessions is shared by every connection of a run.
func clientTLS(opts Options, sessions tls.ClientSessionCache) (*tls.Config, sslconn.CertificateVerifier, error) {
	cfg := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		ServerName:         opts.ServerName,
		InsecureSkipVerify: opts.Insecure,
		ClientSessionCache: sessions,
	}

	caPath := opts.CA
	certPath, keyPath := opts.Cert, opts.Key
	if opts.Ephemeral != "" {
		if caPath == "" {
			caPath = opts.Ephemeral
		}
		if certPath == "" && exists(opts.Ephemeral+clientCertSuffix) {
			certPath = opts.Ephemeral + clientCertSuffix
			keyPath = opts.Ephemeral + clientKeySuffix
		}
		if cfg.ServerName == "" {
			cfg.ServerName = pki.DefaultOptions().ServerNames[0]
		}
	}

	if certPath != "" {
		pair, err := verify.LoadKeyPair(certPath, keyPath)
		if err != nil {
			return nil, nil, err
		}
		cfg.Certificates = []tls.Certificate{pair}
	}

	var verifiers []sslconn.CertificateVerifier
	if caPath != "" {
		roots, err := verify.ReadCertPool(caPath)
		if err != nil {
			return nil, nil, err
		}
		cfg.RootCAs = roots
		pool := verify.NewPool(roots)
		pool.KeyUsages = []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}
		verifiers = append(verifiers, pool)
	}
	if cfg.ServerName != "" && opts.Insecure {
		// crypto/tls skips the name check along with the chain.
		verifiers = append(verifiers, verify.NewNames(cfg.ServerName))
	}

	switch len(verifiers) {
	case 0:
		return cfg, nil, nil
	case 1:
		return cfg, verifiers[0], nil
	default:
		return cfg, verify.All(verifiers...), nil
	}
}

func newSessionCache(opts Options) tls.ClientSessionCache {
	if opts.Repeat <= 1 {
		return nil
	}
	return engine.NewSessionCache(engine.DefaultSessionCacheSize)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
