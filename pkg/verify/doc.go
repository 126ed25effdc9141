// Package verify provides CertificateVerifier implementations for sslconn.
//
// Verifiers are called once per chain depth, root first. Checks that need
// the whole chain, such as path building against a root pool, run when the
// leaf (depth 0) is offered; per-certificate checks run at every depth.
// All verifiers are safe for concurrent use.
package verify
