// Package sslconn drives TLS connections over non-blocking sockets for the
// RPC transport layer.
//
// A Conn owns one engine.Session and moves it through three phases:
//
//	HANDSHAKE ──► CONNECTED ──► SHUTDOWN
//	    │                          ▲
//	    └──────────────────────────┘
//
// Renegotiate is the only way back from CONNECTED to HANDSHAKE.
//
// Every blocking operation takes an explicit timeout: a negative value waits
// forever, zero makes a single non-blocking attempt, and a positive value is
// the total wall-clock budget of the call. Expiry is reported with a timeout
// error that leaves the connection in a retryable phase.
//
// # Concurrency
//
// Handshake, Connect, Accept, Renegotiate and the close_notify exchange of
// Shutdown are serialised by a claim flag. When several goroutines call
// Handshake at once, exactly one runs the exchange; the others wait and
// return nil once the winner has connected. Application reads and writes may
// run concurrently with each other but never with a handshake.
//
// # Certificate verification
//
// The TLS stack reports peer chains by session handle only. Each Conn
// registers itself under its handle in a process-wide registry that holds
// weak references; the verification callback looks the handle up and asks
// the connection's CertificateVerifier about every certificate in the chain,
// root first. Close unregisters the connection before releasing the session,
// so a callback never observes a half-destroyed connection: it either finds
// a live one or rejects the chain.
//
// # Usage
//
//	sock, _ := socket.FromConn(tcpConn)
//	cfg := sslconn.DefaultConfig()
//	cfg.TLS = tlsConfig
//	conn, err := sslconn.Client(sock, cfg)
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
//
//	if err := conn.Connect(5 * time.Second); err != nil {
//	    return err
//	}
//	n, err := conn.WriteTimeout(request, time.Second)
package sslconn
