// Package log captures structured protocol events from TLS connections.
//
// Protocol capture is separate from operational logging (slog). It records a
// machine-readable trace of every phase change, handshake, transfer,
// verification verdict and error so that a session can be analysed after
// the fact.
//
// # Basic Usage
//
// Connections publish events to the Logger set in their configuration:
//
//	// For development: log to console via slog
//	cfg.ProtocolLogger = log.NewSlogAdapter(slog.Default())
//
//	// For production: append to a binary file
//	cfg.ProtocolLogger, _ = log.NewFileLogger("/var/log/rpcssl/server.rlog")
//
//	// Both
//	cfg.ProtocolLogger = log.NewMultiLogger(console, file)
//
// # Event Types
//
// Every Event carries exactly one payload, matching its Category:
//   - CategoryState: StateChangeEvent (phase transitions)
//   - CategoryHandshake: HandshakeEvent (outcome, duration, negotiated parameters)
//   - CategoryIO: IOEvent (application reads and writes)
//   - CategoryVerify: VerifyEvent (one per certificate verifier call)
//   - CategoryError: ErrorEventData
//
// # File Format
//
// Log files are a sequence of CBOR-encoded events with integer keys, usually
// named with the .rlog extension. The rpcssl-log tool views, filters,
// exports and summarises them.
package log
