// Package engine adapts crypto/tls to a step-wise, event-coded session API.
//
// A crypto/tls connection expects to own a blocking net.Conn. Callers that
// multiplex many connections over non-blocking sockets instead want every
// operation to return as soon as it would have to wait, together with the
// direction it is waiting for. Session provides that contract:
//
//	for {
//	    st, err := sess.Handshake()
//	    switch st {
//	    case engine.StatusOK:
//	        return nil
//	    case engine.StatusWantRead:
//	        poll.Wait(sess.FD(), poll.DirectionRead, timeout)
//	    case engine.StatusWantWrite:
//	        poll.Wait(sess.FD(), poll.DirectionWrite, timeout)
//	    default:
//	        return err
//	    }
//	}
//
// Internally the tls.Conn runs over an in-memory transport. Operations that
// may block inside crypto/tls (handshake, record reads) execute on a worker
// goroutine; each call moves ciphertext between the memory transport and
// the socket until the operation finishes or the socket would block. An
// unfinished operation is resumed by the next call with the same method.
//
// # Error codes
//
// LastError reports a numeric code for the most recent failure:
//
//   - errno values for socket failures (StatusSyscall)
//   - CodeAlertBase | alert for TLS alerts
//   - the Code* constants for everything else
//
// # Certificate verification
//
// When Options.Verify is set, every presented peer chain is passed to it
// together with the session Handle. The callback does not receive the
// session itself; callers that need the owning object look it up by handle.
package engine
