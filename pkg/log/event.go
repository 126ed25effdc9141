package log

import "time"

// Event is one captured protocol event.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred.
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID is the session handle of the connection.
	ConnectionID string `cbor:"2,keyasint"`

	// Role of the local endpoint.
	Role Role `cbor:"3,keyasint"`

	// Category selects the payload.
	Category Category `cbor:"4,keyasint"`

	LocalAddr  string `cbor:"5,keyasint,omitempty"`
	RemoteAddr string `cbor:"6,keyasint,omitempty"`

	StateChange *StateChangeEvent `cbor:"10,keyasint,omitempty"`
	Handshake   *HandshakeEvent   `cbor:"11,keyasint,omitempty"`
	IO          *IOEvent          `cbor:"12,keyasint,omitempty"`
	Verify      *VerifyEvent      `cbor:"13,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"`
}

// Role is the handshake role of the local endpoint.
type Role uint8

const (
	// RoleInitiator is the TLS client.
	RoleInitiator Role = 0
	// RoleResponder is the TLS server.
	RoleResponder Role = 1
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleInitiator:
		return "INITIATOR"
	case RoleResponder:
		return "RESPONDER"
	default:
		return "UNKNOWN"
	}
}

// Category classifies events.
type Category uint8

const (
	CategoryState     Category = 0
	CategoryHandshake Category = 1
	CategoryIO        Category = 2
	CategoryVerify    Category = 3
	CategoryError     Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategoryHandshake:
		return "HANDSHAKE"
	case CategoryIO:
		return "IO"
	case CategoryVerify:
		return "VERIFY"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseCategory is the inverse of Category.String. It is case sensitive.
func ParseCategory(s string) (Category, bool) {
	for c := CategoryState; c <= CategoryError; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return 0, false
}

// Direction is the direction of application data.
type Direction uint8

const (
	// DirectionIn is data read from the peer.
	DirectionIn Direction = 0
	// DirectionOut is data written to the peer.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent records a phase transition.
type StateChangeEvent struct {
	OldPhase string `cbor:"1,keyasint,omitempty"`
	NewPhase string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// HandshakeKind distinguishes the initial handshake from renegotiation.
type HandshakeKind uint8

const (
	HandshakeInitial     HandshakeKind = 0
	HandshakeRenegotiate HandshakeKind = 1
	HandshakeCloseNotify HandshakeKind = 2
)

// String returns the kind name.
func (k HandshakeKind) String() string {
	switch k {
	case HandshakeInitial:
		return "INITIAL"
	case HandshakeRenegotiate:
		return "RENEGOTIATE"
	case HandshakeCloseNotify:
		return "CLOSE_NOTIFY"
	default:
		return "UNKNOWN"
	}
}

// Outcome is the result of a handshake or shutdown exchange.
type Outcome uint8

const (
	// OutcomeCompleted means this caller ran the exchange to completion.
	OutcomeCompleted Outcome = 0

	// OutcomeJoined means a concurrent caller completed it.
	OutcomeJoined Outcome = 1

	OutcomeTimedOut Outcome = 2
	OutcomeFailed   Outcome = 3
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeCompleted:
		return "COMPLETED"
	case OutcomeJoined:
		return "JOINED"
	case OutcomeTimedOut:
		return "TIMED_OUT"
	case OutcomeFailed:
		return "FAILED"
	default:
		return "UNKNOWN"
	}
}

// HandshakeEvent records the end of a handshake, renegotiation or
// close_notify exchange.
type HandshakeEvent struct {
	Kind    HandshakeKind `cbor:"1,keyasint"`
	Outcome Outcome       `cbor:"2,keyasint"`

	// Duration is the wall-clock time spent by this caller.
	Duration time.Duration `cbor:"3,keyasint"`

	// Polls is the number of readiness waits.
	Polls int `cbor:"4,keyasint,omitempty"`

	// Negotiated parameters, set when Outcome is OutcomeCompleted.
	Version     string `cbor:"5,keyasint,omitempty"`
	CipherSuite string `cbor:"6,keyasint,omitempty"`
	ALPN        string `cbor:"7,keyasint,omitempty"`
	ServerName  string `cbor:"8,keyasint,omitempty"`
	Resumed     bool   `cbor:"9,keyasint,omitempty"`
	PeerSubject string `cbor:"10,keyasint,omitempty"`
}

// IOEvent records one application read or write.
type IOEvent struct {
	Direction Direction `cbor:"1,keyasint"`

	// Requested is the caller's buffer length.
	Requested int `cbor:"2,keyasint"`

	// Transferred is the number of bytes moved.
	Transferred int `cbor:"3,keyasint"`

	Polls    int           `cbor:"4,keyasint,omitempty"`
	Duration time.Duration `cbor:"5,keyasint,omitempty"`

	// PeerClosed is set when the read observed a clean shutdown.
	PeerClosed bool `cbor:"6,keyasint,omitempty"`
}

// VerifyEvent records one certificate verifier verdict.
type VerifyEvent struct {
	Depth       int    `cbor:"1,keyasint"`
	Subject     string `cbor:"2,keyasint,omitempty"`
	Issuer      string `cbor:"3,keyasint,omitempty"`
	Preverified bool   `cbor:"4,keyasint,omitempty"`
	Accepted    bool   `cbor:"5,keyasint"`

	// Reason explains a rejection that did not come from the verifier.
	Reason string `cbor:"6,keyasint,omitempty"`
}

// ErrorEventData records a failed operation.
type ErrorEventData struct {
	// Kind is the error taxonomy name, e.g. HANDSHAKE_FAILURE.
	Kind string `cbor:"1,keyasint"`

	// Op is the operation that failed.
	Op string `cbor:"2,keyasint,omitempty"`

	// Code is the native error code (0 when none).
	Code int `cbor:"3,keyasint,omitempty"`

	Message string `cbor:"4,keyasint"`
}
