package sslconn

import "sync/atomic"

// Phase is the lifecycle phase of a Conn.
type Phase int32

const (
	// PhaseHandshake is the initial phase. It is re-entered only by
	// Renegotiate.
	PhaseHandshake Phase = iota

	// PhaseShutdown is terminal. Reads may still drain data the peer sent
	// before its close_notify; writes are refused.
	PhaseShutdown

	// PhaseConnected allows application data in both directions.
	PhaseConnected
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseHandshake:
		return "HANDSHAKE"
	case PhaseShutdown:
		return "SHUTDOWN"
	case PhaseConnected:
		return "CONNECTED"
	default:
		return "UNKNOWN"
	}
}

// phaseValue stores a Phase. It only changes by compare-and-swap.
type phaseValue struct {
	v atomic.Int32
}

func (p *phaseValue) load() Phase {
	return Phase(p.v.Load())
}

func (p *phaseValue) cas(from, to Phase) bool {
	return p.v.CompareAndSwap(int32(from), int32(to))
}

// shutdown moves any phase to PhaseShutdown and returns the phase it left.
func (p *phaseValue) shutdown() Phase {
	for {
		old := p.load()
		if old == PhaseShutdown || p.cas(old, PhaseShutdown) {
			return old
		}
	}
}
