package poll

import (
	"time"
)

// Timeout sentinels.
const (
	// Infinite blocks until the descriptor is ready.
	Infinite time.Duration = -1

	// Immediate checks readiness once without blocking.
	Immediate time.Duration = 0
)

// Direction selects the readiness condition to wait for.
type Direction uint8

const (
	// DirectionRead waits until the descriptor is readable.
	DirectionRead Direction = iota

	// DirectionWrite waits until the descriptor is writable.
	DirectionWrite
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionRead:
		return "READ"
	case DirectionWrite:
		return "WRITE"
	default:
		return "UNKNOWN"
	}
}

// Result is the outcome of a successful wait.
type Result uint8

const (
	// ResultReady means the descriptor is ready in the requested direction.
	ResultReady Result = iota

	// ResultTimedOut means the timeout elapsed first.
	ResultTimedOut
)

// String returns the result name.
func (r Result) String() string {
	switch r {
	case ResultReady:
		return "READY"
	case ResultTimedOut:
		return "TIMED_OUT"
	default:
		return "UNKNOWN"
	}
}

// Poller waits for descriptor readiness.
// Implemented by System and Func.
type Poller interface {
	// Wait blocks until fd is ready for dir, timeout elapses, or an error
	// occurs. See the package documentation for timeout semantics.
	Wait(fd int, dir Direction, timeout time.Duration) (Result, error)
}

// Func adapts an ordinary function to the Poller interface.
type Func func(fd int, dir Direction, timeout time.Duration) (Result, error)

// Wait calls f(fd, dir, timeout).
func (f Func) Wait(fd int, dir Direction, timeout time.Duration) (Result, error) {
	return f(fd, dir, timeout)
}

// Default is the poller used when none is configured.
var Default Poller = NewSystem(nil)

// Wait waits on fd using the Default poller.
func Wait(fd int, dir Direction, timeout time.Duration) (Result, error) {
	return Default.Wait(fd, dir, timeout)
}

// toMillis converts a timeout into the millisecond argument poll(2) expects,
// rounding positive values up so a short timeout never becomes a busy poll.
func toMillis(d time.Duration) int {
	switch {
	case d < 0:
		return -1
	case d == 0:
		return 0
	}
	ms := d / time.Millisecond
	if d%time.Millisecond != 0 {
		ms++
	}
	const maxMillis = 1<<31 - 1
	if ms > maxMillis {
		return maxMillis
	}
	return int(ms)
}

// Compile-time interface satisfaction checks.
var (
	_ Poller = (*System)(nil)
	_ Poller = Func(nil)
)
