package claim

import (
	"context"
	"sync"
)

// State is the state of a Flag.
type State uint8

const (
	// Free means nobody holds the flag.
	Free State = iota

	// Claimed means a caller holds the flag.
	Claimed

	// Completed means nobody holds the flag and the last owner released it
	// after finishing successfully.
	Completed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Free:
		return "FREE"
	case Claimed:
		return "CLAIMED"
	case Completed:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// Flag is a mutex-guarded claim flag. The zero value is a free flag.
// A Flag must not be copied after first use.
type Flag struct {
	mu    sync.Mutex
	state State

	// released is closed when a claimed flag is released.
	released chan struct{}
}

// CheckAndSet claims the flag if it is not already claimed and reports
// whether this call performed the transition.
func (f *Flag) CheckAndSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == Claimed {
		return false
	}
	f.claimLocked()
	return true
}

// Check reports whether the flag is currently claimed.
func (f *Flag) Check() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == Claimed
}

// Set claims the flag unconditionally.
func (f *Flag) Set() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Claimed {
		f.claimLocked()
	}
}

// Unset frees the flag and wakes all waiters.
func (f *Flag) Unset() {
	f.release(Free)
}

// State returns the current state.
func (f *Flag) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Wait blocks while the flag is claimed and returns the state observed once
// it is released. It returns ctx.Err() if ctx ends first.
func (f *Flag) Wait(ctx context.Context) (State, error) {
	for {
		f.mu.Lock()
		if f.state != Claimed {
			state := f.state
			f.mu.Unlock()
			return state, nil
		}
		released := f.released
		f.mu.Unlock()

		select {
		case <-released:
		case <-ctx.Done():
			return Claimed, ctx.Err()
		}
	}
}

func (f *Flag) claimLocked() {
	f.state = Claimed
	f.released = make(chan struct{})
}

func (f *Flag) release(to State) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Claimed {
		// Releasing a free flag only records the outcome.
		f.state = to
		return
	}
	f.state = to
	close(f.released)
	f.released = nil
}
