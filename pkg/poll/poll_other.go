//go:build !unix

package poll

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
)

// System is unavailable on this platform.
type System struct {
	clock clock.Clock
}

// NewSystem creates a poller that always fails with errors.ErrUnsupported.
func NewSystem(clk clock.Clock) *System {
	if clk == nil {
		clk = clock.New()
	}
	return &System{clock: clk}
}

// Wait implements Poller.
func (s *System) Wait(fd int, dir Direction, timeout time.Duration) (Result, error) {
	return ResultTimedOut, errors.ErrUnsupported
}
