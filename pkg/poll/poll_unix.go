//go:build unix

package poll

import (
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sys/unix"
)

const (
	pollEventRead  = unix.POLLIN | unix.POLLPRI
	pollEventWrite = unix.POLLOUT
	pollEventError = unix.POLLERR | unix.POLLHUP
)

// System waits with poll(2).
// It is safe for concurrent use.
type System struct {
	clock clock.Clock
}

// NewSystem creates a poll(2) based poller. The clock measures the budget
// left after a signal interrupts a wait; nil selects the wall clock.
func NewSystem(clk clock.Clock) *System {
	if clk == nil {
		clk = clock.New()
	}
	return &System{clock: clk}
}

// Wait implements Poller.
func (s *System) Wait(fd int, dir Direction, timeout time.Duration) (Result, error) {
	events := int16(pollEventRead)
	if dir == DirectionWrite {
		events = pollEventWrite
	}

	var deadline time.Time
	if timeout > 0 {
		deadline = s.clock.Now().Add(timeout)
	}

	remaining := timeout
	for {
		fds := []unix.PollFd{{Fd: int32(fd), Events: events}}
		n, err := unix.Poll(fds, toMillis(remaining))
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				if timeout > 0 {
					remaining = deadline.Sub(s.clock.Now())
					if remaining <= 0 {
						return ResultTimedOut, nil
					}
				}
				continue
			}
			return ResultTimedOut, fmt.Errorf("poll fd %d: %w", fd, err)
		}
		if n == 0 {
			return ResultTimedOut, nil
		}

		revents := fds[0].Revents
		if revents&unix.POLLNVAL != 0 {
			return ResultTimedOut, fmt.Errorf("poll fd %d: %w", fd, unix.EBADF)
		}
		// Errors and hangups count as ready; the next read or write reports them.
		if revents&(events|pollEventError) != 0 {
			return ResultReady, nil
		}
		return ResultTimedOut, nil
	}
}
