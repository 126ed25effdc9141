// Package backoff computes exponential retry delays and runs retry loops
// for callers of the connection engine. The engine itself never retries a
// timed out handshake.
package backoff

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Defaults used by New.
const (
	InitialDelay = 100 * time.Millisecond
	MaxDelay     = 10 * time.Second
	Multiplier   = 2.0

	// Jitter is the maximum extra delay as a fraction of the base delay.
	Jitter = 0.25
)

// Config customizes a Backoff. Zero fields take the defaults, except
// Jitter where zero disables jitter.
type Config struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
	Jitter     float64
}

// DefaultConfig returns the default parameters.
func DefaultConfig() Config {
	return Config{
		Initial:    InitialDelay,
		Max:        MaxDelay,
		Multiplier: Multiplier,
		Jitter:     Jitter,
	}
}

// Backoff hands out growing delays. It is safe for concurrent use.
type Backoff struct {
	mu sync.Mutex

	cfg      Config
	current  time.Duration
	attempts int
	rng      *rand.Rand
}

// New returns a Backoff with cfg.
func New(cfg Config) *Backoff {
	if cfg.Initial <= 0 {
		cfg.Initial = InitialDelay
	}
	if cfg.Max < cfg.Initial {
		cfg.Max = max(MaxDelay, cfg.Initial)
	}
	if cfg.Multiplier <= 1 {
		cfg.Multiplier = Multiplier
	}
	if cfg.Jitter < 0 {
		cfg.Jitter = 0
	}
	return &Backoff{
		cfg:     cfg,
		current: cfg.Initial,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Next returns the next delay, jitter included, and advances the base.
func (b *Backoff) Next() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	d := b.current
	if b.cfg.Jitter > 0 {
		d += time.Duration(float64(d) * b.cfg.Jitter * b.rng.Float64())
	}

	b.attempts++
	b.current = min(time.Duration(float64(b.current)*b.cfg.Multiplier), b.cfg.Max)
	return d
}

// Current returns the base delay that Next will use.
func (b *Backoff) Current() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Attempts returns how many delays were handed out since the last Reset.
func (b *Backoff) Attempts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.attempts
}

// Reset starts over from the initial delay.
func (b *Backoff) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = b.cfg.Initial
	b.attempts = 0
}

// Retry calls fn until it succeeds, returns an error retryable rejects, or
// retries extra attempts have failed. Between attempts it waits b.Next()
// on clk. The last error is returned; a cancelled ctx returns ctx.Err().
func Retry(ctx context.Context, clk clock.Clock, b *Backoff, retries int, retryable func(error) bool, fn func(context.Context) error) error {
	if clk == nil {
		clk = clock.New()
	}
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil || attempt >= retries || !retryable(err) {
			return err
		}

		t := clk.Timer(b.Next())
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}
