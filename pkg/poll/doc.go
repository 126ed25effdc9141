// Package poll waits for socket readiness.
//
// A wait names a descriptor, a direction and a timeout and returns once the
// descriptor is ready, the timeout elapses, or poll(2) fails. Signal
// interruptions are retried internally and never reported to the caller.
//
// # Timeouts
//
//   - Infinite (any negative value) blocks until the descriptor is ready.
//   - Immediate (zero) checks readiness once without blocking.
//   - A positive timeout bounds the total wait, rounded up to milliseconds.
//
// Errors are returned as reported by the operating system. Classifying them
// is the caller's job.
package poll
