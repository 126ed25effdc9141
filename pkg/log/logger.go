package log

// Logger receives protocol events. Pass nil or NoopLogger to disable
// capture.
type Logger interface {
	// Log records an event. Implementations must be safe for concurrent use
	// and should not block; the caller is usually in the middle of I/O.
	Log(event Event)
}

// NoopLogger discards all events.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

var _ Logger = NoopLogger{}

// Func adapts a function to Logger.
type Func func(Event)

// Log calls f.
func (f Func) Log(event Event) { f(event) }
