package log

import (
	"sync"
	"testing"
	"time"
)

// recorder collects events for tests.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Log(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestMultiLoggerCallsAll(t *testing.T) {
	r1, r2, r3 := &recorder{}, &recorder{}, &recorder{}
	multi := NewMultiLogger(r1, r2, r3)

	multi.Log(Event{Timestamp: time.Now(), ConnectionID: "conn-123", Category: CategoryIO})

	for i, r := range []*recorder{r1, r2, r3} {
		if r.len() != 1 {
			t.Errorf("logger %d: got %d events, want 1", i, r.len())
			continue
		}
		if r.events[0].ConnectionID != "conn-123" {
			t.Errorf("logger %d: ConnectionID = %q", i, r.events[0].ConnectionID)
		}
	}
}

func TestMultiLoggerSkipsNil(t *testing.T) {
	r := &recorder{}
	multi := NewMultiLogger(nil, r, nil)

	multi.Log(Event{ConnectionID: "x"})
	if r.len() != 1 {
		t.Errorf("got %d events, want 1", r.len())
	}
}

func TestMultiLoggerEmptyList(t *testing.T) {
	NewMultiLogger().Log(Event{ConnectionID: "x"})
}

func TestMultiLoggerConcurrent(t *testing.T) {
	r := &recorder{}
	multi := NewMultiLogger(r)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			multi.Log(Event{ConnectionID: "c"})
		}()
	}
	wg.Wait()

	if r.len() != 50 {
		t.Errorf("got %d events, want 50", r.len())
	}
}
