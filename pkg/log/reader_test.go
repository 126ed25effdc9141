package log

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func createTestLogFile(t *testing.T, events []Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.rlog")

	logger, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create test log: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()
	return path
}

func readAll(t *testing.T, r *Reader) []Event {
	t.Helper()
	var out []Event
	for {
		e, err := r.Next()
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		out = append(out, e)
	}
}

func sampleEvents(base time.Time) []Event {
	return []Event{
		{Timestamp: base, ConnectionID: "conn-1", Role: RoleInitiator, Category: CategoryState,
			StateChange: &StateChangeEvent{OldPhase: "HANDSHAKE", NewPhase: "CONNECTED"}},
		{Timestamp: base.Add(time.Second), ConnectionID: "conn-1", Role: RoleInitiator, Category: CategoryIO,
			IO: &IOEvent{Direction: DirectionOut, Requested: 4, Transferred: 4}},
		{Timestamp: base.Add(2 * time.Second), ConnectionID: "conn-2", Role: RoleResponder, Category: CategoryIO,
			RemoteAddr: "10.0.0.2:5000", IO: &IOEvent{Direction: DirectionIn, Requested: 64, Transferred: 4}},
		{Timestamp: base.Add(3 * time.Second), ConnectionID: "conn-2", Role: RoleResponder, Category: CategoryVerify,
			Verify: &VerifyEvent{Depth: 0, Accepted: false}},
		{Timestamp: base.Add(4 * time.Second), ConnectionID: "conn-2", Role: RoleResponder, Category: CategoryError,
			Error: &ErrorEventData{Kind: "HANDSHAKE_FAILURE", Code: 42, Message: "rejected"}},
	}
}

func TestReaderIteratesEvents(t *testing.T) {
	path := createTestLogFile(t, sampleEvents(time.Now()))

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	events := readAll(t, reader)
	if len(events) != 5 {
		t.Fatalf("got %d events, want 5", len(events))
	}
	if events[0].StateChange == nil || events[0].StateChange.NewPhase != "CONNECTED" {
		t.Errorf("first event: %+v", events[0])
	}
	if events[4].Error == nil || events[4].Error.Code != 42 {
		t.Errorf("last event: %+v", events[4])
	}
}

func TestReaderFilters(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, sampleEvents(base))

	responder := RoleResponder
	ioCat := CategoryIO
	out := DirectionOut
	start := base.Add(time.Second)
	end := base.Add(3 * time.Second)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 5},
		{"connection", Filter{ConnectionID: "conn-1"}, 2},
		{"role", Filter{Role: &responder}, 3},
		{"category", Filter{Category: &ioCat}, 2},
		{"direction", Filter{Direction: &out}, 1},
		{"remote", Filter{RemoteAddr: "10.0.0.2:5000"}, 1},
		{"time window", Filter{TimeStart: &start, TimeEnd: &end}, 2},
		{"errors only", Filter{ErrorsOnly: true}, 2},
		{"combined", Filter{ConnectionID: "conn-2", Category: &ioCat}, 1},
		{"no match", Filter{ConnectionID: "nope"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader, err := NewFilteredReader(path, tt.filter)
			if err != nil {
				t.Fatalf("NewFilteredReader failed: %v", err)
			}
			defer reader.Close()

			if got := len(readAll(t, reader)); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestReaderEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.rlog")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestReaderTruncatedFile(t *testing.T) {
	path := createTestLogFile(t, sampleEvents(time.Now())[:1])
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data[:len(data)-3], 0644); err != nil {
		t.Fatal(err)
	}

	reader, err := NewReader(path)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	defer reader.Close()

	if _, err := reader.Next(); err == nil || err == io.EOF {
		t.Errorf("expected a decode error, got %v", err)
	}
}

func TestNewReaderMissingFile(t *testing.T) {
	if _, err := NewReader(filepath.Join(t.TempDir(), "missing.rlog")); err == nil {
		t.Error("expected error for missing file")
	}
}
