package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rpcssl/rpcssl-go/pkg/log"
)

func TestStatsAggregates(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	events := append(sessionEvents(ts),
		log.Event{
			Timestamp:    ts.Add(3 * time.Second),
			ConnectionID: "abc12345-0000",
			Role:         log.RoleInitiator,
			Category:     log.CategoryIO,
			IO:           &log.IOEvent{Direction: log.DirectionIn, Requested: 64, Transferred: 7},
		},
		log.Event{
			Timestamp:    ts.Add(4 * time.Second),
			ConnectionID: "def67890-0000",
			Role:         log.RoleResponder,
			Category:     log.CategoryVerify,
			Verify:       &log.VerifyEvent{Depth: 0, Accepted: false},
		},
	)
	path := createTestLogFile(t, events)

	stats, err := CollectStats(path)
	if err != nil {
		t.Fatalf("CollectStats failed: %v", err)
	}

	if stats.TotalEvents != 5 {
		t.Errorf("expected 5 events, got %d", stats.TotalEvents)
	}
	if len(stats.Connections) != 2 {
		t.Errorf("expected 2 connections, got %d", len(stats.Connections))
	}
	if stats.BytesIn != 7 || stats.BytesOut != 5 {
		t.Errorf("expected 7 in / 5 out, got %d / %d", stats.BytesIn, stats.BytesOut)
	}
	if stats.Handshakes[log.OutcomeCompleted] != 1 {
		t.Errorf("expected 1 completed handshake, got %d", stats.Handshakes[log.OutcomeCompleted])
	}
	if stats.Rejections != 1 {
		t.Errorf("expected 1 rejection, got %d", stats.Rejections)
	}
	if stats.Errors["READ_TIMEOUT"] != 1 {
		t.Errorf("expected 1 READ_TIMEOUT, got %d", stats.Errors["READ_TIMEOUT"])
	}
	if conn := stats.Connections["abc12345-0000"]; conn == nil || conn.Version != "TLS 1.3" {
		t.Errorf("expected negotiated version on abc12345, got %+v", conn)
	}
}

func TestStatsOutput(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	path := createTestLogFile(t, sessionEvents(ts))

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	output := buf.String()

	for _, want := range []string{
		"Total Events: 3",
		"HANDSHAKE:",
		"ERROR:",
		"COMPLETED:",
		"Connections: 2",
		"[abc12345]",
		"Peer: 127.0.0.1:4433",
		"READ_TIMEOUT:",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestStatsEmptyFile(t *testing.T) {
	path := createTestLogFile(t, nil)

	var buf bytes.Buffer
	if err := RunStats(path, &buf); err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Total Events: 0") {
		t.Errorf("expected zero events:\n%s", buf.String())
	}
}
