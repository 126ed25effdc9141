package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rpcssl/rpcssl-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rlog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func sessionEvents(ts time.Time) []log.Event {
	return []log.Event{
		{
			Timestamp:    ts,
			ConnectionID: "abc12345-0000",
			Role:         log.RoleInitiator,
			Category:     log.CategoryHandshake,
			RemoteAddr:   "127.0.0.1:4433",
			Handshake: &log.HandshakeEvent{
				Kind:        log.HandshakeInitial,
				Outcome:     log.OutcomeCompleted,
				Duration:    3 * time.Millisecond,
				Polls:       2,
				Version:     "TLS 1.3",
				CipherSuite: "TLS_AES_128_GCM_SHA256",
			},
		},
		{
			Timestamp:    ts.Add(time.Second),
			ConnectionID: "abc12345-0000",
			Role:         log.RoleInitiator,
			Category:     log.CategoryIO,
			IO:           &log.IOEvent{Direction: log.DirectionOut, Requested: 5, Transferred: 5},
		},
		{
			Timestamp:    ts.Add(2 * time.Second),
			ConnectionID: "def67890-0000",
			Role:         log.RoleResponder,
			Category:     log.CategoryError,
			Error:        &log.ErrorEventData{Kind: "READ_TIMEOUT", Op: "read", Message: "timed out"},
		},
	}
}

func TestExportToJSONL(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 123456000, time.UTC)
	path := createTestLogFile(t, sessionEvents(ts))
	output := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", output); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if first["role"] != "INITIATOR" {
		t.Errorf("expected role INITIATOR, got %v", first["role"])
	}
	if first["category"] != "HANDSHAKE" {
		t.Errorf("expected category HANDSHAKE, got %v", first["category"])
	}
	hs, ok := first["handshake"].(map[string]any)
	if !ok {
		t.Fatal("expected handshake object")
	}
	if hs["outcome"] != "COMPLETED" {
		t.Errorf("expected outcome COMPLETED, got %v", hs["outcome"])
	}
	if hs["version"] != "TLS 1.3" {
		t.Errorf("expected version TLS 1.3, got %v", hs["version"])
	}

	var second map[string]any
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	ev, ok := second["io"].(map[string]any)
	if !ok {
		t.Fatal("expected io object")
	}
	if ev["direction"] != "OUT" {
		t.Errorf("expected direction OUT, got %v", ev["direction"])
	}
}

func TestExportToCSV(t *testing.T) {
	ts := time.Date(2026, 1, 28, 10, 15, 32, 0, time.UTC)
	path := createTestLogFile(t, sessionEvents(ts))
	output := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", output); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(records))
	}
	if records[0][0] != "timestamp" || records[0][5] != "label" {
		t.Errorf("unexpected header: %v", records[0])
	}
	if records[1][5] != "INITIAL COMPLETED" {
		t.Errorf("expected label INITIAL COMPLETED, got %q", records[1][5])
	}
	if records[1][7] != "2" {
		t.Errorf("expected 2 polls, got %q", records[1][7])
	}
	if records[2][6] != "5" {
		t.Errorf("expected 5 bytes, got %q", records[2][6])
	}
	if records[3][5] != "READ_TIMEOUT" {
		t.Errorf("expected label READ_TIMEOUT, got %q", records[3][5])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, nil)

	err := RunExport(path, "xml", "")
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExportMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunView(filepath.Join(t.TempDir(), "missing.rlog"), FilterOptions{}, &buf); err == nil {
		t.Fatal("expected error for missing file")
	}
	if err := RunExport(filepath.Join(t.TempDir(), "missing.rlog"), "jsonl", ""); err == nil {
		t.Fatal("expected error for missing file")
	}
}
