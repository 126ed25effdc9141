package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rpcssl/rpcssl-go/pkg/log"
)

// exportEvent is the JSON form of an event. Enumerations are written by
// name.
type exportEvent struct {
	Timestamp    time.Time `json:"timestamp"`
	ConnectionID string    `json:"connectionId"`
	Role         string    `json:"role"`
	Category     string    `json:"category"`
	LocalAddr    string    `json:"localAddr,omitempty"`
	RemoteAddr   string    `json:"remoteAddr,omitempty"`

	StateChange *log.StateChangeEvent `json:"stateChange,omitempty"`
	Handshake   *exportHandshake      `json:"handshake,omitempty"`
	IO          *exportIO             `json:"io,omitempty"`
	Verify      *log.VerifyEvent      `json:"verify,omitempty"`
	Error       *log.ErrorEventData   `json:"error,omitempty"`
}

type exportHandshake struct {
	Kind        string `json:"kind"`
	Outcome     string `json:"outcome"`
	DurationNS  int64  `json:"durationNs"`
	Polls       int    `json:"polls"`
	Version     string `json:"version,omitempty"`
	CipherSuite string `json:"cipherSuite,omitempty"`
	ALPN        string `json:"alpn,omitempty"`
	ServerName  string `json:"serverName,omitempty"`
	Resumed     bool   `json:"resumed,omitempty"`
	PeerSubject string `json:"peerSubject,omitempty"`
}

type exportIO struct {
	Direction   string `json:"direction"`
	Requested   int    `json:"requested"`
	Transferred int    `json:"transferred"`
	Polls       int    `json:"polls,omitempty"`
	DurationNS  int64  `json:"durationNs,omitempty"`
	PeerClosed  bool   `json:"peerClosed,omitempty"`
}

func toExport(e log.Event) exportEvent {
	out := exportEvent{
		Timestamp:    e.Timestamp.UTC(),
		ConnectionID: e.ConnectionID,
		Role:         e.Role.String(),
		Category:     e.Category.String(),
		LocalAddr:    e.LocalAddr,
		RemoteAddr:   e.RemoteAddr,
		StateChange:  e.StateChange,
		Verify:       e.Verify,
		Error:        e.Error,
	}
	if hs := e.Handshake; hs != nil {
		out.Handshake = &exportHandshake{
			Kind:        hs.Kind.String(),
			Outcome:     hs.Outcome.String(),
			DurationNS:  int64(hs.Duration),
			Polls:       hs.Polls,
			Version:     hs.Version,
			CipherSuite: hs.CipherSuite,
			ALPN:        hs.ALPN,
			ServerName:  hs.ServerName,
			Resumed:     hs.Resumed,
			PeerSubject: hs.PeerSubject,
		}
	}
	if ev := e.IO; ev != nil {
		out.IO = &exportIO{
			Direction:   ev.Direction.String(),
			Requested:   ev.Requested,
			Transferred: ev.Transferred,
			Polls:       ev.Polls,
			DurationNS:  int64(ev.Duration),
			PeerClosed:  ev.PeerClosed,
		}
	}
	return out
}

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(toExport(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "connection_id", "role", "category", "remote_addr", "label", "bytes", "polls", "duration_ns", "code"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		var bytes, polls, duration, code string
		switch {
		case event.Handshake != nil:
			polls = strconv.Itoa(event.Handshake.Polls)
			duration = strconv.FormatInt(int64(event.Handshake.Duration), 10)
		case event.IO != nil:
			bytes = strconv.Itoa(event.IO.Transferred)
			polls = strconv.Itoa(event.IO.Polls)
			duration = strconv.FormatInt(int64(event.IO.Duration), 10)
		case event.Error != nil:
			code = strconv.Itoa(event.Error.Code)
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.ConnectionID,
			event.Role.String(),
			event.Category.String(),
			event.RemoteAddr,
			eventLabel(event),
			bytes,
			polls,
			duration,
			code,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return cw.Error()
}
