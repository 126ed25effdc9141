// Package commands implements the rpcssl-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/rpcssl/rpcssl-go/pkg/engine"
	"github.com/rpcssl/rpcssl-go/pkg/log"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [conn:id] ROLE CATEGORY label
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [conn:%s] %-9s %-9s %s\n",
		ts, shortenConnID(event.ConnectionID), event.Role, event.Category, eventLabel(event))

	if event.RemoteAddr != "" {
		fmt.Fprintf(w, "  Peer: %s\n", event.RemoteAddr)
	}

	switch {
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Handshake != nil:
		formatHandshakeDetails(w, event.Handshake)
	case event.IO != nil:
		formatIODetails(w, event.IO)
	case event.Verify != nil:
		formatVerifyDetails(w, event.Verify)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w)
}

func eventLabel(event log.Event) string {
	switch {
	case event.StateChange != nil:
		return "Phase"
	case event.Handshake != nil:
		return event.Handshake.Kind.String() + " " + event.Handshake.Outcome.String()
	case event.IO != nil:
		return event.IO.Direction.String()
	case event.Verify != nil:
		if event.Verify.Accepted {
			return "Accepted"
		}
		return "Rejected"
	case event.Error != nil:
		return event.Error.Kind
	}
	return "Unknown"
}

// shortenConnID returns the first 8 characters of the connection ID.
func shortenConnID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldPhase != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldPhase, sc.NewPhase)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewPhase)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatHandshakeDetails(w io.Writer, hs *log.HandshakeEvent) {
	fmt.Fprintf(w, "  Duration: %s  Polls: %d\n", formatDuration(hs.Duration), hs.Polls)
	if hs.Version != "" {
		fmt.Fprintf(w, "  Version: %s  Cipher: %s\n", hs.Version, hs.CipherSuite)
	}
	if hs.ALPN != "" {
		fmt.Fprintf(w, "  ALPN: %s\n", hs.ALPN)
	}
	if hs.ServerName != "" {
		fmt.Fprintf(w, "  ServerName: %s\n", hs.ServerName)
	}
	if hs.Resumed {
		fmt.Fprintln(w, "  Resumed: yes")
	}
	if hs.PeerSubject != "" {
		fmt.Fprintf(w, "  Peer: %s\n", hs.PeerSubject)
	}
}

func formatIODetails(w io.Writer, e *log.IOEvent) {
	fmt.Fprintf(w, "  Bytes: %d of %d\n", e.Transferred, e.Requested)
	if e.Polls > 0 || e.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s  Polls: %d\n", formatDuration(e.Duration), e.Polls)
	}
	if e.PeerClosed {
		fmt.Fprintln(w, "  Peer closed")
	}
}

func formatVerifyDetails(w io.Writer, v *log.VerifyEvent) {
	fmt.Fprintf(w, "  Depth: %d  Preverified: %t\n", v.Depth, v.Preverified)
	if v.Subject != "" {
		fmt.Fprintf(w, "  Subject: %s\n", v.Subject)
	}
	if v.Issuer != "" {
		fmt.Fprintf(w, "  Issuer: %s\n", v.Issuer)
	}
	if v.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", v.Reason)
	}
}

func formatErrorDetails(w io.Writer, e *log.ErrorEventData) {
	if e.Op != "" {
		fmt.Fprintf(w, "  Op: %s\n", e.Op)
	}
	fmt.Fprintf(w, "  Message: %s\n", e.Message)
	if e.Code != 0 {
		fmt.Fprintf(w, "  Code: %#x (%s)\n", e.Code, engine.CodeText(e.Code))
	}
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// RunView prints the events of path that match opts.
func RunView(path string, opts FilterOptions, output io.Writer) error {
	sel, err := buildSelector(opts)
	if err != nil {
		return err
	}

	reader, err := log.NewFilteredReader(path, sel.filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if !sel.matches(event) {
			continue
		}
		formatEvent(output, event)
	}

	return nil
}
