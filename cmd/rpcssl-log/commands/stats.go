package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rpcssl/rpcssl-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	EventsByRole     map[log.Role]int
	Handshakes       map[log.Outcome]int
	BytesIn          int
	BytesOut         int
	Rejections       int
	Errors           map[string]int
	Connections      map[string]*ConnectionStats
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// ConnectionStats holds statistics for a single connection.
type ConnectionStats struct {
	FirstSeen  time.Time
	LastSeen   time.Time
	Events     int
	Role       log.Role
	RemoteAddr string
	Version    string
	Handshake  time.Duration
	LastPhase  string
}

// CollectStats reads every event of path.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		EventsByRole:     make(map[log.Role]int),
		Handshakes:       make(map[log.Outcome]int),
		Errors:           make(map[string]int),
		Connections:      make(map[string]*ConnectionStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}
	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByCategory[event.Category]++
	s.EventsByRole[event.Role]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	conn, ok := s.Connections[event.ConnectionID]
	if !ok {
		conn = &ConnectionStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
			Role:      event.Role,
		}
		s.Connections[event.ConnectionID] = conn
	}
	conn.Events++
	if event.Timestamp.After(conn.LastSeen) {
		conn.LastSeen = event.Timestamp
	}
	if event.RemoteAddr != "" && conn.RemoteAddr == "" {
		conn.RemoteAddr = event.RemoteAddr
	}

	switch {
	case event.StateChange != nil:
		conn.LastPhase = event.StateChange.NewPhase
	case event.Handshake != nil:
		hs := event.Handshake
		if hs.Kind != log.HandshakeCloseNotify {
			s.Handshakes[hs.Outcome]++
		}
		if hs.Outcome == log.OutcomeCompleted && hs.Version != "" {
			conn.Version = hs.Version
			conn.Handshake = hs.Duration
		}
	case event.IO != nil:
		if event.IO.Direction == log.DirectionIn {
			s.BytesIn += event.IO.Transferred
		} else {
			s.BytesOut += event.IO.Transferred
		}
	case event.Verify != nil:
		if !event.Verify.Accepted {
			s.Rejections++
		}
	case event.Error != nil:
		s.Errors[event.Error.Kind]++
	}
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== rpcssl Protocol Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for cat := log.CategoryState; cat <= log.CategoryError; cat++ {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Handshakes:")
	for _, o := range []log.Outcome{log.OutcomeCompleted, log.OutcomeJoined, log.OutcomeTimedOut, log.OutcomeFailed} {
		if count := stats.Handshakes[o]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", o.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Application Data: %d bytes in, %d bytes out\n", stats.BytesIn, stats.BytesOut)
	if stats.Rejections > 0 {
		fmt.Fprintf(w, "Certificate Rejections: %d\n", stats.Rejections)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Connections: %d\n", len(stats.Connections))
	if len(stats.Connections) > 0 {
		type connInfo struct {
			id    string
			stats *ConnectionStats
		}
		conns := make([]connInfo, 0, len(stats.Connections))
		for id, cs := range stats.Connections {
			conns = append(conns, connInfo{id, cs})
		}
		sort.Slice(conns, func(i, j int) bool {
			return conns[i].stats.FirstSeen.Before(conns[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, c := range conns {
			duration := c.stats.LastSeen.Sub(c.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %s %d events, duration %s\n",
				shortenConnID(c.id), c.stats.Role, c.stats.Events, duration)
			if c.stats.RemoteAddr != "" {
				fmt.Fprintf(w, "           Peer: %s\n", c.stats.RemoteAddr)
			}
			if c.stats.Version != "" {
				fmt.Fprintf(w, "           %s, handshake %s\n", c.stats.Version, formatDuration(c.stats.Handshake))
			}
			if c.stats.LastPhase != "" {
				fmt.Fprintf(w, "           Phase: %s\n", c.stats.LastPhase)
			}
		}
	}

	if len(stats.Errors) > 0 {
		kinds := make([]string, 0, len(stats.Errors))
		for k := range stats.Errors {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)

		fmt.Fprintln(w)
		fmt.Fprintln(w, "Errors:")
		for _, k := range kinds {
			fmt.Fprintf(w, "  %-24s %d\n", k+":", stats.Errors[k])
		}
	}
}
