package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rpcssl/rpcssl-go/pkg/log"
)

// FilterOptions specifies filtering criteria for the view and filter
// commands. Empty fields match everything.
type FilterOptions struct {
	Output string

	// ConnID matches a full connection ID or a prefix of one.
	ConnID     string
	Role       string
	Category   string
	Direction  string
	RemoteAddr string
	TimeStart  string
	TimeEnd    string
	ErrorsOnly bool
}

// selector combines a log.Filter with connection ID prefix matching.
type selector struct {
	filter   log.Filter
	idPrefix string
}

func (s *selector) matches(event log.Event) bool {
	if s.idPrefix != "" && !strings.HasPrefix(event.ConnectionID, s.idPrefix) {
		return false
	}
	return s.filter.Matches(event)
}

func buildSelector(opts FilterOptions) (*selector, error) {
	s := &selector{
		filter: log.Filter{
			RemoteAddr: opts.RemoteAddr,
			ErrorsOnly: opts.ErrorsOnly,
		},
		idPrefix: strings.ToLower(opts.ConnID),
	}

	if opts.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeStart)
		if err != nil {
			return nil, fmt.Errorf("invalid time-start format: %w", err)
		}
		s.filter.TimeStart = &t
	}

	if opts.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, opts.TimeEnd)
		if err != nil {
			return nil, fmt.Errorf("invalid time-end format: %w", err)
		}
		s.filter.TimeEnd = &t
	}

	if opts.Role != "" {
		r, err := parseRole(opts.Role)
		if err != nil {
			return nil, err
		}
		s.filter.Role = &r
	}

	if opts.Category != "" {
		c, err := parseCategory(opts.Category)
		if err != nil {
			return nil, err
		}
		s.filter.Category = &c
	}

	if opts.Direction != "" {
		d, err := parseDirection(opts.Direction)
		if err != nil {
			return nil, err
		}
		s.filter.Direction = &d
	}

	return s, nil
}

// RunFilter writes the events of path that match opts to opts.Output and
// returns how many were written.
func RunFilter(path string, opts FilterOptions) (int, error) {
	if opts.Output == "" {
		return 0, fmt.Errorf("output file required")
	}
	sel, err := buildSelector(opts)
	if err != nil {
		return 0, err
	}

	reader, err := log.NewFilteredReader(path, sel.filter)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(opts.Output)
	if err != nil {
		return 0, fmt.Errorf("failed to create output logger: %w", err)
	}

	count := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			logger.Close()
			return count, fmt.Errorf("failed to read event: %w", err)
		}
		if !sel.matches(event) {
			continue
		}
		logger.Log(event)
		count++
	}

	if err := logger.Close(); err != nil {
		return count, fmt.Errorf("failed to write %s: %w", opts.Output, err)
	}
	return count, nil
}

func parseRole(s string) (log.Role, error) {
	switch strings.ToLower(s) {
	case "initiator", "client":
		return log.RoleInitiator, nil
	case "responder", "server":
		return log.RoleResponder, nil
	default:
		return 0, fmt.Errorf("invalid role: %s (must be initiator or responder)", s)
	}
}

func parseCategory(s string) (log.Category, error) {
	c, ok := log.ParseCategory(strings.ToUpper(s))
	if !ok {
		return 0, fmt.Errorf("invalid category: %s (must be state, handshake, io, verify, or error)", s)
	}
	return c, nil
}

func parseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}
