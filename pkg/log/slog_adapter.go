package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes protocol events to an slog.Logger at Debug level.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a SlogAdapter.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("conn_id", event.ConnectionID),
		slog.String("role", event.Role.String()),
		slog.String("category", event.Category.String()),
	}
	if event.RemoteAddr != "" {
		attrs = append(attrs, slog.String("remote", event.RemoteAddr))
	}

	switch {
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_phase", event.StateChange.OldPhase),
			slog.String("new_phase", event.StateChange.NewPhase),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Handshake != nil:
		h := event.Handshake
		attrs = append(attrs,
			slog.String("kind", h.Kind.String()),
			slog.String("outcome", h.Outcome.String()),
			slog.Duration("duration", h.Duration),
			slog.Int("polls", h.Polls),
		)
		if h.Version != "" {
			attrs = append(attrs,
				slog.String("version", h.Version),
				slog.String("cipher_suite", h.CipherSuite),
				slog.Bool("resumed", h.Resumed),
			)
		}
		if h.PeerSubject != "" {
			attrs = append(attrs, slog.String("peer", h.PeerSubject))
		}
	case event.IO != nil:
		attrs = append(attrs,
			slog.String("direction", event.IO.Direction.String()),
			slog.Int("requested", event.IO.Requested),
			slog.Int("transferred", event.IO.Transferred),
			slog.Int("polls", event.IO.Polls),
		)
		if event.IO.PeerClosed {
			attrs = append(attrs, slog.Bool("peer_closed", true))
		}
	case event.Verify != nil:
		attrs = append(attrs,
			slog.Int("depth", event.Verify.Depth),
			slog.String("subject", event.Verify.Subject),
			slog.Bool("preverified", event.Verify.Preverified),
			slog.Bool("accepted", event.Verify.Accepted),
		)
		if event.Verify.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.Verify.Reason))
		}
	case event.Error != nil:
		attrs = append(attrs,
			slog.String("error_kind", event.Error.Kind),
			slog.String("error_op", event.Error.Op),
			slog.String("error_msg", event.Error.Message),
		)
		if event.Error.Code != 0 {
			attrs = append(attrs, slog.Int("error_code", event.Error.Code))
		}
	}

	a.logger.LogAttrs(context.Background(), slog.LevelDebug, "protocol", attrs...)
}

var _ Logger = (*SlogAdapter)(nil)
