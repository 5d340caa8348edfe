package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes transaction events to an slog.Logger.
// Useful for development when you want to see register traffic in the console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger at Debug level; error events are
// written at Warn level.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("session_id", event.SessionID),
		slog.String("direction", event.Direction.String()),
		slog.String("layer", event.Layer.String()),
		slog.String("category", event.Category.String()),
	}

	if event.Address != "" {
		attrs = append(attrs, slog.String("address", event.Address))
	}

	level := slog.LevelDebug

	switch {
	case event.Exchange != nil:
		ex := event.Exchange
		attrs = append(attrs,
			slog.Uint64("seq", uint64(ex.Sequence)),
			slog.String("msg_type", ex.Type.String()),
			slog.String("operation", ex.Operation.String()),
		)
		if ex.Size > 0 {
			attrs = append(attrs, slog.Int("size", ex.Size))
		}
		if ex.Data != "" {
			attrs = append(attrs, slog.String("data", ex.Data))
		}
		if ex.StatusCode != 0 {
			attrs = append(attrs, slog.Int("status", ex.StatusCode))
		}
		if ex.Duration != nil {
			attrs = append(attrs, slog.Duration("duration", *ex.Duration))
		}
	case event.StateChange != nil:
		attrs = append(attrs,
			slog.String("old_state", event.StateChange.OldState),
			slog.String("new_state", event.StateChange.NewState),
		)
		if event.StateChange.Reason != "" {
			attrs = append(attrs, slog.String("reason", event.StateChange.Reason))
		}
	case event.Error != nil:
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("error_layer", event.Error.Layer.String()),
			slog.String("error_msg", event.Error.Message),
			slog.String("error_context", event.Error.Context),
		)
		if event.Error.Code != nil {
			attrs = append(attrs, slog.Int("error_code", *event.Error.Code))
		}
	}

	a.logger.LogAttrs(context.Background(), level, "register", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
