package log

import (
	"time"

	"github.com/google/uuid"
)

// Logger is the interface applications implement to receive transaction events.
// Pass nil or NoopLogger to disable logging.
type Logger interface {
	// Log records an event. Implementations must be thread-safe.
	// The event should be processed quickly or queued; blocking affects performance.
	Log(event Event)
}

// NoopLogger discards all events. Use when logging is disabled.
// NoopLogger is safe for concurrent use and usable as a zero value.
type NoopLogger struct{}

// Log discards the event.
func (NoopLogger) Log(Event) {}

// Session stamps events with a session ID, backend URL and timestamp before
// handing them to the wrapped logger.
type Session struct {
	id      string
	backend string
	logger  Logger
}

// NewSession creates a session with a fresh UUID. A nil logger discards
// events.
func NewSession(logger Logger, backend string) *Session {
	if logger == nil {
		logger = NoopLogger{}
	}
	return &Session{
		id:      uuid.New().String(),
		backend: backend,
		logger:  logger,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Log fills in the session fields and forwards the event.
func (s *Session) Log(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.SessionID == "" {
		event.SessionID = s.id
	}
	if event.Backend == "" {
		event.Backend = s.backend
	}
	s.logger.Log(event)
}

// Compile-time interface satisfaction checks.
var (
	_ Logger = NoopLogger{}
	_ Logger = (*Session)(nil)
)
