package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/vitolink/regconsole/pkg/editor"
	"github.com/vitolink/regconsole/pkg/log"
)

const (
	sessionCookie      = "regconsole_session"
	sessionIdleTimeout = 30 * time.Minute
)

// session is one browser's editor.
type session struct {
	id     string
	editor *editor.Editor

	mu       sync.Mutex
	lastSeen time.Time
	flash    string
}

// setFlash stores a message shown once on the next page render.
func (s *session) setFlash(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flash = msg
}

// takeFlash returns and clears the pending message.
func (s *session) takeFlash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.flash
	s.flash = ""
	return msg
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// sessionRegistry maps session cookies to editors. Sessions idle for longer
// than the timeout are dropped.
type sessionRegistry struct {
	logger    log.Logger
	backend   string
	newEditor func(logger log.Logger) *editor.Editor
	idle      time.Duration
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func newSessionRegistry(logger log.Logger, backend string, newEditor func(log.Logger) *editor.Editor) *sessionRegistry {
	return &sessionRegistry{
		logger:    logger,
		backend:   backend,
		newEditor: newEditor,
		idle:      sessionIdleTimeout,
		now:       time.Now,
		sessions:  make(map[string]*session),
	}
}

// get returns the session of the request, creating one and setting its
// cookie when there is none.
func (r *sessionRegistry) get(w http.ResponseWriter, req *http.Request) *session {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.prune(now)

	if c, err := req.Cookie(sessionCookie); err == nil {
		if s, ok := r.sessions[c.Value]; ok {
			s.touch(now)
			return s
		}
	}

	// The transaction log session doubles as the web session.
	ls := log.NewSession(r.logger, r.backend)
	s := &session{
		id:       ls.ID(),
		editor:   r.newEditor(ls),
		lastSeen: now,
	}
	r.sessions[s.id] = s

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    s.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return s
}

// count returns the number of live sessions.
func (r *sessionRegistry) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune(r.now())
	return len(r.sessions)
}

// prune drops idle sessions. Called with r.mu held.
func (r *sessionRegistry) prune(now time.Time) {
	for id, s := range r.sessions {
		if s.idleSince(now) > r.idle {
			delete(r.sessions, id)
		}
	}
}
