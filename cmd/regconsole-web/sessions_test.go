package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vitolink/regconsole/pkg/editor"
	"github.com/vitolink/regconsole/pkg/log"
	"github.com/vitolink/regconsole/pkg/regapi/mocks"
	"github.com/vitolink/regconsole/pkg/register"
)

func newTestRegistry() (*sessionRegistry, *time.Time) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := newSessionRegistry(nil, "http://backend", func(l log.Logger) *editor.Editor {
		return editor.New(&mocks.API{}, register.DefaultCatalog(), editor.WithLogger(l))
	})
	r.now = func() time.Time { return now }
	return r, &now
}

func requestWith(cookie *http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/debug", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestSessionRegistryReusesCookie(t *testing.T) {
	r, _ := newTestRegistry()

	w := httptest.NewRecorder()
	s1 := r.get(w, requestWith(nil))
	cookie := sessionCookieOf(t, w)

	if cookie.Value != s1.id {
		t.Errorf("Expected cookie %q, got %q", s1.id, cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("Expected HttpOnly cookie")
	}

	w = httptest.NewRecorder()
	s2 := r.get(w, requestWith(cookie))
	if s2 != s1 {
		t.Error("Expected the same session")
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("Expected no new cookie for a known session")
	}
}

func TestSessionRegistryUnknownCookie(t *testing.T) {
	r, _ := newTestRegistry()

	w := httptest.NewRecorder()
	s := r.get(w, requestWith(&http.Cookie{Name: sessionCookie, Value: "forged"}))
	if s.id == "forged" {
		t.Error("Expected a fresh session ID")
	}
	if r.count() != 1 {
		t.Errorf("Expected 1 session, got %d", r.count())
	}
}

func TestSessionRegistryExpiresIdleSessions(t *testing.T) {
	r, now := newTestRegistry()

	w := httptest.NewRecorder()
	first := r.get(w, requestWith(nil))
	cookie := sessionCookieOf(t, w)

	*now = now.Add(sessionIdleTimeout - time.Minute)
	if got := r.get(httptest.NewRecorder(), requestWith(cookie)); got != first {
		t.Fatal("Expected session to survive within the idle timeout")
	}

	*now = now.Add(sessionIdleTimeout + time.Minute)
	if r.count() != 0 {
		t.Errorf("Expected idle session to expire, got %d sessions", r.count())
	}
	if got := r.get(httptest.NewRecorder(), requestWith(cookie)); got == first {
		t.Error("Expected a new session after expiry")
	}
}

func TestSessionFlash(t *testing.T) {
	s := &session{}
	if s.takeFlash() != "" {
		t.Error("Expected no flash")
	}
	s.setFlash("hello")
	if got := s.takeFlash(); got != "hello" {
		t.Errorf("Expected hello, got %q", got)
	}
	if s.takeFlash() != "" {
		t.Error("Expected flash to be cleared")
	}
}
