package log

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
)

func TestOpenNothing(t *testing.T) {
	logger, closeFn, err := Open("", nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := logger.(NoopLogger); !ok {
		t.Errorf("got %T, want NoopLogger", logger)
	}
	if err := closeFn(); err != nil {
		t.Errorf("close: %v", err)
	}
}

func TestOpenFileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.rlog")
	var buf bytes.Buffer
	console := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger, closeFn, err := Open(path, console)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := logger.(*MultiLogger); !ok {
		t.Fatalf("got %T, want *MultiLogger", logger)
	}

	logger.Log(Event{Address: "0x0800", Category: CategoryMessage})
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	events, err := readAllEvents(t, path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(events) != 1 || events[0].Address != "0x0800" {
		t.Errorf("file events: %+v", events)
	}
	if !strings.Contains(buf.String(), "address=0x0800") {
		t.Errorf("console output missing address: %q", buf.String())
	}
}

func TestOpenBadPath(t *testing.T) {
	_, _, err := Open(filepath.Join(t.TempDir(), "missing", "x.rlog"), nil)
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func readAllEvents(t *testing.T, path string) ([]Event, error) {
	t.Helper()
	r, err := NewReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return r.ReadAll()
}
