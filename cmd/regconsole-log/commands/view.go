// Package commands implements the regconsole-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/vitolink/regconsole/pkg/log"
)

// RunView prints the events matching opts in human-readable form.
func RunView(path string, opts FilterOptions, w io.Writer) error {
	reader, err := openReader(path, opts)
	if err != nil {
		return err
	}
	defer reader.Close()

	return each(reader, func(event log.Event) error {
		formatEvent(w, event)
		return nil
	})
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [session:id] DIRECTION LAYER Type address
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	header := fmt.Sprintf("%s [session:%s] %-3s %s %s", ts, shortenID(event.SessionID),
		event.Direction.String(), event.Layer.String(), eventType(event))
	if event.Address != "" {
		header += " " + event.Address
	}
	fmt.Fprintln(w, header)

	switch {
	case event.Exchange != nil:
		formatExchangeDetails(w, event.Exchange)
	case event.StateChange != nil:
		formatStateChangeDetails(w, event.StateChange)
	case event.Error != nil:
		formatErrorDetails(w, event.Error)
	}

	fmt.Fprintln(w) // Blank line between events
}

// eventType returns the label of the event payload.
func eventType(event log.Event) string {
	switch {
	case event.Exchange != nil:
		return event.Exchange.Operation.String() + " " + event.Exchange.Type.String()
	case event.StateChange != nil:
		return "State"
	case event.Error != nil:
		return "Error"
	default:
		return "Unknown"
	}
}

// shortenID returns the first 8 characters of a session ID.
func shortenID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

func formatExchangeDetails(w io.Writer, ex *log.ExchangeEvent) {
	fmt.Fprintf(w, "  Seq: %d\n", ex.Sequence)
	if ex.Size > 0 {
		fmt.Fprintf(w, "  Size: %d\n", ex.Size)
	}
	if ex.Data != "" {
		fmt.Fprintf(w, "  Data: %s\n", ex.Data)
	}
	if ex.StatusCode != 0 {
		fmt.Fprintf(w, "  Status: %d\n", ex.StatusCode)
	}
	if ex.Duration != nil {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(*ex.Duration))
	}
}

func formatStateChangeDetails(w io.Writer, sc *log.StateChangeEvent) {
	if sc.OldState != "" {
		fmt.Fprintf(w, "  %s -> %s\n", sc.OldState, sc.NewState)
	} else {
		fmt.Fprintf(w, "  -> %s\n", sc.NewState)
	}
	if sc.Reason != "" {
		fmt.Fprintf(w, "  Reason: %s\n", sc.Reason)
	}
}

func formatErrorDetails(w io.Writer, err *log.ErrorEventData) {
	fmt.Fprintf(w, "  Layer: %s\n", err.Layer.String())
	fmt.Fprintf(w, "  Message: %s\n", err.Message)
	if err.Code != nil {
		fmt.Fprintf(w, "  Code: %d\n", *err.Code)
	}
	if err.Context != "" {
		fmt.Fprintf(w, "  Context: %s\n", err.Context)
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
