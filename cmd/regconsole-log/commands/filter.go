package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/vitolink/regconsole/pkg/log"
	"github.com/vitolink/regconsole/pkg/register"
)

// FilterOptions holds the event selection flags shared by all commands.
// Empty fields match every event.
type FilterOptions struct {
	SessionID string
	Address   string
	TimeStart string
	TimeEnd   string
	Layer     string
	Direction string
	Category  string
}

// Build converts the options into a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{SessionID: o.SessionID}

	if o.Address != "" {
		addr, err := register.ParseAddress(o.Address)
		if err != nil {
			return filter, err
		}
		filter.Address = addr
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}

	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}

	if o.Layer != "" {
		l, err := ParseLayer(o.Layer)
		if err != nil {
			return filter, err
		}
		filter.Layer = &l
	}

	if o.Direction != "" {
		d, err := ParseDirection(o.Direction)
		if err != nil {
			return filter, err
		}
		filter.Direction = &d
	}

	if o.Category != "" {
		c, err := ParseCategory(o.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}

	return filter, nil
}

// ParseLayer parses a layer name (case-insensitive).
func ParseLayer(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "http":
		return log.LayerHTTP, nil
	case "editor":
		return log.LayerEditor, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be http or editor)", s)
	}
}

// ParseDirection parses a direction name (case-insensitive).
func ParseDirection(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in or out)", s)
	}
}

// ParseCategory parses a category name (case-insensitive).
func ParseCategory(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "message":
		return log.CategoryMessage, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be message, state, or error)", s)
	}
}

// openReader opens path with the filter built from opts.
func openReader(path string, opts FilterOptions) (*log.Reader, error) {
	filter, err := opts.Build()
	if err != nil {
		return nil, err
	}
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return reader, nil
}

// each calls fn for every matching event until the end of the file.
func each(reader *log.Reader, fn func(log.Event) error) error {
	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := fn(event); err != nil {
			return err
		}
	}
}

// RunFilter copies the events matching opts from path into a new log file.
func RunFilter(path, output string, opts FilterOptions, w io.Writer) error {
	reader, err := openReader(path, opts)
	if err != nil {
		return err
	}
	defer reader.Close()

	logger, err := log.NewFileLogger(output)
	if err != nil {
		return fmt.Errorf("failed to create output logger: %w", err)
	}
	defer logger.Close()

	count := 0
	err = each(reader, func(event log.Event) error {
		logger.Log(event)
		count++
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Filtered %d events to %s\n", count, output)
	return nil
}
