package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/vitolink/regconsole/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByCategory  map[log.Category]int
	EventsByDirection map[log.Direction]int
	Sessions          map[string]*SessionStats
	Addresses         map[string]int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single console session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Backend   string
	Reads     int
	Writes    int
	Errors    int
}

// Collect reads the events matching opts and aggregates them.
func Collect(path string, opts FilterOptions) (*Stats, error) {
	reader, err := openReader(path, opts)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByCategory:  make(map[log.Category]int),
		EventsByDirection: make(map[log.Direction]int),
		Sessions:          make(map[string]*SessionStats),
		Addresses:         make(map[string]int),
	}
	err = each(reader, func(event log.Event) error {
		stats.add(event)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByLayer[event.Layer]++
	s.EventsByCategory[event.Category]++
	s.EventsByDirection[event.Direction]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	sess, ok := s.Sessions[event.SessionID]
	if !ok {
		sess = &SessionStats{
			FirstSeen: event.Timestamp,
			LastSeen:  event.Timestamp,
		}
		s.Sessions[event.SessionID] = sess
	}
	sess.Events++
	if event.Timestamp.After(sess.LastSeen) {
		sess.LastSeen = event.Timestamp
	}
	if event.Backend != "" && sess.Backend == "" {
		sess.Backend = event.Backend
	}

	// Count each request once, not its response.
	if ex := event.Exchange; ex != nil && ex.Type == log.MessageTypeRequest {
		if ex.Operation == log.OpWrite {
			sess.Writes++
		} else {
			sess.Reads++
		}
		if event.Address != "" {
			s.Addresses[event.Address]++
		}
	}

	if event.Error != nil {
		s.Errors++
		sess.Errors++
	}
}

// RunStats prints statistics about the events matching opts.
func RunStats(path string, opts FilterOptions, w io.Writer) error {
	stats, err := Collect(path, opts)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Register Console Log Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Layer:")
	for _, layer := range []log.Layer{log.LayerHTTP, log.LayerEditor} {
		if count := stats.EventsByLayer[layer]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", layer.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryMessage, log.CategoryState, log.CategoryError} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if count := stats.EventsByDirection[dir]; count > 0 {
			fmt.Fprintf(w, "  %-12s %d\n", dir.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	if len(stats.Addresses) > 0 {
		addrs := make([]string, 0, len(stats.Addresses))
		for a := range stats.Addresses {
			addrs = append(addrs, a)
		}
		sort.Slice(addrs, func(i, j int) bool {
			ci, cj := stats.Addresses[addrs[i]], stats.Addresses[addrs[j]]
			if ci != cj {
				return ci > cj
			}
			return addrs[i] < addrs[j]
		})

		fmt.Fprintln(w, "Requests by Address:")
		for _, a := range addrs {
			fmt.Fprintf(w, "  %-12s %d\n", a+":", stats.Addresses[a])
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessionInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessionInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessionInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, %d reads, %d writes, duration %s\n",
				shortenID(s.id), s.stats.Events, s.stats.Reads, s.stats.Writes, duration)
			if s.stats.Backend != "" {
				fmt.Fprintf(w, "           Backend: %s\n", s.stats.Backend)
			}
			if s.stats.Errors > 0 {
				fmt.Fprintf(w, "           Errors: %d\n", s.stats.Errors)
			}
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
