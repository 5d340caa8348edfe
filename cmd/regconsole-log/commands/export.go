package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/vitolink/regconsole/pkg/log"
)

// RunExport writes the events matching opts as jsonl or csv. An empty
// output writes to w.
func RunExport(path, format, output string, opts FilterOptions, w io.Writer) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := openReader(path, opts)
	if err != nil {
		return err
	}
	defer reader.Close()

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	return each(reader, func(event log.Event) error {
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
		return nil
	})
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "session_id", "direction", "layer", "category", "address", "type", "sequence", "data", "status"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	return each(reader, func(event log.Event) error {
		var seq, data, status string
		switch {
		case event.Exchange != nil:
			seq = strconv.FormatUint(uint64(event.Exchange.Sequence), 10)
			data = event.Exchange.Data
			if event.Exchange.StatusCode != 0 {
				status = strconv.Itoa(event.Exchange.StatusCode)
			}
		case event.StateChange != nil:
			data = event.StateChange.NewState
		case event.Error != nil:
			data = event.Error.Message
			if event.Error.Code != nil {
				status = strconv.Itoa(*event.Error.Code)
			}
		}

		row := []string{
			event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
			event.SessionID,
			event.Direction.String(),
			event.Layer.String(),
			event.Category.String(),
			event.Address,
			eventType(event),
			seq,
			data,
			status,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
		return nil
	})
}
