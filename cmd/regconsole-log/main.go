// Command regconsole-log views and analyzes register console transaction
// logs.
//
// Log files are written by regconsole and regconsole-web when started with
// the -transaction-log flag.
//
// Usage:
//
//	regconsole-log <command> [flags] <file.rlog>
//
// Commands:
//
//	view     View log file in human-readable format
//	export   Export log file to JSONL or CSV format
//	filter   Filter log file and write to new file
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	regconsole-log view console.rlog
//
//	# View only traffic for one register
//	regconsole-log view -address 0x0800 console.rlog
//
//	# View only failures
//	regconsole-log view -category error console.rlog
//
//	# Export to CSV
//	regconsole-log export -format csv -o console.csv console.rlog
//
//	# Keep one session and save it to a new file
//	regconsole-log filter -session 3f2a9c1e-... -o session.rlog console.rlog
//
//	# Show statistics
//	regconsole-log stats console.rlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/vitolink/regconsole/cmd/regconsole-log/commands"
)

const usage = `regconsole-log - Register Console Log Analyzer

Usage:
  regconsole-log <command> [flags] <file.rlog>

Commands:
  view     View log file in human-readable format
  export   Export log file to JSONL or CSV format
  filter   Filter log file and write to new file
  stats    Show statistics about the log file

Use "regconsole-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// newFlagSet creates a flag set with the event selection flags every
// command accepts.
func newFlagSet(name, summary string) (*flag.FlagSet, *commands.FilterOptions) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `regconsole-log %s - %s

Usage:
  regconsole-log %s [flags] <file.rlog>

Flags:
`, name, summary, name)
		fs.PrintDefaults()
	}

	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.SessionID, "session", "", "Filter by session ID")
	fs.StringVar(&opts.Address, "address", "", "Filter by register address")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	fs.StringVar(&opts.Layer, "layer", "", "Filter by layer (http, editor)")
	fs.StringVar(&opts.Direction, "direction", "", "Filter by direction (in, out)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (message, state, error)")
	return fs, opts
}

// logPath parses args and returns the log file argument.
func logPath(fs *flag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runView(args []string) {
	fs, opts := newFlagSet("view", "View log file in human-readable format")
	path := logPath(fs, args)

	exitOnError(commands.RunView(path, *opts, os.Stdout))
}

func runExport(args []string) {
	fs, opts := newFlagSet("export", "Export log file to JSONL or CSV format")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	path := logPath(fs, args)

	exitOnError(commands.RunExport(path, *format, *output, *opts, os.Stdout))
}

func runFilter(args []string) {
	fs, opts := newFlagSet("filter", "Filter log file and write to new file")
	output := fs.String("o", "", "Output file (required)")
	path := logPath(fs, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	exitOnError(commands.RunFilter(path, *output, *opts, os.Stdout))
}

func runStats(args []string) {
	fs, opts := newFlagSet("stats", "Show statistics about the log file")
	path := logPath(fs, args)

	exitOnError(commands.RunStats(path, *opts, os.Stdout))
}
