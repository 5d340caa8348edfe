// Command regconsole reads and writes device registers through the
// register API from a terminal.
//
// Without a command it starts an interactive console. With a command it
// runs once and exits.
//
// Usage:
//
//	regconsole [flags] [command [args]]
//
// Commands:
//
//	list                      List catalog registers
//	read <address|name> [n]   Read n bytes (default catalog size or 2)
//	write <address|name> hex  Write raw hex data
//	scan <from..to> [n]       Read a range of addresses
//
// Flags:
//
//	-config string           Configuration file path
//	-api string              Register API base URL (default "http://localhost:5000")
//	-timeout duration        Register API request timeout (default 5s)
//	-catalog string          Register catalog file (default built-in list)
//	-log-level string        Log level: debug, info, warn, error (default "info")
//	-transaction-log string  Write register traffic to this .rlog file
//	-discover                Find the register API via mDNS
//
// Examples:
//
//	# Interactive console
//	regconsole -api http://vitolink.local:5000
//
//	# Read the outside temperature
//	regconsole read ATS
//
//	# Sweep the heating circuit registers
//	regconsole scan 0x3300..0x33ff
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vitolink/regconsole/cmd/regconsole/interactive"
	"github.com/vitolink/regconsole/pkg/config"
	"github.com/vitolink/regconsole/pkg/discovery"
	"github.com/vitolink/regconsole/pkg/editor"
	rlog "github.com/vitolink/regconsole/pkg/log"
	"github.com/vitolink/regconsole/pkg/regapi"
)

// Version information - set at build time via ldflags
var (
	Version   = "0.1.0"
	BuildDate = "dev"
	GitCommit = "unknown"
)

var (
	configFile  = flag.String("config", "", "Configuration file path")
	apiURL      = flag.String("api", config.DefaultAPIURL, "Register API base URL")
	timeout     = flag.Duration("timeout", config.DefaultAPITimeout, "Register API request timeout")
	catalogFile = flag.String("catalog", "", "Register catalog file (default built-in list)")
	logLevel    = flag.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	txLog       = flag.String("transaction-log", "", "Write register traffic to this .rlog file")
	discover    = flag.Bool("discover", false, "Find the register API via mDNS")
	showVersion = flag.Bool("version", false, "Show version information")
)

// flagKeys maps flags to configuration keys.
var flagKeys = map[string]string{
	"api":             "api.url",
	"timeout":         "api.timeout",
	"catalog":         "catalog",
	"log-level":       "log.level",
	"transaction-log": "log.file",
	"discover":        "discovery.enabled",
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if *showVersion {
		fmt.Printf("regconsole %s (built %s, commit %s)\n", Version, BuildDate, GitCommit)
		return 0
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	setupLogging(cfg.Log.Level)

	catalog, err := cfg.ResolveCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Discovery.Enabled && !isFlagSet("api") {
		found, err := discovery.NewBrowser(discovery.Config{}).FindBackend(ctx, discovery.BrowseTimeout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: discovery: %v\n", err)
			return 1
		}
		cfg.API.URL = found.URL()
		log.Printf("Discovered %s at %s", found.InstanceName, cfg.API.URL)
	}

	var console *slog.Logger
	if cfg.Log.Level == "debug" {
		console = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	}
	txLogger, closeLog, err := rlog.Open(cfg.Log.File, console)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	// Client and editor share one session so a transaction log groups
	// the requests with the state changes they caused.
	session := rlog.NewSession(txLogger, cfg.API.URL)
	client, err := regapi.NewClient(cfg.API.URL,
		regapi.WithTimeout(cfg.API.Timeout),
		regapi.WithSession(session),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	ed := editor.New(client, catalog, editor.WithLogger(session))

	args := flag.Args()
	if len(args) == 0 {
		return runInteractive(ctx, ed, client)
	}

	switch cmd, rest := args[0], args[1:]; cmd {
	case "list":
		err = runList(os.Stdout, catalog)
	case "read":
		err = runRead(ctx, os.Stdout, ed, rest)
	case "write":
		err = runWrite(ctx, os.Stdout, ed, rest)
	case "scan":
		err = runScan(ctx, os.Stdout, client, rest)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		flag.Usage()
		return 2
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func runInteractive(ctx context.Context, ed *editor.Editor, client *regapi.Client) int {
	c, err := interactive.New(ed, client)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	// Redirect log output through readline to avoid interfering with input
	log.SetOutput(c.Stdout())

	log.Printf("Register API: %s (session %s)", client.BaseURL(), client.SessionID())
	c.Run(ctx)
	return 0
}

// loadConfig reads the configuration file, if any, and applies the flags
// given on the command line on top.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyFlags(flag.CommandLine, flagKeys); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setupLogging(level string) {
	log.SetFlags(log.Ltime)

	if level == "debug" {
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	}
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
