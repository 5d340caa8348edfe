// Command regconsole-web serves the register debug console in a browser.
//
// It offers:
//   - A debug page to select, read, edit and write registers
//   - JSON endpoints for health, catalog, editor state and history
//   - SQLite persistence of the exchange history
//   - Optional mDNS discovery of the register API and advertisement of the console
//
// Usage:
//
//	regconsole-web [flags]
//
// Flags:
//
//	-config string           Configuration file path
//	-api string              Register API base URL (default "http://localhost:5000")
//	-timeout duration        Register API request timeout (default 5s)
//	-catalog string          Register catalog file (default built-in list)
//	-port int                HTTP server port (default 8080)
//	-db string               SQLite database path (default "regconsole.db")
//	-log-level string        Log level: debug, info, warn, error (default "info")
//	-transaction-log string  Write register traffic to this .rlog file
//	-discover                Find the register API and advertise the console via mDNS
//	-demo                    Serve a simulated register API under /api/
//
// Examples:
//
//	# Console for a gateway on the local network
//	regconsole-web -api http://vitolink.local:5000
//
//	# Try the console without hardware
//	regconsole-web -demo -db :memory:
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitolink/regconsole/internal/simulator"
	"github.com/vitolink/regconsole/pkg/config"
	"github.com/vitolink/regconsole/pkg/discovery"
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
	port        = flag.Int("port", config.DefaultWebPort, "HTTP server port")
	dbPath      = flag.String("db", config.DefaultWebDB, "SQLite database path")
	logLevel    = flag.String("log-level", config.DefaultLogLevel, "Log level: debug, info, warn, error")
	txLog       = flag.String("transaction-log", "", "Write register traffic to this .rlog file")
	discover    = flag.Bool("discover", false, "Find the register API and advertise the console via mDNS")
	demo        = flag.Bool("demo", false, "Serve a simulated register API under /api/")
	showVersion = flag.Bool("version", false, "Show version information")
)

// flagKeys maps flags to configuration keys.
var flagKeys = map[string]string{
	"api":             "api.url",
	"timeout":         "api.timeout",
	"catalog":         "catalog",
	"port":            "web.port",
	"db":              "web.db",
	"log-level":       "log.level",
	"transaction-log": "log.file",
	"discover":        "discovery.enabled",
}

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	// Show version and exit
	if *showVersion {
		fmt.Printf("regconsole-web %s (built %s, commit %s)\n", Version, BuildDate, GitCommit)
		return 0
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	// Configure logging
	log.SetFlags(log.Ldate | log.Ltime)
	if cfg.Log.Level == "debug" {
		log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)
	}

	catalog, err := cfg.ResolveCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var backend http.Handler
	switch {
	case *demo:
		sim := simulator.NewBackend()
		sim.SeedCatalog(catalog)
		backend = sim
		if cfg.API.URL, err = demoAPIURL(cfg.Web.Port); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	case cfg.Discovery.Enabled && !isFlagSet("api"):
		found, err := discovery.NewBrowser(discovery.Config{}).FindBackend(context.Background(), discovery.BrowseTimeout)
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

	client, err := regapi.NewClient(cfg.API.URL,
		regapi.WithTimeout(cfg.API.Timeout),
		regapi.WithLogger(txLogger),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	srv, err := NewServer(ServerConfig{
		Port:    cfg.Web.Port,
		DBPath:  cfg.Web.DB,
		Version: Version,
		APIURL:  client.BaseURL(),
		API:     client,
		Catalog: catalog,
		Logger:  txLogger,
		Backend: backend,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create server: %v\n", err)
		return 1
	}
	defer srv.Close()

	if cfg.Discovery.Enabled {
		adv := discovery.NewAdvertiser(discovery.Config{})
		err := adv.Advertise(&discovery.ConsoleInfo{
			InstanceName: "regconsole",
			Port:         uint16(cfg.Web.Port),
			Version:      Version,
			APIURL:       client.BaseURL(),
		})
		if err != nil {
			log.Printf("Warning: mDNS advertisement failed: %v", err)
		} else {
			defer adv.Stop()
		}
	}

	// Start server
	log.Printf("Starting regconsole on http://localhost:%d/debug", cfg.Web.Port)
	log.Printf("Register API: %s", client.BaseURL())
	log.Printf("Database: %s", cfg.Web.DB)
	if cfg.Log.File != "" {
		log.Printf("Transaction log: %s", cfg.Log.File)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "Error: server failed: %v\n", err)
			return 1
		}
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}

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

// demoAPIURL returns the URL of the simulated backend mounted on the
// console's own listener. The client needs a fixed port to reach it.
func demoAPIURL(port int) (string, error) {
	if port <= 0 {
		return "", fmt.Errorf("-demo needs a fixed -port, got %d", port)
	}
	return fmt.Sprintf("http://127.0.0.1:%d", port), nil
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
