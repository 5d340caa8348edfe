// Package config loads regconsole configuration from YAML files.
//
// A configuration file looks like:
//
//	api:
//	  url: http://vitolink.local:5000
//	  timeout: 5s
//	catalog: registers.yaml
//	log:
//	  level: info
//	  file: /var/log/regconsole/session.rlog
//	web:
//	  port: 8080
//	  db: regconsole.db
//	discovery:
//	  enabled: true
//
// The catalog may instead be given inline as a list of registers. Command
// line flags override file values through Set.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vitolink/regconsole/pkg/register"
)

// Defaults.
const (
	DefaultAPIURL     = "http://localhost:5000"
	DefaultAPITimeout = 5 * time.Second
	DefaultLogLevel   = "info"
	DefaultWebPort    = 8080
	DefaultWebDB      = "regconsole.db"
)

// ErrUnknownKey is returned by Set for keys that do not exist.
var ErrUnknownKey = errors.New("unknown configuration key")

// Config is the complete regconsole configuration.
type Config struct {
	API       APIConfig       `yaml:"api"`
	Catalog   CatalogSource   `yaml:"catalog,omitempty"`
	Log       LogConfig       `yaml:"log"`
	Web       WebConfig       `yaml:"web"`
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// APIConfig locates the register API backend.
type APIConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// LogConfig controls operational and transaction logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// File receives the binary transaction log when set.
	File string `yaml:"file,omitempty"`
}

// WebConfig configures regconsole-web.
type WebConfig struct {
	Port int    `yaml:"port"`
	DB   string `yaml:"db"`
}

// DiscoveryConfig controls mDNS.
type DiscoveryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// CatalogSource is either a path to a catalog file or an inline list.
type CatalogSource struct {
	Path    string
	Entries register.Catalog
}

// IsZero reports whether no catalog was configured.
func (s CatalogSource) IsZero() bool {
	return s.Path == "" && len(s.Entries) == 0
}

// UnmarshalYAML accepts a scalar path or a sequence of registers.
func (s *CatalogSource) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		s.Path, s.Entries = node.Value, nil
		return nil
	case yaml.SequenceNode:
		var entries register.Catalog
		if err := node.Decode(&entries); err != nil {
			return err
		}
		s.Path, s.Entries = "", entries
		return nil
	}
	return fmt.Errorf("line %d: catalog must be a file path or a list of registers", node.Line)
}

// MarshalYAML writes the path or the inline list.
func (s CatalogSource) MarshalYAML() (interface{}, error) {
	if s.Path != "" {
		return s.Path, nil
	}
	return []register.Descriptor(s.Entries), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			URL:     DefaultAPIURL,
			Timeout: DefaultAPITimeout,
		},
		Log: LogConfig{Level: DefaultLogLevel},
		Web: WebConfig{
			Port: DefaultWebPort,
			DB:   DefaultWebDB,
		},
	}
}

// Load reads the configuration file at path on top of the defaults. A
// relative catalog path is resolved against the file's directory.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	if p := cfg.Catalog.Path; p != "" && !filepath.IsAbs(p) {
		cfg.Catalog.Path = filepath.Join(filepath.Dir(path), p)
	}
	return cfg, nil
}

// Parse decodes YAML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.url: %q is not an http(s) URL", c.API.URL)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout: must be positive, got %s", c.API.Timeout)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level: must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if c.Web.Port < 0 || c.Web.Port > 65535 {
		return fmt.Errorf("web.port: must be 0-65535, got %d", c.Web.Port)
	}
	if len(c.Catalog.Entries) > 0 {
		if err := c.Catalog.Entries.Validate(); err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
	}
	return nil
}

// Set assigns a single value by its dotted key, e.g. "api.url". The
// catalog key takes a file path.
func (c *Config) Set(key, value string) error {
	var err error
	switch key {
	case "api.url":
		c.API.URL = value
	case "api.timeout":
		c.API.Timeout, err = time.ParseDuration(value)
	case "catalog":
		c.Catalog = CatalogSource{Path: value}
	case "log.level":
		c.Log.Level = strings.ToLower(value)
	case "log.file":
		c.Log.File = value
	case "web.port":
		c.Web.Port, err = strconv.Atoi(value)
	case "web.db":
		c.Web.DB = value
	case "discovery.enabled":
		c.Discovery.Enabled, err = strconv.ParseBool(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

// ApplyFlags copies the flags that were set on the command line into the
// configuration. keys maps flag names to configuration keys; flags not in
// keys are ignored.
func (c *Config) ApplyFlags(fs *flag.FlagSet, keys map[string]string) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		key, ok := keys[f.Name]
		if !ok || err != nil {
			return
		}
		if setErr := c.Set(key, f.Value.String()); setErr != nil {
			err = fmt.Errorf("-%s: %w", f.Name, setErr)
		}
	})
	if err != nil {
		return err
	}
	return c.Validate()
}

// SlogLevel returns the slog level for Log.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ResolveCatalog returns the configured catalog, falling back to the
// built-in one.
func (c *Config) ResolveCatalog() (register.Catalog, error) {
	switch {
	case c.Catalog.Path != "":
		return register.LoadCatalog(c.Catalog.Path)
	case len(c.Catalog.Entries) > 0:
		out := make(register.Catalog, len(c.Catalog.Entries))
		copy(out, c.Catalog.Entries)
		if err := out.Validate(); err != nil {
			return nil, err
		}
		return out, nil
	}
	return register.DefaultCatalog(), nil
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
