// ABOUTME: Configuration loading and parsing for fold-console
// ABOUTME: Supports YAML files with environment variable expansion and validation

package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete fold-console configuration
type Config struct {
	Console Console `yaml:"console"`
	Auth    Auth    `yaml:"auth"`
	Storage Storage `yaml:"storage"`
	Logging Logging `yaml:"logging"`
}

// Console holds the target platform API configuration
type Console struct {
	// URL is the base URL of the platform API, e.g. https://admin.example.
	// A username/password embedded in the authority is accepted as a
	// bootstrap credential but should be avoided (URLs leak into shell
	// history and proxy logs).
	URL string `yaml:"url"`

	// WhoamiPath is the side-effect-free endpoint used to verify
	// candidate credentials. Defaults to /api/v1/admin/session.
	WhoamiPath string `yaml:"whoami_path"`

	// Timeout bounds each HTTP request. Defaults to 30s.
	Timeout time.Duration `yaml:"-"`

	// Raw string value for YAML unmarshaling
	TimeoutRaw string `yaml:"timeout"`
}

// Auth holds the request gateway configuration
type Auth struct {
	// ProtectedPrefixes lists the URL path prefixes that require
	// authentication. An empty list means no request is intercepted;
	// that is an explicit operator choice, not a default we invent.
	ProtectedPrefixes []string `yaml:"protected_prefixes"`
}

// Storage holds local state configuration
type Storage struct {
	// StatePath is the SQLite database holding durable console state
	// (remembered username). Defaults to $XDG_STATE_HOME/fold-console/state.db.
	StatePath string `yaml:"state_path"`
}

// Logging holds logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	defaultWhoamiPath = "/api/v1/admin/session"
	defaultTimeout    = 30 * time.Second
)

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.parseDurations(); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment
// variable values. Unset variables are replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills in defaults for optional fields
func (c *Config) applyDefaults() {
	if c.Console.WhoamiPath == "" {
		c.Console.WhoamiPath = defaultWhoamiPath
	}
	if c.Storage.StatePath == "" {
		c.Storage.StatePath = defaultStatePath()
	}
}

// defaultStatePath returns the XDG state path for the console database
func defaultStatePath() string {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "fold-console-state.db"
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "fold-console", "state.db")
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Console.URL == "" {
		return fmt.Errorf("console.url is required")
	}

	u, err := url.Parse(c.Console.URL)
	if err != nil {
		return fmt.Errorf("console.url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("console.url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("console.url has no host")
	}

	if !strings.HasPrefix(c.Console.WhoamiPath, "/") {
		return fmt.Errorf("console.whoami_path must start with /")
	}

	for _, p := range c.Auth.ProtectedPrefixes {
		if p == "" {
			return fmt.Errorf("auth.protected_prefixes must not contain empty entries")
		}
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func (c *Config) parseDurations() error {
	c.Console.Timeout = defaultTimeout

	if c.Console.TimeoutRaw != "" {
		d, err := time.ParseDuration(c.Console.TimeoutRaw)
		if err != nil {
			return fmt.Errorf("parsing timeout %q: %w", c.Console.TimeoutRaw, err)
		}
		c.Console.Timeout = d
	}

	return nil
}
