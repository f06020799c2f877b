package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all Oasi client configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Storefront backend
	API APIConfig `yaml:"api"`

	// Durable client-side storage (session slot)
	Storage StorageConfig `yaml:"storage"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the REST backend client.
type APIConfig struct {
	BaseURL   string  `yaml:"base_url"`
	Timeout   string  `yaml:"timeout"`
	RateLimit float64 `yaml:"rate_limit"` // requests per second, 0 = unlimited
	Burst     int     `yaml:"burst"`
	UserAgent string  `yaml:"user_agent"`
}

// StorageConfig configures where the client keeps durable state.
type StorageConfig struct {
	// DataDir holds the database and the logs directory.
	DataDir string `yaml:"data_dir"`

	// Database is the SQLite file name, relative to DataDir unless absolute.
	Database string `yaml:"database"`

	// WatchChanges reloads the session when another oasi process writes it.
	WatchChanges bool `yaml:"watch_changes"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "oasi",
		Version: "1.0.0",

		API: APIConfig{
			BaseURL:   "http://localhost:3001",
			Timeout:   "15s",
			RateLimit: 10,
			Burst:     5,
			UserAgent: "oasi-terminal/1.0",
		},

		Storage: StorageConfig{
			DataDir:      DefaultDataDir(),
			Database:     "oasi.db",
			WatchChanges: true,
		},

		UI: *DefaultUIConfig(),

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			DebugMode: false,
		},
	}
}

// DefaultDataDir returns the per-user data directory, falling back to
// a project-local .oasi directory when no user config dir is available.
func DefaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "oasi")
	}
	return ".oasi"
}

// DefaultConfigPath returns the location of oasi.yaml inside the data dir.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "oasi.yaml")
}

// Load reads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if u := os.Getenv("OASI_API_URL"); u != "" {
		c.API.BaseURL = u
	}
	if t := os.Getenv("OASI_REQUEST_TIMEOUT"); t != "" {
		c.API.Timeout = t
	}
	if dir := os.Getenv("OASI_DATA_DIR"); dir != "" {
		c.Storage.DataDir = dir
	}
	if theme := os.Getenv("OASI_THEME"); theme != "" {
		c.UI.Theme = theme
	}
	if v := os.Getenv("OASI_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = debug
			if debug {
				c.Logging.Level = "debug"
			}
		}
	}
}

// GetRequestTimeout returns the per-request timeout for backend calls.
func (c *Config) GetRequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// DatabasePath returns the absolute-or-data-dir-relative database file.
func (c *Config) DatabasePath() string {
	if filepath.IsAbs(c.Storage.Database) {
		return c.Storage.Database
	}
	return filepath.Join(c.Storage.DataDir, c.Storage.Database)
}

// LogsDir returns the directory category log files are written to.
func (c *Config) LogsDir() string {
	return filepath.Join(c.Storage.DataDir, "logs")
}

// ValidThemes lists the accepted ui.theme values.
var ValidThemes = []string{"auto", "light", "dark"}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url: %q", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url must be http or https, got %s", u.Scheme)
	}

	if _, err := time.ParseDuration(c.API.Timeout); err != nil {
		return fmt.Errorf("invalid api.timeout %q: %w", c.API.Timeout, err)
	}

	if c.API.RateLimit < 0 {
		return fmt.Errorf("api.rate_limit must be >= 0, got %v", c.API.RateLimit)
	}
	if c.API.RateLimit > 0 && c.API.Burst < 1 {
		return fmt.Errorf("api.burst must be >= 1 when rate limiting is enabled")
	}

	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir not configured (set OASI_DATA_DIR)")
	}
	if c.Storage.Database == "" {
		return fmt.Errorf("storage.database not configured")
	}

	validTheme := false
	for _, t := range ValidThemes {
		if c.UI.Theme == t {
			validTheme = true
			break
		}
	}
	if !validTheme {
		return fmt.Errorf("invalid ui.theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}

	return nil
}
