package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearOasiEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"OASI_API_URL", "OASI_REQUEST_TIMEOUT", "OASI_DATA_DIR", "OASI_THEME", "OASI_DEBUG"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "oasi" {
		t.Errorf("expected Name=oasi, got %s", cfg.Name)
	}
	if cfg.API.BaseURL != "http://localhost:3001" {
		t.Errorf("expected default backend on :3001, got %s", cfg.API.BaseURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	clearOasiEnv(t)

	path := filepath.Join(t.TempDir(), "oasi.yaml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://shop.example.com"
	cfg.UI.Theme = "dark"
	cfg.Logging.Categories = map[string]bool{"api": false}

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com", loaded.API.BaseURL)
	assert.Equal(t, "dark", loaded.UI.Theme)
	assert.False(t, loaded.Logging.Categories["api"])
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	clearOasiEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().API, cfg.API)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oasi.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("applied on missing file", func(t *testing.T) {
		clearOasiEnv(t)
		t.Setenv("OASI_API_URL", "http://backend:9000")
		t.Setenv("OASI_DATA_DIR", "/tmp/oasi-data")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "http://backend:9000", cfg.API.BaseURL)
		assert.Equal(t, "/tmp/oasi-data", cfg.Storage.DataDir)
	})

	t.Run("OASI_DEBUG enables debug level", func(t *testing.T) {
		clearOasiEnv(t)
		t.Setenv("OASI_DEBUG", "true")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.True(t, cfg.Logging.DebugMode)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("unparseable OASI_DEBUG is ignored", func(t *testing.T) {
		clearOasiEnv(t)
		t.Setenv("OASI_DEBUG", "maybe")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.False(t, cfg.Logging.DebugMode)
	})

	t.Run("env wins over file", func(t *testing.T) {
		clearOasiEnv(t)
		path := filepath.Join(t.TempDir(), "oasi.yaml")
		cfg := DefaultConfig()
		cfg.UI.Theme = "light"
		require.NoError(t, cfg.Save(path))

		t.Setenv("OASI_THEME", "dark")
		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "dark", loaded.UI.Theme)
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty base url", func(c *Config) { c.API.BaseURL = "" }},
		{"non-http scheme", func(c *Config) { c.API.BaseURL = "ftp://shop" }},
		{"bad timeout", func(c *Config) { c.API.Timeout = "soon" }},
		{"negative rate", func(c *Config) { c.API.RateLimit = -1 }},
		{"rate without burst", func(c *Config) { c.API.Burst = 0 }},
		{"no data dir", func(c *Config) { c.Storage.DataDir = "" }},
		{"no database", func(c *Config) { c.Storage.Database = "" }},
		{"unknown theme", func(c *Config) { c.UI.Theme = "neon" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_Helpers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.DataDir = "/data"

	assert.Equal(t, 15*time.Second, cfg.GetRequestTimeout())
	cfg.API.Timeout = "bogus"
	assert.Equal(t, 15*time.Second, cfg.GetRequestTimeout())
	cfg.API.Timeout = "2s"
	assert.Equal(t, 2*time.Second, cfg.GetRequestTimeout())

	assert.Equal(t, filepath.Join("/data", "oasi.db"), cfg.DatabasePath())
	cfg.Storage.Database = "/abs/other.db"
	assert.Equal(t, "/abs/other.db", cfg.DatabasePath())
	assert.Equal(t, filepath.Join("/data", "logs"), cfg.LogsDir())
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{}
	assert.False(t, lc.IsCategoryEnabled("api"), "disabled outside debug mode")

	lc.DebugMode = true
	assert.True(t, lc.IsCategoryEnabled("api"), "all enabled without a filter")

	lc.Categories = map[string]bool{"api": false}
	assert.False(t, lc.IsCategoryEnabled("api"))
	assert.True(t, lc.IsCategoryEnabled("session"), "unlisted categories default on")
}

func TestUIConfig_GlamourStyle(t *testing.T) {
	ui := *DefaultUIConfig()
	assert.Equal(t, "dark", ui.GlamourStyle(true))
	assert.Equal(t, "light", ui.GlamourStyle(false))
	ui.MarkdownStyle = "notty"
	assert.Equal(t, "notty", ui.GlamourStyle(true))
}
