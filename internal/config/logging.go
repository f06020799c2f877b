package config

// LoggingConfig controls the category log files under <data_dir>/logs.
type LoggingConfig struct {
	// DebugMode is the master switch. Off means nothing is written.
	DebugMode bool `yaml:"debug_mode" json:"debug_mode,omitempty"`

	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level,omitempty"`

	// Format is text or json.
	Format string `yaml:"format" json:"format,omitempty"`

	// Categories switches individual categories (session, api, ...) off.
	// A category missing from the map is on.
	Categories map[string]bool `yaml:"categories" json:"categories,omitempty"`
}

// IsCategoryEnabled reports whether lines for category are written.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	on, listed := c.Categories[category]
	return !listed || on
}

// JSONFormat reports whether structured JSON lines were requested.
func (c *LoggingConfig) JSONFormat() bool {
	return c.Format == "json"
}
