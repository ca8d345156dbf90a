// Package config loads the demo application's configuration from a
// TOML file and supports live reload through a file watcher.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the demo application settings.
type Config struct {
	// Theme selects the highlight theme by name.
	Theme string `toml:"theme"`

	// Template selects the highlighting template by registry name.
	// Empty means the default template.
	Template string `toml:"template"`

	// Language is the initial declared language of the widget.
	Language string `toml:"language"`

	// FrameInterval is the frame cadence in milliseconds.
	FrameInterval int `toml:"frame_interval_ms"`

	// LogLevel is the zerolog level name ("debug", "info", ...).
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Theme:         "Default Dark",
		Language:      "go",
		FrameInterval: 16,
		LogLevel:      "info",
	}
}

// Interval returns the frame cadence as a duration.
func (c Config) Interval() time.Duration {
	if c.FrameInterval <= 0 {
		return 16 * time.Millisecond
	}
	return time.Duration(c.FrameInterval) * time.Millisecond
}

// Load reads a TOML file over the defaults. A missing file is not an
// error; the defaults apply unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}
