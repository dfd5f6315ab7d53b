package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/redaphid/fidget-toy-midi-twister/midi"
)

// Config is the main configuration structure
type Config struct {
	// PortName narrows hardware detection to ports containing this substring.
	PortName string `json:"portName,omitempty"`

	// CC channel assignment (low nibble of the status byte).
	Channels midi.Channels `json:"channels"`

	// DefaultMode is activated at startup.
	DefaultMode string `json:"defaultMode,omitempty"`

	// HoldMillis is how long a button must stay pressed before the engine
	// force-switches to mode select.
	HoldMillis int `json:"holdMillis,omitempty"`

	// UploadURL is the base endpoint for the snapshot mode's image upload.
	UploadURL string `json:"uploadUrl,omitempty"`

	// ImagePath is the image file the snapshot mode uploads.
	ImagePath string `json:"imagePath,omitempty"`

	Debug bool `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Channels:    midi.DefaultChannels(),
		DefaultMode: "idle",
		HoldMillis:  1500,
	}
}

// HoldDuration returns the long-press threshold.
func (c *Config) HoldDuration() time.Duration {
	if c.HoldMillis <= 0 {
		return 1500 * time.Millisecond
	}
	return time.Duration(c.HoldMillis) * time.Millisecond
}

// Dir returns the config directory path
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "fidget-twister"), nil
}

// Path returns the full path to config.json
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := Path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
