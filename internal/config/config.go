// Package config handles TOML-based configuration loading and validation.
// Values are parsed as data only; nothing in the file is executed.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"webmap/internal/httputil"
	"webmap/internal/shortcode"
)

// Config holds all application configuration.
type Config struct {
	Locale   string   `toml:"locale"`
	History  bool     `toml:"history"`
	Debug    bool     `toml:"debug"`
	Listen   string   `toml:"listen"`
	Defaults Defaults `toml:"defaults"`
}

// Defaults are site-wide values used for attributes a shortcode leaves out.
// Empty fields fall through to the built-in defaults.
type Defaults struct {
	ID         string `toml:"id"`
	Width      string `toml:"width"`
	Height     string `toml:"height"`
	Theme      string `toml:"theme"`
	AltBasemap string `toml:"alt_basemap"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Locale:  "",
		History: true,
		Debug:   false,
		Listen:  "127.0.0.1:8080",
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "webmap"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "webmap"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file yields defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen address cannot be empty")
	}

	d := c.Defaults
	if d.Theme != "" {
		validThemes := map[string]bool{"light": true, "dark": true}
		if !validThemes[strings.ToLower(d.Theme)] {
			return fmt.Errorf("unsupported theme %q (valid: light, dark)", d.Theme)
		}
	}
	if d.ID != "" {
		if err := httputil.ValidateItemID(d.ID); err != nil {
			return fmt.Errorf("defaults.id: %w", err)
		}
	}
	if err := httputil.ValidateDimension(d.Width); err != nil {
		return fmt.Errorf("defaults.width: %w", err)
	}
	if err := httputil.ValidateDimension(d.Height); err != nil {
		return fmt.Errorf("defaults.height: %w", err)
	}

	return nil
}

// Apply fills attributes the shortcode did not supply from the site
// defaults. Explicitly supplied attributes, even empty ones, are kept.
func (d Defaults) Apply(a shortcode.Attributes) shortcode.Attributes {
	out := a.Clone()
	fill := map[string]string{
		shortcode.AttrID:         d.ID,
		shortcode.AttrWidth:      d.Width,
		shortcode.AttrHeight:     d.Height,
		shortcode.AttrTheme:      d.Theme,
		shortcode.AttrAltBasemap: d.AltBasemap,
	}
	for name, v := range fill {
		if v == "" {
			continue
		}
		if _, ok := out.Get(name); !ok {
			out.Set(name, v)
		}
	}
	return out
}

// HistoryPath returns the path to the history file.
func HistoryPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "webmap", "history.tsv"), nil
}
