// Package config handles refsheet configuration: the TOML config file, its
// default locations, and validation of the values sync cannot run without.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EnvAPIKey overrides library.api_key, keeping credentials out of the
// config file.
const EnvAPIKey = "REFSHEET_API_KEY"

// Config is the refsheet configuration.
type Config struct {
	Library LibraryConfig `toml:"library"`
	Sheet   SheetConfig   `toml:"sheet"`
	Sync    SyncConfig    `toml:"sync"`
	UI      UIConfig      `toml:"ui"`

	// DataDir holds the workbook, property store, theme options, and run
	// log. Defaults to ~/.local/share/refsheet.
	DataDir string `toml:"data_dir"`
}

// LibraryConfig locates and authenticates the reference library.
type LibraryConfig struct {
	// UserID is the numeric library identifier.
	UserID string `toml:"user_id"`

	// APIKey authenticates requests. REFSHEET_API_KEY overrides it.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the hosted API endpoint, for testing.
	BaseURL string `toml:"base_url"`
}

// SheetConfig locates the reading-list sheet.
type SheetConfig struct {
	// Workbook is the workbook database path. Defaults to
	// <data_dir>/refsheet.db.
	Workbook string `toml:"workbook"`

	// Name is the sheet holding the reading list.
	Name string `toml:"name"`

	// MarkerTag is the library tag that marks reading-list membership.
	MarkerTag string `toml:"marker_tag"`
}

// SyncConfig tunes the sync operations.
type SyncConfig struct {
	// IncludeNotes folds library notes into the sheet during import.
	IncludeNotes bool `toml:"include_notes"`
}

// UIConfig holds optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output. Supported values
	// are ANSI color codes ("0" to "255") or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`
}

// Load loads the configuration from the default location. A missing file
// yields the built-in defaults; Validate later decides whether those are
// enough to run.
func Load() (*Config, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := &Config{}
		cfg.applyDefaults()
		return cfg, nil
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if key := os.Getenv(EnvAPIKey); key != "" {
		c.Library.APIKey = key
	}
	if c.Sheet.Name == "" {
		c.Sheet.Name = "References"
	}
	if c.Sheet.MarkerTag == "" {
		c.Sheet.MarkerTag = "reading list"
	}
	if c.DataDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DataDir = filepath.Join(home, ".local", "share", "refsheet")
		} else {
			c.DataDir = "."
		}
	}
	if c.Sheet.Workbook == "" {
		c.Sheet.Workbook = filepath.Join(c.DataDir, "refsheet.db")
	}
}

// Validate checks the values sync cannot run without.
func (c *Config) Validate() error {
	if c.Library.UserID == "" {
		return &ConfigurationError{Field: "library.user_id", Reason: "is not set"}
	}
	if c.Library.APIKey == "" {
		return &ConfigurationError{Field: "library.api_key", Reason: "is not set (set it in the config or via " + EnvAPIKey + ")"}
	}
	return nil
}

// PropsPath is the property store location.
func (c *Config) PropsPath() string {
	return filepath.Join(c.DataDir, "props.yaml")
}

// ThemesPath is the theme options location.
func (c *Config) ThemesPath() string {
	return filepath.Join(c.DataDir, "themes.yaml")
}

// RunLogPath is the sync run journal location.
func (c *Config) RunLogPath() string {
	return filepath.Join(c.DataDir, "runs.jsonl")
}

// LogPath is the rotating diagnostic log location.
func (c *Config) LogPath() string {
	return filepath.Join(c.DataDir, "refsheet.log")
}

// DefaultPath returns the default config file path. Prefers the XDG-style
// ~/.config/refsheet/config.toml, falling back to the OS config directory.
func DefaultPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "refsheet", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "refsheet", "config.toml")
	}
	return filepath.Join(".", "config.toml")
}

// CreateDefault creates a commented config template at the default location
// if none exists, returning its path.
func CreateDefault() (string, error) {
	path := DefaultPath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	template := `# refsheet configuration

# Directory for the workbook, property store, theme options, and run log.
# Defaults to ~/.local/share/refsheet.
# data_dir = ""

[library]
# Numeric user ID of the reference library.
# user_id = "1234567"
#
# API key with read/write access. Prefer the REFSHEET_API_KEY environment
# variable to keep the key out of this file.
# api_key = ""

[sheet]
# Sheet holding the reading list.
# name = "References"
#
# Library tag that marks an item as part of the reading list.
# marker_tag = "reading list"
#
# Workbook database path. Defaults to <data_dir>/refsheet.db.
# workbook = ""

[sync]
# Fold library notes into the Notes column during import.
# include_notes = false

# Optional UI accent color: ANSI code (0-255) or hex (#RRGGBB).
# [ui]
# accent = "39"
`

	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
