// Package config loads the mdsticker configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/fuchigta/mdsticker/internal/note"
)

// Environment variables that override the file
const (
	EnvDataDir  = "MDSTICKER_DATA_DIR"
	EnvLogLevel = "MDSTICKER_LOG_LEVEL"
)

type Config struct {
	DataDir     string    `yaml:"data_dir"`
	Database    string    `yaml:"database"`
	Index       string    `yaml:"index"`
	Window      note.Size `yaml:"window"`
	TrashWindow string    `yaml:"trash_window"`
	Log         Log       `yaml:"log"`
}

type Log struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // console or json
	File   string `yaml:"file"`   // empty logs to stderr
}

// Default returns the configuration used when no file exists
func Default() Config {
	return Config{
		DataDir:     "./data",
		Database:    "mdsticker.db",
		Index:       "index.bleve",
		Window:      note.Size{Width: 500, Height: 400},
		TrashWindow: "trashbox",
		Log: Log{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults and applies environment overrides. A
// missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if dir := os.Getenv(EnvDataDir); dir != "" {
		cfg.DataDir = dir
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = level
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir cannot be empty")
	}
	if c.Database == "" {
		return errors.New("database cannot be empty")
	}
	if c.Window.Width == 0 || c.Window.Height == 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

// DatabasePath returns the database file inside the data directory
func (c Config) DatabasePath() string {
	return c.resolve(c.Database)
}

// IndexPath returns the search index directory, or "" when indexing is off
func (c Config) IndexPath() string {
	if c.Index == "" {
		return ""
	}
	return c.resolve(c.Index)
}

func (c Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
