// Package config handles the XDG configuration directory and the
// files stored in it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "taskdeck"

	// StoreFile is the hosted-store connection settings filename.
	StoreFile = "store.toml"

	// SessionFile is the persisted auth session filename.
	SessionFile = "session.json"

	// PrefsFile is the UI preferences filename.
	PrefsFile = "prefs.json"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// StoreConfig is the contents of store.toml: where the hosted store
// lives and the public API key every request carries.
type StoreConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/taskdeck or $HOME/.config/taskdeck.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// StorePath returns the path to the store settings file.
func (c *Config) StorePath() string {
	return filepath.Join(c.Dir, StoreFile)
}

// SessionPath returns the path to the persisted session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// PrefsPath returns the path to the UI preferences file.
func (c *Config) PrefsPath() string {
	return filepath.Join(c.Dir, PrefsFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasStoreConfig checks if the store settings file exists.
func (c *Config) HasStoreConfig() bool {
	_, err := os.Stat(c.StorePath())
	return err == nil
}

// HasSession checks if a persisted session exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}

// RemoveSession deletes the persisted session file.
func (c *Config) RemoveSession() error {
	return os.Remove(c.SessionPath())
}

// LoadStore reads and validates store.toml.
func (c *Config) LoadStore() (StoreConfig, error) {
	var sc StoreConfig
	if _, err := toml.DecodeFile(c.StorePath(), &sc); err != nil {
		return StoreConfig{}, fmt.Errorf("read %s: %w", StoreFile, err)
	}
	sc.URL = strings.TrimRight(strings.TrimSpace(sc.URL), "/")
	if sc.URL == "" {
		return StoreConfig{}, fmt.Errorf("%s: url is required", StoreFile)
	}
	if strings.TrimSpace(sc.APIKey) == "" {
		return StoreConfig{}, fmt.Errorf("%s: api_key is required", StoreFile)
	}
	return sc, nil
}
