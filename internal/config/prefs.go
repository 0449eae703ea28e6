package config

import (
	"encoding/json"
	"os"
)

// Prefs holds local UI preferences. They are conveniences, not data:
// a missing or unreadable file means defaults, and write failures are
// dropped on the floor.
type Prefs struct {
	SidebarCollapsed bool `json:"sidebar_collapsed"`
}

// LoadPrefs reads the preferences file. Any failure yields the
// defaults.
func (c *Config) LoadPrefs() Prefs {
	var p Prefs
	data, err := os.ReadFile(c.PrefsPath())
	if err != nil {
		return Prefs{}
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return Prefs{}
	}
	return p
}

// SavePrefs writes the preferences file, ignoring failures.
func (c *Config) SavePrefs(p Prefs) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.EnsureDir(); err != nil {
		return
	}
	_ = os.WriteFile(c.PrefsPath(), data, 0600)
}
