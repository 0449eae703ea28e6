package config

import (
	"os"
	"testing"
)

func TestLoadPrefs_MissingFileYieldsDefaults(t *testing.T) {
	cfg := &Config{Dir: t.TempDir()}
	if p := cfg.LoadPrefs(); p.SidebarCollapsed {
		t.Error("expected sidebar expanded by default")
	}
}

func TestLoadPrefs_GarbageYieldsDefaults(t *testing.T) {
	cfg := &Config{Dir: t.TempDir()}
	if err := os.WriteFile(cfg.PrefsPath(), []byte("not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if p := cfg.LoadPrefs(); p.SidebarCollapsed {
		t.Error("expected defaults for unreadable prefs")
	}
}

func TestSavePrefs_RoundTrip(t *testing.T) {
	cfg := &Config{Dir: t.TempDir()}

	cfg.SavePrefs(Prefs{SidebarCollapsed: true})
	if p := cfg.LoadPrefs(); !p.SidebarCollapsed {
		t.Error("expected saved preference back")
	}

	cfg.SavePrefs(Prefs{SidebarCollapsed: false})
	if p := cfg.LoadPrefs(); p.SidebarCollapsed {
		t.Error("expected overwritten preference back")
	}
}

func TestSavePrefs_UnwritableDirIsSilent(t *testing.T) {
	cfg := &Config{Dir: "/proc/no-such-dir"}
	// Must not panic or error out.
	cfg.SavePrefs(Prefs{SidebarCollapsed: true})
	if p := cfg.LoadPrefs(); p.SidebarCollapsed {
		t.Error("expected defaults when nothing was written")
	}
}
