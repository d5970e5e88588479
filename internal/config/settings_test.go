package config

import (
	"path/filepath"
	"testing"
)

func TestLoadSettingsMissingFile(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if settings.LibraryRoot != "" {
		t.Fatalf("expected empty settings, got %+v", settings)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	saved := Settings{LibraryRoot: "/music/library"}
	if err := SaveSettings(path, saved); err != nil {
		t.Fatalf("save settings: %v", err)
	}

	loaded, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if loaded != saved {
		t.Fatalf("expected %+v, got %+v", saved, loaded)
	}
}

func TestSaveSettingsOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	if err := SaveSettings(path, Settings{LibraryRoot: "/old"}); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if err := SaveSettings(path, Settings{LibraryRoot: "/new"}); err != nil {
		t.Fatalf("overwrite settings: %v", err)
	}

	loaded, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if loaded.LibraryRoot != "/new" {
		t.Fatalf("expected /new, got %q", loaded.LibraryRoot)
	}
}
