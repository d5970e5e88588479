package config

import (
	"fmt"
	"os"
	"path/filepath"
)

type Paths struct {
	BaseDir      string
	SettingsPath string
	TokenPath    string
	ArtCacheDir  string
	DBPath       string
}

func ResolvePaths(appSlug string) (Paths, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("resolve user config dir: %w", err)
	}

	baseDir := filepath.Join(configDir, appSlug)
	artCacheDir := filepath.Join(baseDir, "artcache")

	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create app config dir: %w", err)
	}

	if err := os.MkdirAll(artCacheDir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("create art cache dir: %w", err)
	}

	return Paths{
		BaseDir:      baseDir,
		SettingsPath: filepath.Join(baseDir, "settings.json"),
		TokenPath:    filepath.Join(baseDir, "token.json"),
		ArtCacheDir:  artCacheDir,
		DBPath:       filepath.Join(baseDir, "artcache.db"),
	}, nil
}
