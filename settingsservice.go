package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"aura/internal/artwork"
	"aura/internal/library"
)

type SettingsService struct {
	library  *library.Service
	artCache *artwork.Cache
}

func NewSettingsService(libraryService *library.Service, artCache *artwork.Cache) *SettingsService {
	return &SettingsService{library: libraryService, artCache: artCache}
}

func (s *SettingsService) GetLibraryRoot() string {
	return s.library.Root()
}

// SetLibraryRoot persists a new library root and kicks off a background
// reindex. Previously extracted artwork is forgotten so sources under the
// new root are re-read.
func (s *SettingsService) SetLibraryRoot(path string) error {
	cleaned, err := normalizePath(path)
	if err != nil {
		return err
	}

	if err := s.library.SetRoot(cleaned); err != nil {
		return err
	}

	s.artCache.Clear()
	return nil
}

func normalizePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is required")
	}

	absPath, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	return filepath.Clean(absPath), nil
}
