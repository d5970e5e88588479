package library

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"aura/internal/config"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
)

// Snapshot is a consistent (root, index) pair. Rebuilds swap a whole new pair
// in; readers never observe a half-built index.
type Snapshot struct {
	Root  string
	Index Index
}

// Service owns the configured library root and its index. All mutation
// happens under one mutex held only for in-memory swaps; index building and
// filesystem watching run off the caller's path.
type Service struct {
	settingsPath string

	mu       sync.RWMutex
	root     string
	snapshot Snapshot
	watcher  *fsnotify.Watcher

	debounced func(func())
}

func NewService(settingsPath string) *Service {
	return &Service{
		settingsPath: settingsPath,
		debounced:    debounce.New(2 * time.Second),
	}
}

// Restore picks up a previously persisted library root and rebuilds the
// index in the background. No root configured is not an error.
func (s *Service) Restore() {
	settings, err := config.LoadSettings(s.settingsPath)
	if err != nil {
		log.Printf("library: settings unreadable, starting without a root: %v", err)
		return
	}
	if settings.LibraryRoot == "" {
		return
	}

	s.mu.Lock()
	s.root = settings.LibraryRoot
	s.mu.Unlock()

	go s.rebuild(settings.LibraryRoot)
}

// Root returns the configured library root, falling back to the persisted
// setting when nothing is held in memory yet.
func (s *Service) Root() string {
	s.mu.RLock()
	root := s.root
	s.mu.RUnlock()
	if root != "" {
		return root
	}

	settings, err := config.LoadSettings(s.settingsPath)
	if err != nil {
		return ""
	}

	return settings.LibraryRoot
}

// SetRoot validates and persists a new library root, then rebuilds the index
// in the background. The caller is never blocked on the walk.
func (s *Service) SetRoot(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat library root: %w", err)
	}
	if !info.IsDir() {
		return errors.New("library root is not a directory")
	}

	if err := config.SaveSettings(s.settingsPath, config.Settings{LibraryRoot: path}); err != nil {
		return err
	}

	s.mu.Lock()
	s.root = path
	s.mu.Unlock()

	go s.rebuild(path)
	return nil
}

// Snapshot returns the last fully built (root, index) pair.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *Service) rebuild(root string) {
	index := BuildIndex(root)

	s.mu.Lock()
	stale := s.root != root
	if !stale {
		s.snapshot = Snapshot{Root: root, Index: index}
	}
	s.mu.Unlock()

	if stale {
		return
	}

	s.resetWatches(root)
}

// StartWatching begins monitoring the library root so external changes
// trigger a reindex. Bursts of events are coalesced before rebuilding.
func (s *Service) StartWatching() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fs watcher: %w", err)
	}

	s.mu.Lock()
	s.watcher = watcher
	root := s.root
	s.mu.Unlock()

	go s.watchLoop(watcher)

	if root != "" {
		s.resetWatches(root)
	}

	return nil
}

func (s *Service) StopWatching() {
	s.mu.Lock()
	watcher := s.watcher
	s.watcher = nil
	s.mu.Unlock()

	if watcher != nil {
		watcher.Close()
	}
}

func (s *Service) watchLoop(watcher *fsnotify.Watcher) {
	for {
		select {
		case _, ok := <-watcher.Events:
			if !ok {
				return
			}
			s.debounced(func() {
				if root := s.Root(); root != "" {
					s.rebuild(root)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("library: watcher error: %v", err)
		}
	}
}

// resetWatches points the watcher at the root and its subdirectories.
// fsnotify watches are not recursive.
func (s *Service) resetWatches(root string) {
	s.mu.RLock()
	watcher := s.watcher
	s.mu.RUnlock()
	if watcher == nil {
		return
	}

	for _, existing := range watcher.WatchList() {
		_ = watcher.Remove(existing)
	}

	_ = watcher.Add(root)
	Walk(root, maxIndexDepth, func(path string, isDir bool) {
		if isDir {
			_ = watcher.Add(path)
		}
	})
}
