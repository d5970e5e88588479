package library

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWalkDepthBound(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(a, "b")
	if err := os.MkdirAll(b, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(a, "one.mp3"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(b, "two.mp3"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	seen := map[string]bool{}
	Walk(root, 2, func(path string, isDir bool) {
		seen[path] = true
	})

	for _, want := range []string{a, filepath.Join(a, "one.mp3"), b} {
		if !seen[want] {
			t.Fatalf("expected to visit %s, saw %v", want, seen)
		}
	}
	if seen[filepath.Join(b, "two.mp3")] {
		t.Fatal("visited a path beyond the depth bound")
	}
}

func TestWalkSymlinkCycleTerminates(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a")
	if err := os.Mkdir(a, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(root, filepath.Join(a, "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	visits := 0
	Walk(root, 20, func(path string, isDir bool) {
		visits++
		if visits > 100 {
			t.Fatal("walk did not terminate on a symlink cycle")
		}
	})

	// a, and the loop link itself (never entered).
	if visits != 2 {
		t.Fatalf("expected 2 visits, got %d", visits)
	}
}

func TestWalkMissingRoot(t *testing.T) {
	Walk(filepath.Join(t.TempDir(), "nope"), 5, func(path string, isDir bool) {
		t.Fatalf("unexpected visit of %s", path)
	})
}
