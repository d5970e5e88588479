package library

import (
	"io/fs"
	"os"
	"path/filepath"
)

// Walk visits files and directories under root, at most maxDepth directory
// levels deep. Directory symlinks are followed, but a resolved directory is
// never entered twice, so link cycles terminate. Filesystem errors skip the
// entry and the walk continues.
func Walk(root string, maxDepth int, visit func(path string, isDir bool)) {
	visited := map[string]struct{}{}
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		visited[resolved] = struct{}{}
	}

	walkDir(root, 1, maxDepth, visited, visit)
}

func walkDir(dir string, depth, maxDepth int, visited map[string]struct{}, visit func(string, bool)) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		isDir := entry.IsDir()
		if entry.Type()&fs.ModeSymlink != 0 {
			info, statErr := os.Stat(path)
			if statErr != nil {
				continue
			}
			isDir = info.IsDir()
		}

		visit(path, isDir)
		if !isDir || depth >= maxDepth {
			continue
		}

		resolved, resolveErr := filepath.EvalSymlinks(path)
		if resolveErr != nil {
			continue
		}
		if _, seen := visited[resolved]; seen {
			continue
		}
		visited[resolved] = struct{}{}

		walkDir(path, depth+1, maxDepth, visited, visit)
	}
}
