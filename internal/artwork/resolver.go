package artwork

import (
	"os"
	"path/filepath"
	"strings"

	"aura/internal/library"
)

// maxScanDepth bounds the heuristic fallback scan.
const maxScanDepth = 8

// sidecarNames are conventional album-art filenames, jpg before png per name.
var sidecarNames = []string{
	"cover.jpg", "cover.png",
	"folder.jpg", "folder.png",
	"front.jpg", "front.png",
	"album.jpg", "album.png",
	"art.jpg", "art.png",
}

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// Snapshotter hands the resolver a consistent view of the library.
type Snapshotter interface {
	Snapshot() library.Snapshot
}

// Resolver maps now-playing metadata to a local artwork file. Strategies are
// tried in order and the first hit wins: index lookup with embedded/sidecar
// art, then a name-containment scan of the library root.
type Resolver struct {
	library Snapshotter
	cache   *Cache
}

func NewResolver(snapshots Snapshotter, cache *Cache) *Resolver {
	return &Resolver{library: snapshots, cache: cache}
}

// Resolve returns a best-effort local artwork path for the given track, or
// empty when nothing matches.
func (r *Resolver) Resolve(track, artist, album string) string {
	snapshot := r.library.Snapshot()

	hit := ""
	if snapshot.Index != nil {
		hit = snapshot.Index[library.KeyTitleArtist(track, artist)]
		if hit == "" && album != "" {
			hit = snapshot.Index[library.KeyTitleAlbum(track, album)]
		}
	}

	if hit != "" {
		if path := r.cache.ExtractEmbedded(hit); path != "" {
			return path
		}
		if path := sidecarIn(filepath.Dir(hit)); path != "" {
			return path
		}
		return ""
	}

	if snapshot.Root == "" {
		return ""
	}

	return scanForArt(snapshot.Root, artist, album, track)
}

// sidecarIn checks a directory for conventionally named art files.
func sidecarIn(dir string) string {
	for _, name := range sidecarNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	return ""
}

// scanForArt is the heuristic fallback: pass 1 looks for directories whose
// normalized name contains the artist, album or track and checks them for
// sidecar files; pass 2 accepts any image whose filename, parent or
// grandparent directory name contains one of the terms. Substring
// containment, so short names can false-positive.
func scanForArt(root, artist, album, track string) string {
	terms := normalizedTerms(artist, album, track)
	if len(terms) == 0 {
		return ""
	}

	found := ""
	library.Walk(root, maxScanDepth, func(path string, isDir bool) {
		if found != "" || !isDir {
			return
		}
		if containsAny(library.Norm(filepath.Base(path)), terms) {
			found = sidecarIn(path)
		}
	})
	if found != "" {
		return found
	}

	library.Walk(root, maxScanDepth, func(path string, isDir bool) {
		if found != "" || isDir {
			return
		}
		if _, ok := imageExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return
		}

		base := filepath.Base(path)
		stem := library.Norm(strings.TrimSuffix(base, filepath.Ext(base)))
		parent := library.Norm(filepath.Base(filepath.Dir(path)))
		grandparent := library.Norm(filepath.Base(filepath.Dir(filepath.Dir(path))))

		if containsAny(stem, terms) || containsAny(parent, terms) || containsAny(grandparent, terms) {
			found = path
		}
	})

	return found
}

func normalizedTerms(values ...string) []string {
	terms := make([]string, 0, len(values))
	for _, value := range values {
		if normalized := library.Norm(value); normalized != "" {
			terms = append(terms, normalized)
		}
	}

	return terms
}

func containsAny(name string, terms []string) bool {
	if name == "" {
		return false
	}
	for _, term := range terms {
		if strings.Contains(name, term) {
			return true
		}
	}

	return false
}
