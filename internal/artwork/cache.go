package artwork

import (
	"database/sql"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.senan.xyz/taglib"
)

// Cache extracts embedded cover pictures into a per-app cache directory and
// remembers each extraction in the covers ledger, so a source file is read at
// most once across runs.
type Cache struct {
	dir string
	db  *sql.DB
}

func NewCache(dir string, database *sql.DB) *Cache {
	return &Cache{dir: dir, db: database}
}

// ExtractEmbedded returns the cached artwork path for the given audio file,
// extracting the embedded picture on a ledger miss. Empty result means the
// file carries no usable picture.
func (c *Cache) ExtractEmbedded(audioPath string) string {
	if cached := c.lookup(audioPath); cached != "" {
		return cached
	}

	data, err := taglib.ReadImage(audioPath)
	if err != nil || len(data) == 0 {
		return ""
	}

	mime := http.DetectContentType(data)
	outPath := filepath.Join(c.dir, sanitizePath(audioPath)+"."+extensionForMime(mime))

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return ""
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return ""
	}

	c.record(audioPath, outPath, mime)
	return outPath
}

// Clear forgets every recorded extraction. Called when the library root
// changes so stale sources are re-read.
func (c *Cache) Clear() {
	if c.db == nil {
		return
	}

	if _, err := c.db.Exec("DELETE FROM covers"); err != nil {
		log.Printf("artwork: clear covers ledger: %v", err)
	}
}

func (c *Cache) lookup(audioPath string) string {
	if c.db == nil {
		return ""
	}

	var cachePath string
	err := c.db.QueryRow(
		"SELECT cache_path FROM covers WHERE source_path = ?",
		audioPath,
	).Scan(&cachePath)
	if err != nil {
		return ""
	}

	if info, statErr := os.Stat(cachePath); statErr != nil || info.IsDir() {
		return ""
	}

	return cachePath
}

func (c *Cache) record(audioPath, cachePath, mime string) {
	if c.db == nil {
		return
	}

	if _, err := c.db.Exec(
		`INSERT INTO covers(source_path, cache_path, mime, extracted_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(source_path) DO UPDATE SET
			cache_path = excluded.cache_path,
			mime = excluded.mime,
			extracted_at = excluded.extracted_at`,
		audioPath,
		cachePath,
		mime,
		time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		log.Printf("artwork: record extraction for %s: %v", audioPath, err)
	}
}

func extensionForMime(mime string) string {
	switch mime {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}

// sanitizePath makes a deterministic cache filename from a source path.
func sanitizePath(path string) string {
	replacer := strings.NewReplacer(
		"\\", "_",
		"/", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)

	return replacer.Replace(path)
}
