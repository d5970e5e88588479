package library

import (
	"path/filepath"
	"strings"

	"go.senan.xyz/taglib"
)

// maxIndexDepth bounds the library walk.
const maxIndexDepth = 20

var audioExtensions = map[string]struct{}{
	".aa":   {},
	".aax":  {},
	".aac":  {},
	".aiff": {},
	".ape":  {},
	".dsf":  {},
	".flac": {},
	".m4a":  {},
	".m4b":  {},
	".m4p":  {},
	".mp3":  {},
	".mpc":  {},
	".mpp":  {},
	".ogg":  {},
	".oga":  {},
	".wav":  {},
	".wma":  {},
	".wv":   {},
	".webm": {},
}

// Index maps normalized (title, artist) and (title, album) keys to audio file
// paths. On key collisions the later write wins.
type Index map[string]string

// Norm lowercases and strips everything but ASCII letters and digits, so
// "Song, One!" and "song one" collapse to the same key material.
func Norm(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func KeyTitleArtist(title, artist string) string {
	return Norm(title) + "|" + Norm(artist)
}

func KeyTitleAlbum(title, album string) string {
	return Norm(title) + "|" + Norm(album)
}

func IsAudioPath(path string) bool {
	_, ok := audioExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// BuildIndex walks root and produces a fresh lookup of normalized keys to
// file paths. Unreadable files and tag parse failures are skipped silently;
// the walk always completes.
func BuildIndex(root string) Index {
	index := Index{}

	Walk(root, maxIndexDepth, func(path string, isDir bool) {
		if isDir || !IsAudioPath(path) {
			return
		}

		tags, err := taglib.ReadTags(path)
		if err != nil {
			return
		}

		addEntries(index, path, tags)
	})

	return index
}

func addEntries(index Index, path string, tags map[string][]string) {
	title := firstTagValue(tags, taglib.Title, "TITLE")
	if title == "" {
		base := filepath.Base(path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if title == "" {
		return
	}

	if artist := firstTagValue(tags, taglib.Artist, "ARTIST"); artist != "" {
		index[KeyTitleArtist(title, artist)] = path
	}
	if album := firstTagValue(tags, taglib.Album, "ALBUM"); album != "" {
		index[KeyTitleAlbum(title, album)] = path
	}
}

func firstTagValue(tags map[string][]string, keys ...string) string {
	for _, key := range keys {
		values, ok := tags[key]
		if !ok {
			continue
		}
		for _, value := range values {
			trimmed := strings.TrimSpace(value)
			if trimmed != "" {
				return trimmed
			}
		}
	}

	return ""
}
