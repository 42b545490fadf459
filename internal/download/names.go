package download

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"karolbroda.com/moosic/internal/track"
)

const maxNameLength = 180

var nameReplacer = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
	"\"", "'", "<", "_", ">", "_", "|", "_",
)

// FileName returns "Artist - Title.mp3" with characters that are invalid on
// common filesystems replaced.
func FileName(t *track.Track) string {
	return SanitizeName(t.DisplayName()) + ".mp3"
}

func SanitizeName(name string) string {
	name = nameReplacer.Replace(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.Join(strings.Fields(name), " ")
	name = strings.Trim(name, ". ")

	if len(name) > maxNameLength {
		cut := maxNameLength
		for cut > 0 && !utf8Start(name[cut]) {
			cut--
		}
		name = strings.TrimSpace(name[:cut])
	}
	if name == "" {
		return "track"
	}
	return name
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}

// UniquePath joins dir and name, appending " (1)", " (2)" and so on before
// the extension until the path does not exist.
func UniquePath(dir, name string) string {
	return uniquePath(dir, name, exists)
}

func uniquePath(dir, name string, taken func(string) bool) string {
	path := filepath.Join(dir, name)
	if !taken(path) {
		return path
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", base, i, ext))
		if !taken(candidate) {
			return candidate
		}
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
