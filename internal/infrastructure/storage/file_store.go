// Package storage persists exported episode audio on the local filesystem.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/fsmatos/nl2audio-cli/internal/domain/audio"
)

const episodesSubdir = "episodes"

// FileStore saves episode MP3s under <output>/episodes/.
type FileStore struct {
	OutputDir string
}

func NewFileStore(outputDir string) *FileStore {
	if outputDir == "" {
		outputDir = "output"
	}
	return &FileStore{OutputDir: outputDir}
}

// PathFor returns <output>/episodes/<sanitized title>.mp3, creating the
// episodes directory as needed.
func (fs *FileStore) PathFor(title string) (audio.Path, error) {
	dir := filepath.Join(fs.OutputDir, episodesSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create episodes dir: %w", err)
	}
	name := SanitizeFilename(title)
	if name == "" {
		name = "episode"
	}
	return audio.Path(filepath.Join(dir, name+".mp3")), nil
}

// Save writes data to the path PathFor resolves for title.
func (fs *FileStore) Save(data []byte, title string) (audio.Path, error) {
	path, err := fs.PathFor(title)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(string(path), data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// SanitizeFilename replaces characters that are invalid in filenames and
// caps the result at 100 runes.
func SanitizeFilename(s string) string {
	if !utf8.ValidString(s) {
		var builder strings.Builder
		for _, r := range s {
			if r != utf8.RuneError {
				builder.WriteRune(r)
			}
		}
		s = builder.String()
	}

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		"\x00", "_",
		" ", "-",
	)
	safe := replacer.Replace(strings.TrimSpace(s))

	runes := []rune(safe)
	if len(runes) > 100 {
		safe = string(runes[:100])
	}
	return strings.Trim(safe, "-_.")
}
