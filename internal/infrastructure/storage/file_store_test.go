package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPathForSanitizesTitle(t *testing.T) {
	fs := NewFileStore(t.TempDir())

	path, err := fs.PathFor("Weekly: Markets / Rates?")
	if err != nil {
		t.Fatalf("PathFor() error = %v", err)
	}
	base := filepath.Base(string(path))
	if base != "Weekly_-Markets-_-Rates.mp3" {
		t.Errorf("base = %q", base)
	}
	if !strings.Contains(string(path), filepath.Join("episodes", base)) {
		t.Errorf("path %q not under episodes/", path)
	}
}

func TestSaveWritesBytes(t *testing.T) {
	dir := t.TempDir()
	fs := NewFileStore(dir)

	path, err := fs.Save([]byte("mp3 bytes"), "Issue 1")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(string(path))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "mp3 bytes" {
		t.Errorf("content = %q", data)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain-title", "plain-title"},
		{"a/b\\c:d", "a_b_c_d"},
		{"  spaced out  ", "spaced-out"},
		{"", ""},
		{strings.Repeat("x", 150), strings.Repeat("x", 100)},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPathForEmptyTitleFallsBack(t *testing.T) {
	fs := NewFileStore(t.TempDir())
	path, err := fs.PathFor("???")
	if err != nil {
		t.Fatalf("PathFor() error = %v", err)
	}
	if filepath.Base(string(path)) != "episode.mp3" {
		t.Errorf("base = %q, want episode.mp3", filepath.Base(string(path)))
	}
}
