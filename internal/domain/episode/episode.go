package episode

import (
	"context"
	"time"
)

// Episode is one produced podcast entry.
type Episode struct {
	ID          int64
	Title       string
	CreatedAt   time.Time
	Source      string // URL, file path, "stdin" or gmail message id
	Hash        string // sha256 of the exported audio bytes
	MP3Path     string
	DurationSec int
}

// Repository persists episode metadata. The implementation lives in the
// store layer; duplicates are detected by content hash.
type Repository interface {
	// Add records ep, hashing content for idempotence. Re-adding the same
	// content is a no-op and returns the existing row.
	Add(ctx context.Context, ep *Episode, content []byte) (*Episode, error)

	// List returns all episodes ordered by creation time ascending.
	List(ctx context.Context) ([]Episode, error)
}
