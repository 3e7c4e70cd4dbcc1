package tts

import (
	"context"
)

// Audio is one synthesized span of speech in a single container format.
type Audio struct {
	Data   []byte
	Format string // e.g. "mp3"
}

// Synthesizer converts one text chunk to Audio. Implementations wrap a
// concrete provider and carry voice/model configuration; callers only
// hand over text.
type Synthesizer interface {
	// Synthesize performs one provider call for the given text.
	Synthesize(ctx context.Context, text string) (*Audio, error)

	// Validate checks that the provider is usable (credentials present)
	// without performing a synthesis call.
	Validate() error
}
