package synthesis

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/fsmatos/nl2audio-cli/internal/audio"
	"github.com/fsmatos/nl2audio-cli/internal/domain/tts"
	"github.com/fsmatos/nl2audio-cli/internal/text"
	"github.com/fsmatos/nl2audio-cli/pkg/logger"
)

// ValidBitrates enumerates the MP3 bitrates the exporter accepts.
var ValidBitrates = []string{"32k", "64k", "96k", "128k", "192k", "256k", "320k"}

// ValidBitrate reports whether b is an accepted bitrate string.
func ValidBitrate(b string) bool {
	for _, v := range ValidBitrates {
		if b == v {
			return true
		}
	}
	return false
}

// Options configures one Orchestrator.
type Options struct {
	Voice      string
	Model      string // used for estimation; the synthesizer carries its own
	Bitrate    string
	MaxMinutes int
	MaxChars   int           // per-chunk character ceiling; 0 means default
	Strategy   text.Strategy // chunking strategy; empty means smart

	// Pacing is slept between consecutive provider calls to avoid
	// overwhelming the service. Zero disables the throttle.
	Pacing time.Duration

	// ChunkTimeout bounds each provider call when the caller's context
	// carries no deadline.
	ChunkTimeout time.Duration

	// Decode turns one provider response into a Segment. Nil means MP3
	// decoding, which every supported provider returns.
	Decode func(r io.Reader) (*audio.Segment, error)
}

const (
	defaultPacing       = 200 * time.Millisecond
	defaultChunkTimeout = 90 * time.Second
)

// Result is the tagged outcome of Synthesize. Dry runs carry an
// Estimation; normal runs carry the exported bytes and their duration.
type Result struct {
	Estimation *Estimation
	Audio      []byte
	Duration   time.Duration
}

// Orchestrator drives the chunk-synthesize-concatenate-export pipeline.
// Chunks are processed strictly in order: the accumulated audio is a
// single mutable buffer and the duration ceiling must observe a running
// total in chunk order.
type Orchestrator struct {
	synth     tts.Synthesizer
	exporter  audio.Exporter
	estimator *Estimator
	opts      Options

	// decode is Options.Decode resolved against the MP3 default.
	decode func(r io.Reader) (*audio.Segment, error)
}

// NewOrchestrator wires a provider, an exporter and a pricing table.
// Zero-valued options fall back to defaults; validation happens per run.
func NewOrchestrator(synth tts.Synthesizer, exporter audio.Exporter, pricing Pricing, opts Options) *Orchestrator {
	if opts.MaxChars <= 0 {
		opts.MaxChars = text.DefaultMaxChars
	}
	if opts.Strategy == "" {
		opts.Strategy = text.StrategySmart
	}
	if opts.Pacing == 0 {
		opts.Pacing = defaultPacing
	}
	if opts.ChunkTimeout <= 0 {
		opts.ChunkTimeout = defaultChunkTimeout
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	decode := opts.Decode
	if decode == nil {
		decode = audio.DecodeMP3
	}
	return &Orchestrator{
		synth:     synth,
		exporter:  exporter,
		estimator: NewEstimator(pricing, opts.MaxChars),
		opts:      opts,
		decode:    decode,
	}
}

// Estimate projects cost and duration for input under this orchestrator's
// voice, model and chunk ceiling. No external calls are made.
func (o *Orchestrator) Estimate(input string) Estimation {
	return o.estimator.Estimate(input, o.opts.Voice, o.opts.Model)
}

// Synthesize converts input into one MP3 file at outPath and returns its
// raw bytes inside Result. With dryRun set it short-circuits to an
// Estimation and touches neither the provider nor the filesystem.
//
// Any chunk failure, a crossed duration ceiling or a failed export aborts
// the run without writing output.
func (o *Orchestrator) Synthesize(ctx context.Context, input, outPath string, dryRun bool) (*Result, error) {
	if dryRun {
		// No external call happens, so credential validation is skipped too.
		est := o.Estimate(input)
		logger.Info("dry run: synthesis skipped, returning estimation only",
			"chunks", est.NumChunks, "estimated_minutes", est.EstimatedMinutes)
		return &Result{Estimation: &est}, nil
	}

	if err := o.validate(); err != nil {
		return nil, err
	}

	chunks := text.Chunk(input, o.opts.MaxChars, o.opts.Strategy)
	if len(chunks) == 0 {
		return nil, &ConfigError{Field: "text", Reason: "no speakable text after normalization"}
	}

	logger.Info("synthesizing text",
		"chunks", len(chunks), "voice", o.opts.Voice, "max_chars", o.opts.MaxChars)

	limit := time.Duration(o.opts.MaxMinutes) * time.Minute
	var combined *audio.Segment

	for i, chunk := range chunks {
		seg, err := o.synthesizeChunk(ctx, chunk)
		if err != nil {
			return nil, &ChunkError{Index: i + 1, Total: len(chunks), Err: err}
		}

		if combined == nil {
			combined = seg
		} else if err := combined.Append(seg); err != nil {
			return nil, &ChunkError{Index: i + 1, Total: len(chunks), Err: err}
		}

		total := combined.Duration()
		logger.Debug("chunk synthesized",
			"chunk", i+1, "of", len(chunks), "chars", len(chunk), "total", total)

		if total > limit {
			logger.Warn("audio length limit exceeded",
				"total_minutes", total.Minutes(), "max_minutes", o.opts.MaxMinutes)
			return nil, &LengthExceededError{Limit: limit, Total: total}
		}

		if i < len(chunks)-1 && o.opts.Pacing > 0 {
			select {
			case <-time.After(o.opts.Pacing):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	logger.Info("all chunks processed", "total_seconds", combined.Duration().Seconds())

	combined.Normalize(audio.DefaultHeadroomDB)
	data, err := o.exporter.Export(combined, outPath, o.opts.Bitrate)
	if err != nil {
		return nil, &ExportError{Path: outPath, Err: err}
	}
	logger.Info("audio exported", "path", outPath, "bitrate", o.opts.Bitrate, "bytes", len(data))
	return &Result{Audio: data, Duration: combined.Duration()}, nil
}

// synthesizeChunk performs one provider call and decodes the response.
// A per-call deadline is derived when the parent context carries none;
// its expiry surfaces like any other chunk failure.
func (o *Orchestrator) synthesizeChunk(ctx context.Context, chunk string) (*audio.Segment, error) {
	callCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.opts.ChunkTimeout)
		defer cancel()
	}

	a, err := o.synth.Synthesize(callCtx, chunk)
	if err != nil {
		return nil, err
	}
	return o.decode(bytes.NewReader(a.Data))
}

func (o *Orchestrator) validate() error {
	if o.synth == nil {
		return &ConfigError{Field: "synthesizer", Reason: "not configured"}
	}
	if o.exporter == nil {
		return &ConfigError{Field: "exporter", Reason: "not configured"}
	}
	if o.opts.Voice == "" {
		return &ConfigError{Field: "voice", Reason: "must not be empty"}
	}
	if !ValidBitrate(o.opts.Bitrate) {
		return &ConfigError{Field: "bitrate", Reason: "must be one of 32k..320k"}
	}
	if o.opts.MaxMinutes <= 0 {
		return &ConfigError{Field: "max_minutes", Reason: "must be positive"}
	}
	if err := o.synth.Validate(); err != nil {
		return &ConfigError{Field: "credentials", Reason: err.Error()}
	}
	return nil
}
