package synthesis

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsmatos/nl2audio-cli/internal/audio"
	"github.com/fsmatos/nl2audio-cli/internal/domain/tts"
)

// stubSynth returns one tagged byte per call so tests can observe call
// order, and can be told to fail at a specific chunk.
type stubSynth struct {
	calls       []string
	failAt      int // 1-based; 0 never fails
	validateErr error
}

func (s *stubSynth) Synthesize(ctx context.Context, text string) (*tts.Audio, error) {
	s.calls = append(s.calls, text)
	if s.failAt != 0 && len(s.calls) == s.failAt {
		return nil, errors.New("provider unavailable")
	}
	return &tts.Audio{Data: []byte{byte(len(s.calls))}, Format: "mp3"}, nil
}

func (s *stubSynth) Validate() error { return s.validateErr }

// stubExporter records the segment it was handed and pretend-encodes it
// by returning the raw PCM bytes.
type stubExporter struct {
	called  bool
	path    string
	bitrate string
	err     error
}

func (e *stubExporter) Export(seg *audio.Segment, path, bitrate string) ([]byte, error) {
	e.called = true
	e.path = path
	e.bitrate = bitrate
	if e.err != nil {
		return nil, e.err
	}
	return seg.PCM(), nil
}

// decodeTagged maps each one-byte provider payload to a segment holding
// framesPerChunk frames whose first sample carries the tag.
func decodeTagged(framesPerChunk int) func(io.Reader) (*audio.Segment, error) {
	return func(r io.Reader) (*audio.Segment, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		samples := make([]int16, framesPerChunk)
		samples[0] = int16(data[0])
		return audio.NewSegment(samples, 24000, 1)
	}
}

func testOptions() Options {
	return Options{
		Voice:      "alloy",
		Bitrate:    "64k",
		MaxMinutes: 60,
		MaxChars:   3500,
		Pacing:     time.Millisecond,
	}
}

// fourChunkText yields exactly four chunks at maxChars=5 (smart strategy,
// one paragraph per word).
const fourChunkText = "alpha\n\nbravo\n\ncharl\n\ndelta"

func TestSynthesizeDryRunMatchesEstimate(t *testing.T) {
	synth := &stubSynth{validateErr: errors.New("no key")} // must never be consulted
	exp := &stubExporter{}
	o := NewOrchestrator(synth, exp, nil, testOptions())

	outPath := filepath.Join(t.TempDir(), "episode.mp3")
	res, err := o.Synthesize(context.Background(), sampleText, outPath, true)
	if err != nil {
		t.Fatalf("dry run failed: %v", err)
	}
	if res.Audio != nil {
		t.Error("dry run returned audio bytes")
	}
	if res.Estimation == nil {
		t.Fatal("dry run returned no estimation")
	}
	if want := o.Estimate(sampleText); *res.Estimation != want {
		t.Errorf("dry-run estimation differs from Estimate:\n%+v\n%+v", *res.Estimation, want)
	}
	if len(synth.calls) != 0 {
		t.Errorf("dry run made %d provider calls", len(synth.calls))
	}
	if exp.called {
		t.Error("dry run invoked the exporter")
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Error("dry run created an output file")
	}
}

func TestSynthesizeOrderingAndResult(t *testing.T) {
	synth := &stubSynth{}
	exp := &stubExporter{}
	opts := testOptions()
	opts.MaxChars = 5
	o := NewOrchestrator(synth, exp, nil, opts)
	o.decode = decodeTagged(4)

	res, err := o.Synthesize(context.Background(), fourChunkText, "out.mp3", false)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if res.Estimation != nil {
		t.Error("normal run returned an estimation")
	}

	if len(synth.calls) != 4 {
		t.Fatalf("provider called %d times, want 4", len(synth.calls))
	}
	wantChunks := []string{"alpha", "bravo", "charl", "delta"}
	for i, w := range wantChunks {
		if synth.calls[i] != w {
			t.Errorf("call %d = %q, want %q", i, synth.calls[i], w)
		}
	}

	// Every 4th sample's low byte carries the chunk tag, in source order.
	pcm := res.Audio
	if len(pcm) != 4*4*2 {
		t.Fatalf("exported %d bytes, want %d", len(pcm), 4*4*2)
	}
	for i := 0; i < 4; i++ {
		if tag := pcm[i*8]; tag != byte(i+1) {
			t.Errorf("segment %d carries tag %d, want %d", i, tag, i+1)
		}
	}
	if exp.bitrate != "64k" || exp.path != "out.mp3" {
		t.Errorf("exporter got path=%q bitrate=%q", exp.path, exp.bitrate)
	}
}

func TestSynthesizeCeilingAbort(t *testing.T) {
	synth := &stubSynth{}
	exp := &stubExporter{}
	opts := testOptions()
	opts.MaxChars = 5
	opts.MaxMinutes = 1
	o := NewOrchestrator(synth, exp, nil, opts)
	// 30 seconds of audio per chunk; four chunks cross a 1-minute limit
	// at chunk three.
	o.decode = decodeTagged(30 * 24000)

	outPath := filepath.Join(t.TempDir(), "episode.mp3")
	_, err := o.Synthesize(context.Background(), fourChunkText, outPath, false)

	var lengthErr *LengthExceededError
	if !errors.As(err, &lengthErr) {
		t.Fatalf("got %v, want LengthExceededError", err)
	}
	if lengthErr.Limit != time.Minute {
		t.Errorf("Limit = %v, want 1m", lengthErr.Limit)
	}
	if lengthErr.Total != 90*time.Second {
		t.Errorf("Total = %v, want 90s", lengthErr.Total)
	}
	if len(synth.calls) != 3 {
		t.Errorf("provider called %d times, want abort after 3", len(synth.calls))
	}
	if exp.called {
		t.Error("exporter invoked after ceiling abort")
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Error("output file written despite ceiling abort")
	}
}

func TestSynthesizeChunkFailureAborts(t *testing.T) {
	synth := &stubSynth{failAt: 2}
	exp := &stubExporter{}
	opts := testOptions()
	opts.MaxChars = 5
	o := NewOrchestrator(synth, exp, nil, opts)
	o.decode = decodeTagged(4)

	_, err := o.Synthesize(context.Background(), fourChunkText, "out.mp3", false)

	var chunkErr *ChunkError
	if !errors.As(err, &chunkErr) {
		t.Fatalf("got %v, want ChunkError", err)
	}
	if chunkErr.Index != 2 || chunkErr.Total != 4 {
		t.Errorf("ChunkError = %d/%d, want 2/4", chunkErr.Index, chunkErr.Total)
	}
	if len(synth.calls) != 2 {
		t.Errorf("provider called %d times after chunk failure, want 2", len(synth.calls))
	}
	if exp.called {
		t.Error("exporter invoked after chunk failure")
	}
}

func TestSynthesizeExportFailure(t *testing.T) {
	synth := &stubSynth{}
	exp := &stubExporter{err: errors.New("encoder missing")}
	opts := testOptions()
	opts.MaxChars = 5
	o := NewOrchestrator(synth, exp, nil, opts)
	o.decode = decodeTagged(4)

	_, err := o.Synthesize(context.Background(), fourChunkText, "out.mp3", false)

	var exportErr *ExportError
	if !errors.As(err, &exportErr) {
		t.Fatalf("got %v, want ExportError", err)
	}
}

func TestSynthesizeConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		synth  *stubSynth
		field  string
	}{
		{"empty voice", func(o *Options) { o.Voice = "" }, &stubSynth{}, "voice"},
		{"bad bitrate", func(o *Options) { o.Bitrate = "48k" }, &stubSynth{}, "bitrate"},
		{"zero max minutes", func(o *Options) { o.MaxMinutes = 0 }, &stubSynth{}, "max_minutes"},
		{"missing credentials", func(o *Options) {}, &stubSynth{validateErr: errors.New("no key")}, "credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.mutate(&opts)
			o := NewOrchestrator(tt.synth, &stubExporter{}, nil, opts)
			o.decode = decodeTagged(4)

			_, err := o.Synthesize(context.Background(), sampleText, "out.mp3", false)

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("got %v, want ConfigError", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", cfgErr.Field, tt.field)
			}
			if len(tt.synth.calls) != 0 {
				t.Errorf("provider called %d times before validation", len(tt.synth.calls))
			}
		})
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	o := NewOrchestrator(&stubSynth{}, &stubExporter{}, nil, testOptions())
	_, err := o.Synthesize(context.Background(), "   \n\n ", "out.mp3", false)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("got %v, want ConfigError for empty text", err)
	}
}
