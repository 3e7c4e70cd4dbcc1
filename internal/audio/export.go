package audio

import (
	"bytes"
	"fmt"
	"os"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Exporter encodes a finished segment to a container file and returns the
// exported bytes.
type Exporter interface {
	Export(seg *Segment, path string, bitrate string) ([]byte, error)
}

// MP3Exporter encodes PCM to MP3 by piping s16le samples through ffmpeg.
type MP3Exporter struct{}

// NewMP3Exporter returns an ffmpeg-backed MP3 exporter.
func NewMP3Exporter() *MP3Exporter { return &MP3Exporter{} }

// Export writes seg to path as MP3 at the given bitrate (e.g. "64k") and
// returns the file's raw bytes.
func (e *MP3Exporter) Export(seg *Segment, path string, bitrate string) ([]byte, error) {
	if seg == nil || seg.Len() == 0 {
		return nil, ErrEmptySegment
	}

	err := ffmpeg.Input("pipe:", ffmpeg.KwArgs{
		"f":  "s16le",
		"ar": strconv.Itoa(seg.SampleRate()),
		"ac": strconv.Itoa(seg.Channels()),
	}).
		Output(path, ffmpeg.KwArgs{
			"c:a": "libmp3lame",
			"b:a": bitrate,
		}).
		OverWriteOutput().
		WithInput(bytes.NewReader(seg.PCM())).
		Run()
	if err != nil {
		return nil, fmt.Errorf("audio: mp3 encode: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("audio: read exported file: %w", err)
	}
	return data, nil
}
