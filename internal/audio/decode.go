package audio

import (
	"fmt"
	"io"

	mp3 "github.com/hajimehoshi/go-mp3"
)

// mp3Channels is fixed by the decoder: go-mp3 always emits 16-bit stereo.
const mp3Channels = 2

// DecodeMP3 decodes a full MP3 stream into a Segment.
func DecodeMP3(r io.Reader) (*Segment, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("audio: decode mp3: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("audio: read pcm: %w", err)
	}
	samples := make([]int16, len(raw)/2)
	for i := range samples {
		samples[i] = int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
	}
	return NewSegment(samples, dec.SampleRate(), mp3Channels)
}
