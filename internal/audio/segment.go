// Package audio holds the in-memory PCM representation used to assemble
// synthesized chunks into one episode: decode, concatenate, normalize and
// export at a target bitrate.
package audio

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DefaultHeadroomDB is how far below full scale the loudest sample lands
// after normalization.
const DefaultHeadroomDB = 0.1

// ErrEmptySegment is returned when an operation needs at least one sample.
var ErrEmptySegment = errors.New("audio: empty segment")

// Segment is a duration-bearing slice of 16-bit interleaved PCM.
type Segment struct {
	samples  []int16
	rate     int
	channels int
}

// NewSegment wraps raw interleaved samples. rate and channels must be
// positive; samples may be empty.
func NewSegment(samples []int16, rate, channels int) (*Segment, error) {
	if rate <= 0 || channels <= 0 {
		return nil, fmt.Errorf("audio: invalid format rate=%d channels=%d", rate, channels)
	}
	return &Segment{samples: samples, rate: rate, channels: channels}, nil
}

// Empty returns a zero-length segment in the given format.
func Empty(rate, channels int) *Segment {
	return &Segment{rate: rate, channels: channels}
}

// SampleRate returns samples per second per channel.
func (s *Segment) SampleRate() int { return s.rate }

// Channels returns the channel count.
func (s *Segment) Channels() int { return s.channels }

// Len returns the number of interleaved samples.
func (s *Segment) Len() int { return len(s.samples) }

// Duration returns the playback length of the segment.
func (s *Segment) Duration() time.Duration {
	if s.rate == 0 || s.channels == 0 {
		return 0
	}
	frames := len(s.samples) / s.channels
	return time.Duration(float64(frames) / float64(s.rate) * float64(time.Second))
}

// Append concatenates other onto s. Both segments must share sample rate
// and channel count; resampling is out of scope.
func (s *Segment) Append(other *Segment) error {
	if other == nil || other.Len() == 0 {
		return nil
	}
	if s.Len() == 0 {
		s.rate = other.rate
		s.channels = other.channels
	}
	if s.rate != other.rate || s.channels != other.channels {
		return fmt.Errorf("audio: format mismatch %dHz/%dch vs %dHz/%dch",
			s.rate, s.channels, other.rate, other.channels)
	}
	s.samples = append(s.samples, other.samples...)
	return nil
}

// Normalize applies a uniform gain so the peak sample sits headroomDB
// below full scale. A silent segment is left unchanged.
func (s *Segment) Normalize(headroomDB float64) {
	var peak int32
	for _, v := range s.samples {
		a := int32(v)
		if a < 0 {
			a = -a
		}
		if a > peak {
			peak = a
		}
	}
	if peak == 0 {
		return
	}
	peakDB := 20 * math.Log10(float64(peak)/32768.0)
	gain := math.Pow(10, (-headroomDB-peakDB)/20)
	for i, v := range s.samples {
		scaled := float64(v) * gain
		switch {
		case scaled > math.MaxInt16:
			s.samples[i] = math.MaxInt16
		case scaled < math.MinInt16:
			s.samples[i] = math.MinInt16
		default:
			s.samples[i] = int16(scaled)
		}
	}
}

// PCM renders the samples as little-endian signed 16-bit bytes, the layout
// ffmpeg expects on an s16le pipe.
func (s *Segment) PCM() []byte {
	out := make([]byte, len(s.samples)*2)
	for i, v := range s.samples {
		out[2*i] = byte(v)
		out[2*i+1] = byte(uint16(v) >> 8)
	}
	return out
}
