// Package synthesis turns normalized newsletter text into one exported
// audio episode: it estimates cost and duration without synthesis, and
// orchestrates chunk-by-chunk synthesis, concatenation and export.
package synthesis

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/fsmatos/nl2audio-cli/internal/text"
)

// DefaultModel is the synthesis model assumed when none is configured.
const DefaultModel = "gpt-4o-mini-tts"

// DefaultRatePerK is the fallback USD rate per 1000 characters applied to
// unrecognized models.
const DefaultRatePerK = 0.00015

// wordsPerMinute is the speaking-rate assumption behind duration
// estimates. It is an approximation, not measured audio.
const wordsPerMinute = 150

// previewChars bounds the text preview included in an Estimation.
const previewChars = 200

// Pricing maps a TTS model to its USD rate per 1000 characters.
type Pricing map[string]float64

// DefaultPricing mirrors the provider's published TTS rates.
var DefaultPricing = Pricing{
	DefaultModel: 0.00015,
}

// Rate returns the per-1K-character rate for model, falling back to
// DefaultRatePerK for unrecognized models.
func (p Pricing) Rate(model string) float64 {
	if r, ok := p[model]; ok {
		return r
	}
	return DefaultRatePerK
}

// Estimation is a pure projection of what synthesizing a text would cost
// and produce. Computing it performs no external calls.
type Estimation struct {
	TotalCharacters  int     `json:"total_characters"`
	TotalWords       int     `json:"total_words"`
	NumChunks        int     `json:"num_chunks"`
	AvgChunkSize     float64 `json:"avg_chunk_size"`
	EstimatedMinutes float64 `json:"estimated_minutes"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd"`
	Model            string  `json:"model"`
	Voice            string  `json:"voice"`
	ChunksOverLimit  int     `json:"chunks_over_limit"`
	MaxCharsPerChunk int     `json:"max_chars_per_chunk"`
	TextPreview      string  `json:"text_preview"`
}

// Estimator computes Estimations against an immutable pricing table.
type Estimator struct {
	pricing  Pricing
	maxChars int
}

// NewEstimator builds an Estimator. A nil pricing table falls back to
// DefaultPricing; a non-positive maxChars falls back to the chunker
// default.
func NewEstimator(pricing Pricing, maxChars int) *Estimator {
	if pricing == nil {
		pricing = DefaultPricing
	}
	if maxChars <= 0 {
		maxChars = text.DefaultMaxChars
	}
	return &Estimator{pricing: pricing, maxChars: maxChars}
}

// Estimate normalizes and chunks input (smart strategy) and projects
// character count, chunk layout, duration and cost. It is deterministic:
// identical input yields a bit-identical report.
func (e *Estimator) Estimate(input, voice, model string) Estimation {
	cleaned := text.Normalize(input)
	chunks := text.Chunk(cleaned, e.maxChars, text.StrategySmart)

	totalChars := utf8.RuneCountInString(cleaned)
	words := len(strings.Fields(cleaned))

	var avg float64
	if len(chunks) > 0 {
		avg = round1(float64(totalChars) / float64(len(chunks)))
	}

	over := 0
	for _, c := range chunks {
		if utf8.RuneCountInString(c) > e.maxChars {
			over++
		}
	}

	return Estimation{
		TotalCharacters:  totalChars,
		TotalWords:       words,
		NumChunks:        len(chunks),
		AvgChunkSize:     avg,
		EstimatedMinutes: round1(float64(words) / wordsPerMinute),
		EstimatedCostUSD: round4(float64(totalChars) / 1000 * e.pricing.Rate(model)),
		Model:            model,
		Voice:            voice,
		ChunksOverLimit:  over,
		MaxCharsPerChunk: e.maxChars,
		TextPreview:      preview(cleaned),
	}
}

// Estimate projects cost and duration for input using the default pricing
// table and chunk ceiling.
func Estimate(input, voice, model string) Estimation {
	return NewEstimator(nil, 0).Estimate(input, voice, model)
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewChars {
		return s
	}
	return string(r[:previewChars]) + "..."
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
