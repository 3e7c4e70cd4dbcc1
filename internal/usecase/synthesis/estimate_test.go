package synthesis

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

const sampleText = `This week in infrastructure.

A short roundup of what changed. The deploy pipeline got faster, the
cache layer got smaller, and the on-call rotation got quieter. Replies
welcome, as always.`

func TestEstimateIdempotent(t *testing.T) {
	a := Estimate(sampleText, "alloy", DefaultModel)
	b := Estimate(sampleText, "alloy", DefaultModel)
	if a != b {
		t.Errorf("identical inputs produced different reports:\n%+v\n%+v", a, b)
	}
}

func TestEstimateBasicFields(t *testing.T) {
	est := Estimate(sampleText, "alloy", DefaultModel)

	if est.TotalCharacters <= 0 {
		t.Error("TotalCharacters not positive")
	}
	if est.TotalWords <= 0 {
		t.Error("TotalWords not positive")
	}
	if est.NumChunks <= 0 {
		t.Error("NumChunks not positive")
	}
	if est.AvgChunkSize <= 0 || est.AvgChunkSize > float64(est.MaxCharsPerChunk) {
		t.Errorf("AvgChunkSize out of range: %v", est.AvgChunkSize)
	}
	if est.Voice != "alloy" || est.Model != DefaultModel {
		t.Errorf("voice/model not echoed: %q/%q", est.Voice, est.Model)
	}
	if est.ChunksOverLimit != 0 {
		t.Errorf("ChunksOverLimit = %d, want 0", est.ChunksOverLimit)
	}
}

func TestEstimateCostLinearity(t *testing.T) {
	est := Estimate(sampleText, "alloy", DefaultModel)
	want := float64(est.TotalCharacters) / 1000 * DefaultRatePerK
	if math.Abs(est.EstimatedCostUSD-want) > 0.0001 {
		t.Errorf("EstimatedCostUSD = %v, want %v", est.EstimatedCostUSD, want)
	}
}

func TestEstimateDurationHeuristic(t *testing.T) {
	// 300 words at 150 wpm is two minutes.
	words := strings.Repeat("word ", 300)
	est := Estimate(words, "alloy", DefaultModel)
	if est.TotalWords != 300 {
		t.Fatalf("TotalWords = %d, want 300", est.TotalWords)
	}
	if est.EstimatedMinutes != 2.0 {
		t.Errorf("EstimatedMinutes = %v, want 2.0", est.EstimatedMinutes)
	}
}

func TestEstimateEmptyText(t *testing.T) {
	est := Estimate("", "alloy", DefaultModel)
	if est.TotalCharacters != 0 || est.TotalWords != 0 || est.NumChunks != 0 {
		t.Errorf("non-zero counts for empty input: %+v", est)
	}
	if est.EstimatedMinutes != 0 || est.EstimatedCostUSD != 0 || est.AvgChunkSize != 0 {
		t.Errorf("non-zero projections for empty input: %+v", est)
	}
	if est.TextPreview != "" {
		t.Errorf("TextPreview = %q, want empty", est.TextPreview)
	}
}

func TestEstimateUnknownModelFallsBack(t *testing.T) {
	est := Estimate(sampleText, "alloy", "no-such-model")
	if est.Model != "no-such-model" {
		t.Errorf("Model = %q, want echo of input", est.Model)
	}
	want := round4(float64(est.TotalCharacters) / 1000 * DefaultRatePerK)
	if est.EstimatedCostUSD != want {
		t.Errorf("EstimatedCostUSD = %v, want fallback-rate %v", est.EstimatedCostUSD, want)
	}
}

func TestEstimateCustomPricing(t *testing.T) {
	pricing := Pricing{"premium": 0.03}
	est := NewEstimator(pricing, 0).Estimate(sampleText, "alloy", "premium")
	want := round4(float64(est.TotalCharacters) / 1000 * 0.03)
	if est.EstimatedCostUSD != want {
		t.Errorf("EstimatedCostUSD = %v, want %v", est.EstimatedCostUSD, want)
	}
}

func TestEstimatePreviewTruncation(t *testing.T) {
	long := strings.Repeat("a", 500)
	est := Estimate(long, "alloy", DefaultModel)
	if !strings.HasSuffix(est.TextPreview, "...") {
		t.Error("long input preview not truncated with ellipsis")
	}
	if n := utf8.RuneCountInString(est.TextPreview); n != previewChars+3 {
		t.Errorf("preview length = %d, want %d", n, previewChars+3)
	}

	short := "Short text."
	if est := Estimate(short, "alloy", DefaultModel); est.TextPreview != short {
		t.Errorf("short input preview = %q, want unmodified", est.TextPreview)
	}
}

func TestEstimateCountsRunes(t *testing.T) {
	est := Estimate("héllo wörld", "alloy", DefaultModel)
	if est.TotalCharacters != 11 {
		t.Errorf("TotalCharacters = %d, want 11 runes", est.TotalCharacters)
	}
}
