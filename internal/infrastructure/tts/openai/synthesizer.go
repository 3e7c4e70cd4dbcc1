// Package openai implements tts.Synthesizer against the OpenAI speech
// endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsmatos/nl2audio-cli/internal/domain/tts"
	"github.com/fsmatos/nl2audio-cli/pkg/logger"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"
	defaultModel   = "gpt-4o-mini-tts"
	defaultVoice   = "alloy"
	responseFormat = "mp3"
	defaultTimeout = 90 * time.Second
)

// ErrMissingAPIKey is returned by Validate when no key could be resolved.
var ErrMissingAPIKey = errors.New("openai api key is required")

// Synthesizer implements tts.Synthesizer using the OpenAI TTS endpoint.
type Synthesizer struct {
	apiKey  string
	voice   string
	model   string
	baseURL string
	client  *http.Client
}

// NewSynthesizer creates an OpenAI TTS synthesizer. If apiKey is empty it
// tries the OPENAI_API_KEY environment variable, then a key file under the
// secrets directory. A missing key is not an error here: resolution
// failures surface via Validate, so estimate-only runs stay possible
// without credentials.
func NewSynthesizer(apiKey, voice, model string) *Synthesizer {
	if apiKey == "" {
		apiKey = resolveAPIKey()
	}
	if voice == "" {
		voice = defaultVoice
	}
	if model == "" {
		model = defaultModel
	}
	return &Synthesizer{
		apiKey:  apiKey,
		voice:   voice,
		model:   model,
		baseURL: defaultBaseURL,
		client:  http.DefaultClient,
	}
}

// Validate reports whether a provider call could be attempted.
func (s *Synthesizer) Validate() error {
	if s.apiKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Synthesize converts text to audio bytes (mp3).
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (*tts.Audio, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	payload := map[string]any{
		"model":           s.model,
		"input":           text,
		"voice":           s.voice,
		"response_format": responseFormat,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal tts request: %w", err)
	}

	// adopt timeout from ctx or fallback to 90s
	reqCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, s.baseURL+"/audio/speech", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openai error %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	audioBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	logger.Debug("tts chunk synthesized",
		"model", s.model, "voice", s.voice,
		"chars", len([]rune(text)), "bytes", len(audioBytes),
		"elapsed", time.Since(start))

	return &tts.Audio{Data: audioBytes, Format: responseFormat}, nil
}

// resolveAPIKey returns the OpenAI API key.
// Priority: env OPENAI_API_KEY > file openai_api_key.txt under SECRETS_DIR.
func resolveAPIKey() string {
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		return k
	}
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "secrets"
	}
	path := filepath.Join(secretsDir, "openai_api_key.txt")
	if data, err := os.ReadFile(path); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
