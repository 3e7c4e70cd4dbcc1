package googleauth

import (
	"net/http"
	"time"

	"github.com/fsmatos/nl2audio-cli/pkg/logger"
)

// loggingTransport wraps an http.RoundTripper and logs outgoing Google
// API requests with method, URL, latency and status. Enabled via the
// NL2AUDIO_DEBUG_HTTP environment variable; bodies are never dumped
// because they may contain message content.
type loggingTransport struct {
	base http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	rt := t.base
	if rt == nil {
		rt = http.DefaultTransport
	}
	resp, err := rt.RoundTrip(req)
	if err != nil {
		logger.Debug("google api request failed",
			"method", req.Method, "url", req.URL.String(),
			"elapsed", time.Since(start), "error", err.Error())
		return resp, err
	}
	logger.Debug("google api request",
		"method", req.Method, "url", req.URL.String(),
		"status", resp.StatusCode, "elapsed", time.Since(start))
	return resp, err
}
