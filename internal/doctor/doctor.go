// Package doctor runs environment and configuration health checks.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fsmatos/nl2audio-cli/internal/config"
	"github.com/fsmatos/nl2audio-cli/internal/usecase/synthesis"
)

// Status classifies one check outcome.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckResult is one diagnostic finding.
type CheckResult struct {
	Name        string `json:"name"`
	Status      Status `json:"status"`
	Message     string `json:"message"`
	Remediation string `json:"remediation,omitempty"`
}

// Run executes all checks against cfg and returns their results in a
// stable order.
func Run(cfg *config.Config) []CheckResult {
	checks := []func(*config.Config) CheckResult{
		checkVoice,
		checkBitrate,
		checkMaxMinutes,
		checkOutputDir,
		checkAPIKey,
		checkFFmpeg,
		checkGmail,
	}
	out := make([]CheckResult, 0, len(checks))
	for _, c := range checks {
		out = append(out, c(cfg))
	}
	return out
}

// Failed reports whether any result is a hard failure.
func Failed(results []CheckResult) bool {
	for _, r := range results {
		if r.Status == StatusFail {
			return true
		}
	}
	return false
}

func checkVoice(cfg *config.Config) CheckResult {
	if strings.TrimSpace(cfg.Voice) == "" {
		return CheckResult{
			Name:        "voice",
			Status:      StatusFail,
			Message:     "voice is empty",
			Remediation: "set voice in config.toml or NL2AUDIO_VOICE",
		}
	}
	return CheckResult{Name: "voice", Status: StatusPass, Message: cfg.Voice}
}

func checkBitrate(cfg *config.Config) CheckResult {
	if !synthesis.ValidBitrate(cfg.Bitrate) {
		return CheckResult{
			Name:        "bitrate",
			Status:      StatusFail,
			Message:     fmt.Sprintf("bitrate %q is not supported", cfg.Bitrate),
			Remediation: "use one of " + strings.Join(synthesis.ValidBitrates, ", "),
		}
	}
	return CheckResult{Name: "bitrate", Status: StatusPass, Message: cfg.Bitrate}
}

func checkMaxMinutes(cfg *config.Config) CheckResult {
	if cfg.MaxMinutes <= 0 {
		return CheckResult{
			Name:        "max_minutes",
			Status:      StatusFail,
			Message:     fmt.Sprintf("max_minutes is %d", cfg.MaxMinutes),
			Remediation: "set max_minutes to a positive value",
		}
	}
	return CheckResult{Name: "max_minutes", Status: StatusPass, Message: fmt.Sprintf("%d", cfg.MaxMinutes)}
}

func checkOutputDir(cfg *config.Config) CheckResult {
	dir := cfg.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return CheckResult{
			Name:        "output_dir",
			Status:      StatusFail,
			Message:     fmt.Sprintf("cannot create %s: %v", dir, err),
			Remediation: "point output_dir at a writable location",
		}
	}
	probe := filepath.Join(dir, ".nl2audio-doctor")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return CheckResult{
			Name:        "output_dir",
			Status:      StatusFail,
			Message:     fmt.Sprintf("%s is not writable: %v", dir, err),
			Remediation: "fix permissions on the output directory",
		}
	}
	_ = os.Remove(probe)
	return CheckResult{Name: "output_dir", Status: StatusPass, Message: dir}
}

func checkAPIKey(cfg *config.Config) CheckResult {
	if cfg.OpenAIAPIKey == "" {
		return CheckResult{
			Name:        "openai_api_key",
			Status:      StatusFail,
			Message:     "OPENAI_API_KEY is not set",
			Remediation: "export OPENAI_API_KEY or add it to .env",
		}
	}
	return CheckResult{Name: "openai_api_key", Status: StatusPass, Message: "present"}
}

func checkFFmpeg(*config.Config) CheckResult {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return CheckResult{
			Name:        "ffmpeg",
			Status:      StatusFail,
			Message:     "ffmpeg not found in PATH",
			Remediation: "install ffmpeg; MP3 export shells out to it",
		}
	}
	return CheckResult{Name: "ffmpeg", Status: StatusPass, Message: "found in PATH"}
}

func checkGmail(cfg *config.Config) CheckResult {
	if !cfg.Gmail.Enabled {
		return CheckResult{Name: "gmail", Status: StatusPass, Message: "disabled"}
	}
	if _, err := os.Stat(cfg.CredentialsPath); err != nil {
		return CheckResult{
			Name:        "gmail",
			Status:      StatusFail,
			Message:     fmt.Sprintf("credentials not found at %s", cfg.CredentialsPath),
			Remediation: "download an OAuth client secret and set GOOGLE_CREDENTIALS",
		}
	}
	if _, err := os.Stat(cfg.GmailTokenPath); err != nil {
		return CheckResult{
			Name:        "gmail",
			Status:      StatusWarn,
			Message:     fmt.Sprintf("no cached token at %s", cfg.GmailTokenPath),
			Remediation: "run `nl2audio init` to authorize",
		}
	}
	return CheckResult{Name: "gmail", Status: StatusPass, Message: "credentials and token present"}
}
