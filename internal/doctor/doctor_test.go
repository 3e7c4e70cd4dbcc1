package doctor

import (
	"path/filepath"
	"testing"

	"github.com/fsmatos/nl2audio-cli/internal/config"
)

func baseConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		OutputDir:  t.TempDir(),
		Voice:      "alloy",
		Bitrate:    "64k",
		MaxMinutes: 60,
		MaxChars:   3500,
		Strategy:   "smart",
	}
}

func resultFor(t *testing.T, results []CheckResult, name string) CheckResult {
	t.Helper()
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no result named %q", name)
	return CheckResult{}
}

func TestRunHealthyConfig(t *testing.T) {
	cfg := baseConfig(t)
	cfg.OpenAIAPIKey = "sk-test"

	results := Run(cfg)
	for _, name := range []string{"voice", "bitrate", "max_minutes", "output_dir", "openai_api_key", "gmail"} {
		if r := resultFor(t, results, name); r.Status == StatusFail {
			t.Errorf("%s failed: %s", name, r.Message)
		}
	}
}

func TestRunFlagsBadConfig(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Voice = ""
	cfg.Bitrate = "63k"
	cfg.MaxMinutes = 0

	results := Run(cfg)
	for _, name := range []string{"voice", "bitrate", "max_minutes", "openai_api_key"} {
		r := resultFor(t, results, name)
		if r.Status != StatusFail {
			t.Errorf("%s status = %s, want fail", name, r.Status)
		}
		if r.Remediation == "" {
			t.Errorf("%s has no remediation", name)
		}
	}
	if !Failed(results) {
		t.Error("Failed() = false for broken config")
	}
}

func TestGmailChecks(t *testing.T) {
	cfg := baseConfig(t)
	cfg.Gmail.Enabled = true
	cfg.CredentialsPath = filepath.Join(t.TempDir(), "missing-credentials.json")

	if r := checkGmail(cfg); r.Status != StatusFail {
		t.Errorf("missing credentials: status = %s, want fail", r.Status)
	}

	cfg.Gmail.Enabled = false
	if r := checkGmail(cfg); r.Status != StatusPass {
		t.Errorf("disabled gmail: status = %s, want pass", r.Status)
	}
}

func TestFailed(t *testing.T) {
	ok := []CheckResult{{Status: StatusPass}, {Status: StatusWarn}}
	if Failed(ok) {
		t.Error("Failed() = true for pass/warn only")
	}
	if !Failed(append(ok, CheckResult{Status: StatusFail})) {
		t.Error("Failed() = false with a failing check")
	}
}
