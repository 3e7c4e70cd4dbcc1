package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NL2AUDIO_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Voice != DefaultVoice {
		t.Errorf("Voice = %q, want %q", cfg.Voice, DefaultVoice)
	}
	if cfg.Bitrate != DefaultBitrate {
		t.Errorf("Bitrate = %q, want %q", cfg.Bitrate, DefaultBitrate)
	}
	if cfg.MaxChars != DefaultMaxChars {
		t.Errorf("MaxChars = %d, want %d", cfg.MaxChars, DefaultMaxChars)
	}
	if cfg.Strategy != DefaultStrategy {
		t.Errorf("Strategy = %q, want %q", cfg.Strategy, DefaultStrategy)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NL2AUDIO_HOME", dir)

	toml := "voice = \"onyx\"\nbitrate = \"128k\"\n\n[gmail]\nlabel = \"Letters\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NL2AUDIO_VOICE", "nova")
	t.Setenv("NL2AUDIO_GMAIL_LABEL", "Inbox")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Voice != "nova" {
		t.Errorf("Voice = %q, want env override nova", cfg.Voice)
	}
	if cfg.Bitrate != "128k" {
		t.Errorf("Bitrate = %q, want file value 128k", cfg.Bitrate)
	}
	if cfg.Gmail.Label != "Inbox" {
		t.Errorf("Gmail.Label = %q, want env override Inbox", cfg.Gmail.Label)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("NL2AUDIO_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	cfg.FeedTitle = "My Letters"
	cfg.MaxMinutes = 45
	cfg.Prep.Enabled = true
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if got.FeedTitle != "My Letters" {
		t.Errorf("FeedTitle = %q", got.FeedTitle)
	}
	if got.MaxMinutes != 45 {
		t.Errorf("MaxMinutes = %d", got.MaxMinutes)
	}
	if !got.Prep.Enabled {
		t.Error("Prep.Enabled not persisted")
	}
}

func TestEnsureCreatesFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("NL2AUDIO_HOME", dir)

	if _, err := Ensure(); err != nil {
		t.Fatalf("Ensure() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.toml")); err != nil {
		t.Errorf("config file not created: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		t.Helper()
		return &Config{
			Voice:      DefaultVoice,
			Bitrate:    DefaultBitrate,
			MaxMinutes: DefaultMaxMinutes,
			MaxChars:   DefaultMaxChars,
			Strategy:   DefaultStrategy,
			Prep:       PrepConfig{Temperature: 0.3},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty voice", func(c *Config) { c.Voice = "  " }},
		{"bad bitrate", func(c *Config) { c.Bitrate = "63k" }},
		{"zero max_minutes", func(c *Config) { c.MaxMinutes = 0 }},
		{"negative max_chars", func(c *Config) { c.MaxChars = -1 }},
		{"unknown strategy", func(c *Config) { c.Strategy = "clever" }},
		{"temperature too high", func(c *Config) { c.Prep.Temperature = 2.5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}

	if err := base().Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}
