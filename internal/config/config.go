// Package config loads and persists application configuration.
//
// Settings come from three layers, highest precedence first: NL2AUDIO_*
// environment variables, the TOML file at ~/.nl2audio/config.toml, and
// built-in defaults. Provider credentials (OPENAI_API_KEY and the Google
// paths) stay plain environment variables so they never end up in the
// config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults applied when neither file nor environment supplies a value.
const (
	DefaultVoice      = "alloy"
	DefaultModel      = "gpt-4o-mini-tts"
	DefaultBitrate    = "64k"
	DefaultMaxMinutes = 60
	DefaultMaxChars   = 3500
	DefaultStrategy   = "smart"
)

// GmailConfig controls the fetch-email pipeline.
type GmailConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	User    string `mapstructure:"user"`
	Label   string `mapstructure:"label"`
	Method  string `mapstructure:"method"`
}

// PrepConfig controls the optional LLM text-cleanup pass.
type PrepConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// LoggingConfig controls log level, format and optional file mirroring.
type LoggingConfig struct {
	Level             string `mapstructure:"level"`
	Format            string `mapstructure:"format"`
	EnableFileLogging bool   `mapstructure:"enable_file_logging"`
	LogFile           string `mapstructure:"log_file"`
}

// DriveConfig controls optional Google Drive upload of exported episodes.
type DriveConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	FolderID string `mapstructure:"folder_id"`
}

// Config is the full application configuration.
type Config struct {
	OutputDir   string `mapstructure:"output_dir"`
	FeedTitle   string `mapstructure:"feed_title"`
	SiteURL     string `mapstructure:"site_url"`
	TTSProvider string `mapstructure:"tts_provider"`
	Voice       string `mapstructure:"voice"`
	Model       string `mapstructure:"model"`
	Bitrate     string `mapstructure:"bitrate"`
	MaxMinutes  int    `mapstructure:"max_minutes"`
	MaxChars    int    `mapstructure:"max_chars"`
	Strategy    string `mapstructure:"strategy"`

	Gmail   GmailConfig   `mapstructure:"gmail"`
	Prep    PrepConfig    `mapstructure:"prep"`
	Logging LoggingConfig `mapstructure:"logging"`
	Drive   DriveConfig   `mapstructure:"drive"`

	// Credentials resolved from the environment only.
	OpenAIAPIKey    string `mapstructure:"-"`
	CredentialsPath string `mapstructure:"-"`
	GmailTokenPath  string `mapstructure:"-"`
	SecretsDir      string `mapstructure:"-"`
}

// validBitrates enumerates the MP3 bitrates the exporter accepts.
var validBitrates = map[string]bool{
	"32k": true, "64k": true, "96k": true, "128k": true,
	"192k": true, "256k": true, "320k": true,
}

var validStrategies = map[string]bool{
	"smart": true, "paragraph": true, "sentence": true,
}

// Dir returns the configuration directory, NL2AUDIO_HOME or ~/.nl2audio.
func Dir() (string, error) {
	if d := os.Getenv("NL2AUDIO_HOME"); d != "" {
		return d, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".nl2audio"), nil
}

// Path returns the config file location under Dir.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("NL2AUDIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("output_dir", "output")
	v.SetDefault("feed_title", "Newsletter Audio")
	v.SetDefault("site_url", "http://localhost:8080")
	v.SetDefault("tts_provider", "openai")
	v.SetDefault("voice", DefaultVoice)
	v.SetDefault("model", DefaultModel)
	v.SetDefault("bitrate", DefaultBitrate)
	v.SetDefault("max_minutes", DefaultMaxMinutes)
	v.SetDefault("max_chars", DefaultMaxChars)
	v.SetDefault("strategy", DefaultStrategy)

	v.SetDefault("gmail.enabled", false)
	v.SetDefault("gmail.user", "me")
	v.SetDefault("gmail.label", "Newsletters")
	v.SetDefault("gmail.method", "oauth")

	v.SetDefault("prep.enabled", false)
	v.SetDefault("prep.model", "gpt-4o-mini")
	v.SetDefault("prep.temperature", 0.3)
	v.SetDefault("prep.max_tokens", 4096)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.enable_file_logging", false)
	v.SetDefault("logging.log_file", "")

	v.SetDefault("drive.enabled", false)
	v.SetDefault("drive.folder_id", "")
	return v
}

// Load reads configuration from file, environment and defaults.
// A missing config file is not an error; run `nl2audio init` to create one.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path, err := Path()
	if err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.resolveCredentials()
	return cfg, nil
}

func (c *Config) resolveCredentials() {
	c.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	c.SecretsDir = envOr("SECRETS_DIR", "secrets")
	c.GmailTokenPath = envOr("GMAIL_TOKEN", filepath.Join(c.SecretsDir, "token.json"))
	c.CredentialsPath = envOr("GOOGLE_CREDENTIALS", filepath.Join(c.SecretsDir, "credentials.json"))
}

// Validate checks the fields every pipeline depends on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Voice) == "" {
		return fmt.Errorf("voice must not be empty")
	}
	if !validBitrates[c.Bitrate] {
		return fmt.Errorf("bitrate %q is not one of 32k|64k|96k|128k|192k|256k|320k", c.Bitrate)
	}
	if c.MaxMinutes <= 0 {
		return fmt.Errorf("max_minutes must be positive, got %d", c.MaxMinutes)
	}
	if c.MaxChars <= 0 {
		return fmt.Errorf("max_chars must be positive, got %d", c.MaxChars)
	}
	if !validStrategies[c.Strategy] {
		return fmt.Errorf("strategy %q is not one of smart|paragraph|sentence", c.Strategy)
	}
	if c.Prep.Temperature < 0 || c.Prep.Temperature > 2 {
		return fmt.Errorf("prep.temperature %.2f outside valid range 0..2", c.Prep.Temperature)
	}
	return nil
}

// Save writes the configuration to the config file, creating Dir if needed.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("output_dir", c.OutputDir)
	v.Set("feed_title", c.FeedTitle)
	v.Set("site_url", c.SiteURL)
	v.Set("tts_provider", c.TTSProvider)
	v.Set("voice", c.Voice)
	v.Set("model", c.Model)
	v.Set("bitrate", c.Bitrate)
	v.Set("max_minutes", c.MaxMinutes)
	v.Set("max_chars", c.MaxChars)
	v.Set("strategy", c.Strategy)
	v.Set("gmail.enabled", c.Gmail.Enabled)
	v.Set("gmail.user", c.Gmail.User)
	v.Set("gmail.label", c.Gmail.Label)
	v.Set("gmail.method", c.Gmail.Method)
	v.Set("prep.enabled", c.Prep.Enabled)
	v.Set("prep.model", c.Prep.Model)
	v.Set("prep.temperature", c.Prep.Temperature)
	v.Set("prep.max_tokens", c.Prep.MaxTokens)
	v.Set("logging.level", c.Logging.Level)
	v.Set("logging.format", c.Logging.Format)
	v.Set("logging.enable_file_logging", c.Logging.EnableFileLogging)
	v.Set("logging.log_file", c.Logging.LogFile)
	v.Set("drive.enabled", c.Drive.Enabled)
	v.Set("drive.folder_id", c.Drive.FolderID)

	path := filepath.Join(dir, "config.toml")
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Ensure loads the configuration and writes the defaults to disk when no
// config file exists yet. Used by the init command.
func Ensure() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	path, err := Path()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
