// Package cli implements the nl2audio command tree.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fsmatos/nl2audio-cli/internal/config"
	"github.com/fsmatos/nl2audio-cli/internal/domain/episode"
	"github.com/fsmatos/nl2audio-cli/internal/infrastructure/drive"
	"github.com/fsmatos/nl2audio-cli/internal/infrastructure/googleauth"
	"github.com/fsmatos/nl2audio-cli/internal/infrastructure/storage"
	openaitts "github.com/fsmatos/nl2audio-cli/internal/infrastructure/tts/openai"
	"github.com/fsmatos/nl2audio-cli/internal/prep"
	"github.com/fsmatos/nl2audio-cli/internal/store"
	"github.com/fsmatos/nl2audio-cli/internal/text"
	ucepisode "github.com/fsmatos/nl2audio-cli/internal/usecase/episode"
	"github.com/fsmatos/nl2audio-cli/internal/usecase/synthesis"
	"github.com/fsmatos/nl2audio-cli/pkg/logger"

	"github.com/fsmatos/nl2audio-cli/internal/audio"
)

// app carries the loaded configuration across commands.
type app struct {
	cfg   *config.Config
	debug bool
}

// Execute builds the command tree and runs it.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "nl2audio",
		Short:         "Turn newsletters into a private podcast feed",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg

			level := cfg.Logging.Level
			if a.debug {
				level = "debug"
			}
			logFile := ""
			if cfg.Logging.EnableFileLogging {
				logFile = cfg.Logging.LogFile
			}
			return logger.Init(logger.Options{
				Level:   level,
				Format:  cfg.Logging.Format,
				LogFile: logFile,
			})
		},
	}
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newInitCmd(a),
		newAddCmd(a),
		newEstimateCmd(a),
		newGenFeedCmd(a),
		newServeCmd(a),
		newFetchEmailCmd(a),
		newDoctorCmd(a),
	)
	return root
}

// dbPath returns the episode database location under the output dir.
func (a *app) dbPath() string {
	return filepath.Join(a.cfg.OutputDir, "episodes.db")
}

// openRepo opens the episode database.
func (a *app) openRepo() (episode.Repository, error) {
	return store.Open(a.dbPath())
}

// buildPipeline wires the full add-episode pipeline from configuration.
func (a *app) buildPipeline(cmd *cobra.Command) (*ucepisode.AddEpisode, error) {
	cfg := a.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	synth := openaitts.NewSynthesizer(cfg.OpenAIAPIKey, cfg.Voice, cfg.Model)
	orch := synthesis.NewOrchestrator(synth, audio.NewMP3Exporter(), nil, synthesis.Options{
		Voice:      cfg.Voice,
		Model:      cfg.Model,
		Bitrate:    cfg.Bitrate,
		MaxMinutes: cfg.MaxMinutes,
		MaxChars:   cfg.MaxChars,
		Strategy:   text.ParseStrategy(cfg.Strategy),
	})

	repo, err := a.openRepo()
	if err != nil {
		return nil, err
	}

	var cleaner ucepisode.Cleaner
	if cfg.Prep.Enabled {
		cleaner = prep.NewCleaner(cfg.OpenAIAPIKey, cfg.Prep.Model, cfg.Prep.Temperature, cfg.Prep.MaxTokens)
	}

	var uploader ucepisode.Uploader
	if cfg.Drive.Enabled {
		auth, err := googleauth.New(cfg.CredentialsPath, cfg.GmailTokenPath)
		if err != nil {
			return nil, fmt.Errorf("drive upload enabled but auth unavailable: %w", err)
		}
		srv, err := auth.DriveService(cmd.Context())
		if err != nil {
			return nil, fmt.Errorf("build drive service: %w", err)
		}
		uploader = drive.NewUploader(srv, cfg.Drive.FolderID)
	}

	return ucepisode.NewAddEpisode(orch, storage.NewFileStore(cfg.OutputDir), repo, cleaner, uploader), nil
}
