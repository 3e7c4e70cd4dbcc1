// Package episode contains the application pipelines that produce podcast
// episodes from newsletters.
package episode

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fsmatos/nl2audio-cli/internal/domain/audio"
	domainep "github.com/fsmatos/nl2audio-cli/internal/domain/episode"
	"github.com/fsmatos/nl2audio-cli/internal/ingest"
	"github.com/fsmatos/nl2audio-cli/internal/usecase/synthesis"
	"github.com/fsmatos/nl2audio-cli/pkg/logger"
)

// Cleaner is the optional pre-synthesis text rewrite pass.
type Cleaner interface {
	CleanForTTS(ctx context.Context, text string) string
}

// Uploader pushes an exported episode to remote storage.
type Uploader interface {
	UploadFile(ctx context.Context, localPath, dstFileName string) (id, link string, err error)
}

// AddEpisodeInput is the input DTO.
type AddEpisodeInput struct {
	Source string    // URL, file path or "-" for stdin
	Title  string    // optional override; empty derives from the source
	DryRun bool      // estimate only, no provider calls or files
	Stdin  io.Reader // consulted when Source is "-"
}

// AddEpisodeOutput is the output DTO.
type AddEpisodeOutput struct {
	Episode    *domainep.Episode     `json:"episode,omitempty"`
	Path       string                `json:"path,omitempty"`
	Estimation *synthesis.Estimation `json:"estimation,omitempty"`
}

// AddEpisode ingests one source, synthesizes it and records the episode.
type AddEpisode struct {
	orch     *synthesis.Orchestrator
	store    audio.Store
	repo     domainep.Repository
	cleaner  Cleaner  // nil disables the cleanup pass
	uploader Uploader // nil disables remote upload
}

func NewAddEpisode(orch *synthesis.Orchestrator, store audio.Store, repo domainep.Repository, cleaner Cleaner, uploader Uploader) *AddEpisode {
	return &AddEpisode{orch: orch, store: store, repo: repo, cleaner: cleaner, uploader: uploader}
}

// Execute runs ingest, optional cleanup, synthesis, file persistence and
// the database record. Dry runs stop after estimation.
func (uc *AddEpisode) Execute(ctx context.Context, in *AddEpisodeInput) (*AddEpisodeOutput, error) {
	item, err := ingest.FromSource(ctx, in.Source, in.Stdin)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", in.Source, err)
	}

	title := in.Title
	if title == "" {
		title = item.Title
	}
	return uc.ProduceFromText(ctx, title, item.Source, item.Text, in.DryRun)
}

// ProduceFromText runs the pipeline on already-extracted text. The email
// pipeline calls this directly with message bodies.
func (uc *AddEpisode) ProduceFromText(ctx context.Context, title, source, text string, dryRun bool) (*AddEpisodeOutput, error) {
	if dryRun {
		res, err := uc.orch.Synthesize(ctx, text, "", true)
		if err != nil {
			return nil, err
		}
		return &AddEpisodeOutput{Estimation: res.Estimation}, nil
	}

	if uc.cleaner != nil {
		text = uc.cleaner.CleanForTTS(ctx, text)
	}

	path, err := uc.store.PathFor(title)
	if err != nil {
		return nil, err
	}

	res, err := uc.orch.Synthesize(ctx, text, string(path), false)
	if err != nil {
		return nil, err
	}

	ep, err := uc.repo.Add(ctx, &domainep.Episode{
		Title:       title,
		CreatedAt:   time.Now().UTC(),
		Source:      source,
		MP3Path:     string(path),
		DurationSec: int(res.Duration.Seconds()),
	}, res.Audio)
	if err != nil {
		return nil, fmt.Errorf("record episode: %w", err)
	}

	if uc.uploader != nil {
		if _, link, err := uc.uploader.UploadFile(ctx, string(path), ""); err != nil {
			logger.Warn("drive upload failed", "path", path, "error", err.Error())
		} else if link != "" {
			logger.Info("episode uploaded", "link", link)
		}
	}

	return &AddEpisodeOutput{Episode: ep, Path: string(path)}, nil
}
