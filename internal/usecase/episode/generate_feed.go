package episode

import (
	"context"

	domainep "github.com/fsmatos/nl2audio-cli/internal/domain/episode"
	"github.com/fsmatos/nl2audio-cli/internal/feed"
)

// GenerateFeedInput is the input DTO.
type GenerateFeedInput struct {
	OutputDir string
	Title     string
	SiteURL   string
}

// GenerateFeedOutput is the output DTO.
type GenerateFeedOutput struct {
	Path     string `json:"path"`
	Episodes int    `json:"episodes"`
}

// GenerateFeed renders the RSS feed from all recorded episodes.
type GenerateFeed struct {
	repo domainep.Repository
}

func NewGenerateFeed(repo domainep.Repository) *GenerateFeed {
	return &GenerateFeed{repo: repo}
}

func (uc *GenerateFeed) Execute(ctx context.Context, in *GenerateFeedInput) (*GenerateFeedOutput, error) {
	eps, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	path, err := feed.Build(in.OutputDir, in.Title, in.SiteURL, eps)
	if err != nil {
		return nil, err
	}
	return &GenerateFeedOutput{Path: path, Episodes: len(eps)}, nil
}
