// Package handler wires the HTTP routes that expose the generated feed.
package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fsmatos/nl2audio-cli/internal/domain/episode"
)

// episodeSummary is the light representation returned to clients.
type episodeSummary struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	CreatedAt   string `json:"createdAt"`
	Source      string `json:"source"`
	MP3Path     string `json:"mp3Path"`
	DurationSec int    `json:"durationSec"`
}

// PodcastHandler serves the feed, episode audio and a JSON listing.
type PodcastHandler struct {
	repo      episode.Repository
	outputDir string
}

func NewPodcastHandler(repo episode.Repository, outputDir string) *PodcastHandler {
	return &PodcastHandler{repo: repo, outputDir: outputDir}
}

// Register registers routes on app. The output directory (feed.xml plus
// episodes/) is served statically at the root.
func (h *PodcastHandler) Register(app *fiber.App) {
	app.Get("/healthz", h.healthz)
	app.Get("/api/episodes", h.listEpisodes)
	app.Static("/", h.outputDir, fiber.Static{
		Browse: false,
	})
}

func (h *PodcastHandler) healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (h *PodcastHandler) listEpisodes(c *fiber.Ctx) error {
	eps, err := h.repo.List(c.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	summaries := make([]episodeSummary, 0, len(eps))
	for i := range eps {
		ep := &eps[i]
		summaries = append(summaries, episodeSummary{
			ID:          ep.ID,
			Title:       ep.Title,
			CreatedAt:   ep.CreatedAt.Format(time.RFC3339),
			Source:      ep.Source,
			MP3Path:     ep.MP3Path,
			DurationSec: ep.DurationSec,
		})
	}
	return c.JSON(fiber.Map{"episodes": summaries})
}
