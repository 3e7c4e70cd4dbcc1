package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fsmatos/nl2audio-cli/internal/domain/episode"
)

type memRepo struct {
	eps []episode.Episode
}

func (r *memRepo) Add(_ context.Context, ep *episode.Episode, _ []byte) (*episode.Episode, error) {
	r.eps = append(r.eps, *ep)
	return ep, nil
}

func (r *memRepo) List(context.Context) ([]episode.Episode, error) {
	return r.eps, nil
}

func newTestApp(t *testing.T, repo episode.Repository, outputDir string) *fiber.App {
	t.Helper()
	app := fiber.New()
	NewPodcastHandler(repo, outputDir).Register(app)
	return app
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, &memRepo{}, t.TempDir())

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestListEpisodes(t *testing.T) {
	repo := &memRepo{eps: []episode.Episode{
		{ID: 1, Title: "Issue 1", CreatedAt: time.Now(), DurationSec: 120},
	}}
	app := newTestApp(t, repo, t.TempDir())

	resp, err := app.Test(httptest.NewRequest("GET", "/api/episodes", nil))
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var payload struct {
		Episodes []episodeSummary `json:"episodes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Episodes) != 1 || payload.Episodes[0].Title != "Issue 1" {
		t.Errorf("episodes = %+v", payload.Episodes)
	}
}

func TestStaticFeedServing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "feed.xml"), []byte("<rss/>"), 0o644); err != nil {
		t.Fatal(err)
	}
	app := newTestApp(t, &memRepo{}, dir)

	resp, err := app.Test(httptest.NewRequest("GET", "/feed.xml", nil))
	if err != nil {
		t.Fatalf("request error = %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "<rss/>" {
		t.Errorf("body = %s", body)
	}
}
