// Package feed renders the podcast RSS feed for produced episodes.
package feed

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/feeds"

	"github.com/fsmatos/nl2audio-cli/internal/domain/episode"
)

// FileName is the feed file written under the output directory.
const FileName = "feed.xml"

// Build renders an RSS 2.0 feed with MP3 enclosures for episodes and
// writes it to <outputDir>/feed.xml. Episode URLs are resolved against
// siteURL using the MP3 path relative to outputDir.
func Build(outputDir, title, siteURL string, episodes []episode.Episode) (string, error) {
	f := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: siteURL},
		Description: "Audio renditions of newsletters",
	}
	if len(episodes) > 0 {
		f.Created = episodes[len(episodes)-1].CreatedAt
	}

	for i := range episodes {
		ep := &episodes[i]

		guid := ep.Hash
		if guid == "" {
			guid = uuid.NewString()
		}

		item := &feeds.Item{
			Title:   ep.Title,
			Id:      guid,
			Created: ep.CreatedAt,
			Link:    &feeds.Link{Href: enclosureURL(siteURL, outputDir, ep.MP3Path)},
			Description: fmt.Sprintf("%s (%d min)",
				ep.Title, (ep.DurationSec+59)/60),
		}
		item.Enclosure = &feeds.Enclosure{
			Url:    item.Link.Href,
			Type:   "audio/mpeg",
			Length: strconv.FormatInt(fileSize(ep.MP3Path), 10),
		}
		f.Items = append(f.Items, item)
	}

	rss, err := f.ToRss()
	if err != nil {
		return "", fmt.Errorf("render rss: %w", err)
	}

	path := filepath.Join(outputDir, FileName)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(rss), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// enclosureURL joins siteURL with the mp3 path relative to outputDir,
// falling back to the raw path when it lies outside outputDir.
func enclosureURL(siteURL, outputDir, mp3Path string) string {
	rel, err := filepath.Rel(outputDir, mp3Path)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(mp3Path)
	}
	base, err := url.Parse(siteURL)
	if err != nil {
		return siteURL + "/" + filepath.ToSlash(rel)
	}
	ref, err := url.Parse(filepath.ToSlash(rel))
	if err != nil {
		return siteURL + "/" + filepath.ToSlash(rel)
	}
	if base.Path == "" {
		base.Path = "/"
	} else if base.Path[len(base.Path)-1] != '/' {
		base.Path += "/"
	}
	return base.ResolveReference(ref).String()
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
