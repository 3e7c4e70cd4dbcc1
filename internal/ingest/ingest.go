// Package ingest turns a source argument (URL, file path or stdin) into
// plain text ready for synthesis.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/fsmatos/nl2audio-cli/pkg/logger"
)

const fetchTimeout = 20 * time.Second

// Item is the extracted content of one source.
type Item struct {
	Title  string
	Text   string
	Source string
}

// FromSource resolves a source argument: "-" reads stdin, http(s) URLs are
// fetched and run through article extraction, .html/.htm files are parsed
// the same way, anything else is read as plain text.
func FromSource(ctx context.Context, source string, stdin io.Reader) (*Item, error) {
	switch {
	case source == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return &Item{Title: "stdin", Text: string(data), Source: "stdin"}, nil

	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return fromURL(ctx, source)

	default:
		return fromFile(source)
	}
}

func fromURL(ctx context.Context, rawURL string) (*Item, error) {
	reqCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", "nl2audio/1.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rawURL, err)
	}

	u, _ := url.Parse(rawURL)
	title, text := extractArticle(string(body), u)
	if title == "" {
		title = rawURL
	}
	return &Item{Title: title, Text: text, Source: rawURL}, nil
}

func fromFile(path string) (*Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	base := filepath.Base(path)
	title := strings.TrimSuffix(base, filepath.Ext(base))

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".html" || ext == ".htm" {
		t, text := extractArticle(string(data), nil)
		if t != "" {
			title = t
		}
		return &Item{Title: title, Text: text, Source: path}, nil
	}
	return &Item{Title: title, Text: string(data), Source: path}, nil
}

// extractArticle runs readability extraction and falls back to stripping
// tags when the document is too bare for it.
func extractArticle(html string, u *url.URL) (title, text string) {
	if u == nil {
		u = &url.URL{Scheme: "file", Path: "/local"}
	}
	article, err := readability.FromReader(strings.NewReader(html), u)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return strings.TrimSpace(article.Title), article.TextContent
	}
	if err != nil {
		logger.Debug("readability extraction failed, stripping tags", "error", err)
	}
	return titleFromHTML(html), stripTags(html)
}

var (
	titleRe  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	scriptRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe    = regexp.MustCompile(`(?s)<[^>]+>`)
)

func titleFromHTML(html string) string {
	if m := titleRe.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func stripTags(html string) string {
	s := scriptRe.ReplaceAllString(html, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")
	return strings.Join(strings.Fields(s), " ")
}
