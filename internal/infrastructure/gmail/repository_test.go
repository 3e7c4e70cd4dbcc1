package gmail

import (
	"encoding/base64"
	"strings"
	"testing"

	"google.golang.org/api/gmail/v1"
)

func part(mime, content string, children ...*gmail.MessagePart) *gmail.MessagePart {
	p := &gmail.MessagePart{MimeType: mime, Parts: children}
	if content != "" {
		p.Body = &gmail.MessagePartBody{Data: base64.URLEncoding.EncodeToString([]byte(content))}
	}
	return p
}

func TestCollectMessageTextPrefersLongPlainText(t *testing.T) {
	long := strings.Repeat("newsletter body text ", 20) // > 300 runes
	msg := &gmail.Message{
		Payload: part("multipart/alternative", "",
			part("text/plain", long),
			part("text/html", "<p>short html</p>"),
		),
	}
	if got := collectMessageText(msg); got != strings.TrimSpace(long) {
		t.Errorf("collectMessageText = %q, want plain text", got)
	}
}

func TestCollectMessageTextFallsBackToHTML(t *testing.T) {
	msg := &gmail.Message{
		Payload: part("multipart/alternative", "",
			part("text/plain", "hi"),
			part("text/html", "<html><body><p>A much longer body rendered as html content.</p></body></html>"),
		),
	}
	got := collectMessageText(msg)
	if !strings.Contains(got, "much longer body") {
		t.Errorf("collectMessageText = %q, want stripped html", got)
	}
	if strings.Contains(got, "<") {
		t.Errorf("collectMessageText kept tags: %q", got)
	}
}

func TestCollectMessageTextUsesSnippetWhenEmpty(t *testing.T) {
	msg := &gmail.Message{
		Snippet: "snippet only",
		Payload: part("multipart/mixed", ""),
	}
	if got := collectMessageText(msg); got != "snippet only" {
		t.Errorf("collectMessageText = %q, want snippet", got)
	}
}

func TestGatherPlainTextNestedParts(t *testing.T) {
	payload := part("multipart/mixed", "",
		part("multipart/alternative", "",
			part("text/plain", "first"),
		),
		part("text/plain", "second"),
	)
	var out []string
	gatherPlainText(payload, &out)
	if len(out) != 2 || out[0] != "first" || out[1] != "second" {
		t.Errorf("gatherPlainText = %v", out)
	}
}

func TestStripHTML(t *testing.T) {
	got := stripHTML("<div><b>bold</b> and plain</div>")
	if got != "bold and plain" {
		t.Errorf("stripHTML = %q", got)
	}
}
