// Package gmail implements the message repository backed by the Gmail API.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/api/gmail/v1"

	"github.com/fsmatos/nl2audio-cli/internal/domain/message"
	"github.com/fsmatos/nl2audio-cli/pkg/logger"
)

// MessageRepository implements message.Repository backed by the Gmail API.
type MessageRepository struct {
	srv  *gmail.Service
	user string
}

// NewMessageRepository wraps a Gmail service. user is usually "me".
func NewMessageRepository(srv *gmail.Service, user string) *MessageRepository {
	if user == "" {
		user = "me"
	}
	return &MessageRepository{srv: srv, user: user}
}

// GetByID fetches a Gmail message and aggregates plain text / html into the
// EmailMessage body.
func (r *MessageRepository) GetByID(ctx context.Context, id message.ID) (*message.EmailMessage, error) {
	gm, err := r.srv.Users.Messages.Get(r.user, string(id)).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail get message: %w", err)
	}
	body := collectMessageText(gm)
	subj := ""
	for _, h := range gm.Payload.Headers {
		if strings.ToLower(h.Name) == "subject" {
			subj = h.Value
			break
		}
	}
	return &message.EmailMessage{ID: id, Subject: subj, Body: body}, nil
}

// ListByLabel returns up to max messages carrying the given label name,
// newest first. Each listed ID is fetched in full.
func (r *MessageRepository) ListByLabel(ctx context.Context, label string, max int64) ([]message.EmailMessage, error) {
	labelID, err := r.resolveLabelID(ctx, label)
	if err != nil {
		return nil, err
	}

	call := r.srv.Users.Messages.List(r.user).LabelIds(labelID).Context(ctx)
	if max > 0 {
		call = call.MaxResults(max)
	}
	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("gmail list messages: %w", err)
	}

	out := make([]message.EmailMessage, 0, len(res.Messages))
	for _, m := range res.Messages {
		em, err := r.GetByID(ctx, message.ID(m.Id))
		if err != nil {
			logger.Warn("skipping unreadable message", "id", m.Id, "error", err.Error())
			continue
		}
		out = append(out, *em)
	}
	return out, nil
}

// resolveLabelID maps a label name to its Gmail label ID. Names are
// matched case-insensitively; system labels like INBOX pass through.
func (r *MessageRepository) resolveLabelID(ctx context.Context, label string) (string, error) {
	res, err := r.srv.Users.Labels.List(r.user).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("gmail list labels: %w", err)
	}
	for _, l := range res.Labels {
		if strings.EqualFold(l.Name, label) || l.Id == label {
			return l.Id, nil
		}
	}
	return "", fmt.Errorf("gmail label %q not found", label)
}

// ===== body extraction helpers =====

func extractHTML(p *gmail.MessagePart) string {
	if p == nil {
		return ""
	}
	if p.MimeType == "text/html" && p.Body != nil && p.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(p.Body.Data); err == nil {
			return string(data)
		}
	}
	for _, part := range p.Parts {
		if h := extractHTML(part); h != "" {
			return h
		}
	}
	return ""
}

func stripHTML(s string) string {
	inTag := false
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '<':
			inTag = true
		case '>':
			inTag = false
		default:
			if !inTag {
				b.WriteRune(r)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func gatherPlainText(p *gmail.MessagePart, out *[]string) {
	if p == nil {
		return
	}
	if p.MimeType == "text/plain" && p.Body != nil && p.Body.Data != "" {
		if data, err := base64.URLEncoding.DecodeString(p.Body.Data); err == nil {
			*out = append(*out, string(data))
		}
	}
	for _, part := range p.Parts {
		gatherPlainText(part, out)
	}
}

// collectMessageText prefers the plain-text parts when they carry real
// content, falls back to stripped HTML, and finally the snippet.
func collectMessageText(msg *gmail.Message) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}
	var plainParts []string
	gatherPlainText(msg.Payload, &plainParts)
	plainText := strings.TrimSpace(strings.Join(plainParts, "\n"))

	if len([]rune(plainText)) >= 300 {
		return plainText
	}

	if html := extractHTML(msg.Payload); html != "" {
		txt := stripHTML(html)
		if len([]rune(txt)) > len([]rune(plainText)) {
			return txt
		}
	}

	if plainText != "" {
		return plainText
	}
	return msg.Snippet
}
