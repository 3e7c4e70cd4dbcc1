package episode

import (
	"context"
	"strings"

	domainep "github.com/fsmatos/nl2audio-cli/internal/domain/episode"
	"github.com/fsmatos/nl2audio-cli/internal/domain/message"
	"github.com/fsmatos/nl2audio-cli/pkg/logger"
)

// FetchEmailInput is the input DTO.
type FetchEmailInput struct {
	Label  string // Gmail label holding newsletter messages
	Max    int64  // 0 means provider default
	DryRun bool
}

// FetchEmailOutput is the output DTO.
type FetchEmailOutput struct {
	Processed []domainep.Episode `json:"processed"`
	Skipped   int                `json:"skipped"`
}

// FetchEmail converts every message under a label into an episode.
type FetchEmail struct {
	messages message.Repository
	producer *AddEpisode
}

func NewFetchEmail(messages message.Repository, producer *AddEpisode) *FetchEmail {
	return &FetchEmail{messages: messages, producer: producer}
}

// Execute lists the labeled messages and pipes each body through the
// episode pipeline. A failing message is logged and skipped so one bad
// newsletter never blocks the batch.
func (uc *FetchEmail) Execute(ctx context.Context, in *FetchEmailInput) (*FetchEmailOutput, error) {
	msgs, err := uc.messages.ListByLabel(ctx, in.Label, in.Max)
	if err != nil {
		return nil, err
	}
	logger.Info("fetched labeled messages", "label", in.Label, "count", len(msgs))

	out := &FetchEmailOutput{}
	for i := range msgs {
		msg := &msgs[i]
		if strings.TrimSpace(msg.Body) == "" {
			logger.Warn("message has no speakable body, skipping", "id", msg.ID, "subject", msg.Subject)
			out.Skipped++
			continue
		}

		title := msg.Subject
		if title == "" {
			title = string(msg.ID)
		}
		res, err := uc.producer.ProduceFromText(ctx, title, "gmail:"+string(msg.ID), msg.Body, in.DryRun)
		if err != nil {
			logger.Error("episode production failed, skipping message", err, "id", msg.ID, "subject", msg.Subject)
			out.Skipped++
			continue
		}
		if res.Episode != nil {
			out.Processed = append(out.Processed, *res.Episode)
		}
	}
	return out, nil
}
