// Package slack posts message descriptors to the Slack chat.postMessage API.
package slack

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	slackgo "github.com/slack-go/slack"

	"github.com/chatbridge/slack-notify/internal/config"
	"github.com/chatbridge/slack-notify/internal/domain"
)

// Publisher renders message descriptors into chat.postMessage payloads and
// posts them, returning the server-assigned timestamp for thread anchoring.
type Publisher struct {
	cfg    config.SlackConfig
	client *slackgo.Client
	now    func() time.Time
}

// NewPublisher creates a Publisher for the given channel and branding.
func NewPublisher(cfg config.SlackConfig) *Publisher {
	return &Publisher{
		cfg:    cfg,
		client: slackgo.New(cfg.Token),
		now:    time.Now,
	}
}

// SetAPIURL points the client at a custom Slack API endpoint (testing).
func (p *Publisher) SetAPIURL(url string) {
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	p.client = slackgo.New(p.cfg.Token, slackgo.OptionAPIURL(url))
}

// SetNow overrides the clock used for the attachment timestamp (testing).
func (p *Publisher) SetNow(now func() time.Time) {
	p.now = now
}

// Publish posts one message and returns its timestamp. Template tokens must
// already be expanded. A non-ok API response surfaces as a *slack.Error
// carrying the upstream error code; the relay never retries.
func (p *Publisher) Publish(ctx context.Context, msg domain.Message) (string, error) {
	attachment := slackgo.Attachment{
		Color:      string(msg.Color),
		Title:      msg.Title,
		TitleLink:  msg.TitleLink,
		Text:       msg.Body,
		ImageURL:   msg.ImageURL,
		Footer:     p.cfg.Footer,
		FooterIcon: p.cfg.FooterIcon,
		MarkdownIn: []string{"text"},
		Ts:         json.Number(strconv.FormatInt(p.now().Unix(), 10)),
	}
	if msg.Actor != nil {
		attachment.AuthorName = msg.Actor.Name
		attachment.AuthorLink = msg.Actor.Link
		attachment.AuthorIcon = msg.Actor.Icon
	}
	for _, field := range msg.Fields {
		attachment.Fields = append(attachment.Fields, slackgo.AttachmentField{
			Title: field.Title,
			Value: field.Value,
			Short: field.Short,
		})
	}

	opts := []slackgo.MsgOption{
		slackgo.MsgOptionText(msg.Description, false),
		slackgo.MsgOptionAttachments(attachment),
		slackgo.MsgOptionUsername(p.cfg.AppName),
	}
	switch {
	case p.cfg.AppIcon != "":
		opts = append(opts, slackgo.MsgOptionIconURL(p.cfg.AppIcon))
	case p.cfg.AppEmoji != "":
		opts = append(opts, slackgo.MsgOptionIconEmoji(p.cfg.AppEmoji))
	}
	if msg.ThreadTS != "" {
		opts = append(opts, slackgo.MsgOptionTS(msg.ThreadTS))
	}

	_, timestamp, err := p.client.PostMessageContext(ctx, p.cfg.Channel, opts...)
	if err != nil {
		return "", &Error{Code: err.Error()}
	}
	return timestamp, nil
}
