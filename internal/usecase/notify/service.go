// Package notify maps GitHub webhook events to Slack messages and relays
// them: a pure decision layer plus a dispatcher that sequences the
// dependent fetch and publish calls.
package notify

import (
	"context"

	"github.com/chatbridge/slack-notify/internal/adapter/github"
	"github.com/chatbridge/slack-notify/internal/adapter/observability"
	"github.com/chatbridge/slack-notify/internal/config"
	"github.com/chatbridge/slack-notify/internal/domain"
)

// ContentFetcher retrieves the canonical resource behind a webhook event.
type ContentFetcher interface {
	PullRequest(ctx context.Context, repo string, number int) (github.Content, error)
	Issue(ctx context.Context, repo string, number int) (github.Content, error)
	Review(ctx context.Context, repo string, number int, reviewID int64) (github.Content, error)
	IssueComment(ctx context.Context, repo string, commentID int64) (github.Content, error)
	ReviewComments(ctx context.Context, repo string, number int, reviewID int64) ([]github.ReviewComment, error)
}

// Publisher posts one message and returns its server-assigned timestamp.
type Publisher interface {
	Publish(ctx context.Context, msg domain.Message) (string, error)
}

// Service is the dispatcher: it parses the event envelope, selects the
// handler by event family and sequences the dependent calls. It holds no
// state across runs.
type Service struct {
	cfg       config.Config
	fetcher   ContentFetcher
	publisher Publisher
	logger    observability.Logger
}

// NewService creates a Service with the given collaborators.
func NewService(cfg config.Config, fetcher ContentFetcher, publisher Publisher) *Service {
	return &Service{
		cfg:       cfg,
		fetcher:   fetcher,
		publisher: publisher,
		logger:    observability.NopLogger{},
	}
}

// SetLogger replaces the discard logger.
func (s *Service) SetLogger(logger observability.Logger) {
	s.logger = logger
}

// Run relays one webhook delivery. Unknown event names succeed without any
// outbound call; every error is fatal and propagates unwrapped in meaning:
// malformed payloads, GitHub fetch failures and Slack publish failures.
func (s *Service) Run(ctx context.Context, eventName, payload string) error {
	ev, err := domain.ParseEvent(payload)
	if err != nil {
		return err
	}

	switch eventName {
	case domain.EventNamePullRequest:
		return s.handlePullRequest(ctx, ev)
	case domain.EventNameIssues:
		return s.handleIssues(ctx, ev)
	case domain.EventNamePullRequestReview:
		// The review post first, then its line comments threaded under it.
		anchor, err := s.handleReview(ctx, ev)
		if err != nil {
			return err
		}
		return s.handleReviewComments(ctx, ev, anchor)
	case domain.EventNameIssueComment:
		return s.handleIssueComment(ctx, ev)
	}

	s.logger.LogInfo(ctx, "event ignored", map[string]any{
		"event":  eventName,
		"action": ev.Action,
	})
	return nil
}

func (s *Service) handlePullRequest(ctx context.Context, ev domain.Event) error {
	plan, ok := BuildPullRequestMessage(s.cfg, ev)
	if !ok {
		return nil
	}
	if plan.FetchBody {
		content, err := s.fetcher.PullRequest(ctx, ev.Repository.FullName, ev.PullRequest.Number)
		if err != nil {
			return err
		}
		plan.Message.Body = content.Body
		plan.Message.ImageURL = content.ImageURL
	}
	_, err := s.publish(ctx, ev, plan.Message)
	return err
}

func (s *Service) handleIssues(ctx context.Context, ev domain.Event) error {
	plan, ok := BuildIssuesMessage(s.cfg, ev)
	if !ok {
		return nil
	}
	if plan.FetchBody {
		content, err := s.fetcher.Issue(ctx, ev.Repository.FullName, ev.Issue.Number)
		if err != nil {
			return err
		}
		plan.Message.Body = content.Body
		plan.Message.ImageURL = content.ImageURL
	}
	_, err := s.publish(ctx, ev, plan.Message)
	return err
}

// handleReview posts the review message and returns its timestamp so line
// comments can thread under it. An empty timestamp means no post happened.
func (s *Service) handleReview(ctx context.Context, ev domain.Event) (string, error) {
	if !s.cfg.Subscriptions.Reviews || ev.PullRequest == nil || ev.Review == nil {
		return "", nil
	}
	if ev.Action != domain.ActionSubmitted {
		return "", nil
	}

	content, err := s.fetcher.Review(ctx, ev.Repository.FullName, ev.PullRequest.Number, ev.Review.ID)
	if err != nil {
		return "", err
	}

	msg, ok := BuildReviewMessage(s.cfg, ev, content)
	if !ok {
		return "", nil
	}
	return s.publish(ctx, ev, msg)
}

// handleReviewComments relays every line comment of a submitted review.
// The pull_request_review_comment webhook is deliberately not consumed
// (each one would trigger a separate runner invocation); instead the
// comments are listed in one fetch when the review arrives.
//
// With threading enabled, all comments nest under the anchor: the review's
// timestamp when the review posted, otherwise the first comment posted
// here. A publish failure aborts the batch like any other error.
func (s *Service) handleReviewComments(ctx context.Context, ev domain.Event, anchor string) error {
	if !s.cfg.Subscriptions.PullComments || ev.PullRequest == nil || ev.Review == nil {
		return nil
	}
	if ev.Action != domain.ActionSubmitted {
		return nil
	}

	comments, err := s.fetcher.ReviewComments(ctx, ev.Repository.FullName, ev.PullRequest.Number, ev.Review.ID)
	if err != nil {
		return err
	}

	for _, comment := range comments {
		msg := BuildReviewCommentMessage(s.cfg, ev, comment)
		if s.cfg.Display.ThreadComments && anchor != "" {
			msg.ThreadTS = anchor
		}
		ts, err := s.publish(ctx, ev, msg)
		if err != nil {
			return err
		}
		if anchor == "" {
			anchor = ts
		}
	}
	return nil
}

func (s *Service) handleIssueComment(ctx context.Context, ev domain.Event) error {
	plan, ok := BuildIssueCommentMessage(s.cfg, ev)
	if !ok {
		return nil
	}

	content, err := s.fetcher.IssueComment(ctx, ev.Repository.FullName, ev.Comment.ID)
	if err != nil {
		return err
	}
	plan.Message.Body = content.Body
	plan.Message.ImageURL = content.ImageURL

	_, err = s.publish(ctx, ev, plan.Message)
	return err
}

// publish expands the template tokens and posts the message.
func (s *Service) publish(ctx context.Context, ev domain.Event, msg domain.Message) (string, error) {
	msg.Description = domain.ExpandTokens(msg.Description, ev.Sender.Login, resourceAuthor(ev))
	ts, err := s.publisher.Publish(ctx, msg)
	if err != nil {
		return "", err
	}
	s.logger.LogInfo(ctx, "message posted", map[string]any{
		"title": msg.Title,
		"ts":    ts,
	})
	return ts, nil
}
