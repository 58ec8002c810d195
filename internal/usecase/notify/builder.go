package notify

import (
	"fmt"

	"github.com/chatbridge/slack-notify/internal/adapter/github"
	"github.com/chatbridge/slack-notify/internal/config"
	"github.com/chatbridge/slack-notify/internal/domain"
)

// Plan is the outcome of mapping one webhook event: the message to post
// plus whether its body still needs a content fetch.
type Plan struct {
	Message   domain.Message
	FetchBody bool
}

// BuildPullRequestMessage maps a pull_request event to its outbound message.
// ok is false when the event produces nothing: pulls are unsubscribed, the
// payload has no pull request, or the action is not handled.
func BuildPullRequestMessage(cfg config.Config, ev domain.Event) (Plan, bool) {
	if !cfg.Subscriptions.Pulls || ev.PullRequest == nil {
		return Plan{}, false
	}
	pr := ev.PullRequest

	msg := domain.Message{
		Color:     domain.ColorBase,
		Title:     fmt.Sprintf("#%d %s", pr.Number, pr.Title),
		TitleLink: pr.HTMLURL,
	}

	var fetch, details bool
	switch ev.Action {
	case domain.ActionOpened:
		if pr.Draft {
			msg.Description = cfg.Templates.PullDraftOpen
			msg.Color = domain.ColorDraft
		} else {
			msg.Description = cfg.Templates.PullOpen
			msg.Color = domain.ColorOpen
			fetch, details = true, true
		}
	case domain.ActionReopened:
		if pr.Draft {
			msg.Description = cfg.Templates.PullDraftReopen
			msg.Color = domain.ColorDraft
		} else {
			msg.Description = cfg.Templates.PullReopen
			msg.Color = domain.ColorOpen
			fetch, details = true, true
		}
	case domain.ActionReadyForReview:
		msg.Description = cfg.Templates.PullReady
		msg.Color = domain.ColorOpen
		fetch, details = true, true
	case domain.ActionClosed:
		if pr.Merged {
			msg.Description = cfg.Templates.PullMerge
			msg.Color = domain.ColorMerged
		} else {
			msg.Description = cfg.Templates.PullClose
			msg.Color = domain.ColorClosed
		}
	default:
		return Plan{}, false
	}

	if details && cfg.Display.PullDetails {
		msg.Fields = domain.PullRequestFields(*pr)
	}
	if cfg.Display.PullActor {
		msg.Actor = buildActor(ev)
	}

	return Plan{Message: msg, FetchBody: fetch}, true
}

// BuildIssuesMessage maps an issues event to its outbound message.
func BuildIssuesMessage(cfg config.Config, ev domain.Event) (Plan, bool) {
	if !cfg.Subscriptions.Issues || ev.Issue == nil {
		return Plan{}, false
	}
	issue := ev.Issue

	msg := domain.Message{
		Color:     domain.ColorBase,
		Title:     fmt.Sprintf("#%d %s", issue.Number, issue.Title),
		TitleLink: issue.HTMLURL,
	}

	var fetch, details bool
	switch ev.Action {
	case domain.ActionOpened:
		msg.Description = cfg.Templates.IssueOpen
		msg.Color = domain.ColorOpen
		fetch, details = true, true
	case domain.ActionReopened:
		msg.Description = cfg.Templates.IssueReopen
		msg.Color = domain.ColorOpen
		fetch, details = true, true
	case domain.ActionClosed:
		msg.Description = cfg.Templates.IssueClose
		msg.Color = domain.ColorClosed
	default:
		return Plan{}, false
	}

	if details && cfg.Display.IssueDetails {
		msg.Fields = domain.IssueFields(*issue)
	}
	if cfg.Display.IssueActor {
		msg.Actor = buildActor(ev)
	}

	return Plan{Message: msg, FetchBody: fetch}, true
}

// BuildReviewMessage maps a submitted review, given its already-fetched
// content. A "commented" review with an empty body is suppressed entirely.
func BuildReviewMessage(cfg config.Config, ev domain.Event, content github.Content) (domain.Message, bool) {
	if !cfg.Subscriptions.Reviews || ev.PullRequest == nil || ev.Review == nil {
		return domain.Message{}, false
	}
	if ev.Action != domain.ActionSubmitted {
		return domain.Message{}, false
	}

	msg := domain.Message{
		Color:     domain.ColorBase,
		Title:     fmt.Sprintf("Review on #%d %s", ev.PullRequest.Number, ev.PullRequest.Title),
		TitleLink: ev.Review.HTMLURL,
		Body:      content.Body,
		ImageURL:  content.ImageURL,
	}

	switch ev.Review.State {
	case domain.ReviewStateApproved:
		msg.Description = cfg.Templates.ReviewApprove
		msg.Color = domain.ColorOpen
	case domain.ReviewStateChangesRequested:
		msg.Description = cfg.Templates.ReviewRequestChanges
		msg.Color = domain.ColorClosed
	case domain.ReviewStateCommented:
		// A body-less "commented" review is a line-comment carrier; the
		// comments themselves are relayed separately.
		if content.Body == "" {
			return domain.Message{}, false
		}
		msg.Description = cfg.Templates.ReviewComment
	default:
		return domain.Message{}, false
	}

	if cfg.Display.ReviewActor {
		msg.Actor = buildActor(ev)
	}

	return msg, true
}

// BuildReviewCommentMessage maps one fetched review line comment to a
// message using the pull-comment template.
func BuildReviewCommentMessage(cfg config.Config, ev domain.Event, comment github.ReviewComment) domain.Message {
	msg := domain.Message{
		Description: cfg.Templates.PullComment,
		Color:       domain.ColorBase,
		Title:       fmt.Sprintf("Comment on #%d %s", ev.PullRequest.Number, ev.PullRequest.Title),
		TitleLink:   comment.HTMLURL,
		Body:        comment.Content.Body,
		ImageURL:    comment.Content.ImageURL,
	}
	if cfg.Display.PullCommentActor {
		msg.Actor = buildActor(ev)
	}
	return msg
}

// BuildIssueCommentMessage maps an issue_comment event. Comments on pull
// requests and on plain issues are gated and templated independently.
func BuildIssueCommentMessage(cfg config.Config, ev domain.Event) (Plan, bool) {
	if ev.Action != domain.ActionCreated || ev.Issue == nil || ev.Comment == nil {
		return Plan{}, false
	}

	onPull := ev.Issue.PullRequestRef != nil

	var template string
	var showActor bool
	if onPull {
		if !cfg.Subscriptions.PullComments {
			return Plan{}, false
		}
		template = cfg.Templates.PullComment
		showActor = cfg.Display.PullCommentActor
	} else {
		if !cfg.Subscriptions.IssueComments {
			return Plan{}, false
		}
		template = cfg.Templates.IssueComment
		showActor = cfg.Display.IssueCommentActor
	}

	msg := domain.Message{
		Description: template,
		Color:       domain.ColorBase,
		Title:       fmt.Sprintf("Comment on #%d %s", ev.Issue.Number, ev.Issue.Title),
		TitleLink:   ev.Comment.HTMLURL,
	}
	if showActor {
		msg.Actor = buildActor(ev)
	}

	return Plan{Message: msg, FetchBody: true}, true
}

// resourceAuthor returns the original author the <author> token refers to:
// the pull request author for pull_request and pull_request_review events,
// the issue author for issues and issue_comment events.
func resourceAuthor(ev domain.Event) string {
	switch {
	case ev.PullRequest != nil:
		return ev.PullRequest.User.Login
	case ev.Issue != nil:
		return ev.Issue.User.Login
	}
	return ""
}

// buildActor derives the message byline from the acting user, annotating
// the name when the actor is also the resource author.
func buildActor(ev domain.Event) *domain.Actor {
	return &domain.Actor{
		Name: domain.ActorName(ev.Sender.Login, resourceAuthor(ev)),
		Link: ev.Sender.HTMLURL,
		Icon: ev.Sender.AvatarURL,
	}
}
