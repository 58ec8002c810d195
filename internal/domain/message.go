package domain

import (
	"fmt"
	"strings"
)

// Color is the attachment side-bar color of an outbound message. The palette
// is fixed and semantic; every message carries exactly one color.
type Color string

const (
	// ColorBase is the neutral default (plain comments).
	ColorBase Color = "#24292f"
	// ColorOpen marks created, reopened, ready-for-review and approved states.
	ColorOpen Color = "#36a64f"
	// ColorMerged marks pull requests closed by merging.
	ColorMerged Color = "#6f42c1"
	// ColorClosed marks closes without merge and requested changes.
	ColorClosed Color = "#cb2431"
	// ColorDraft marks draft pull requests on open/reopen.
	ColorDraft Color = "#6a737d"
)

// Template tokens substituted into message descriptions at publish time.
const (
	TokenActor  = "<actor>"
	TokenAuthor = "<author>"
)

// Field is one structured key/value row attached to a message.
type Field struct {
	Title string
	Value string
	Short bool
}

// Actor is the byline shown on a message when actor display is enabled.
type Actor struct {
	Name string
	Link string
	Icon string
}

// Message is a single outbound Slack post, fully described. It is built per
// event mapping, published once and discarded.
type Message struct {
	// Description is the templated headline; tokens are expanded by
	// ExpandTokens before publishing.
	Description string
	Color       Color
	Title       string
	TitleLink   string
	Body        string
	ImageURL    string
	Fields      []Field
	// Actor is nil when the acting user is not shown for this message kind.
	Actor *Actor
	// ThreadTS nests this message under a previously posted one.
	ThreadTS string
}

// ExpandTokens substitutes every occurrence of the actor and author tokens.
func ExpandTokens(s, actor, author string) string {
	s = strings.ReplaceAll(s, TokenActor, actor)
	return strings.ReplaceAll(s, TokenAuthor, author)
}

// ActorName returns the display name for an acting user, annotated when the
// actor is also the resource's original author.
func ActorName(actor, author string) string {
	if actor != "" && actor == author {
		return actor + " (author)"
	}
	return actor
}

// PullRequestFields builds the structured detail rows for a pull request:
// commit and changed-file counts, then labels and milestone when present.
func PullRequestFields(pr PullRequest) []Field {
	fields := []Field{
		{
			Title: "Commits",
			Value: fmt.Sprintf("<%s/commits|%d commits>", pr.HTMLURL, pr.Commits),
			Short: true,
		},
		{
			Title: "Changed files",
			Value: fmt.Sprintf("<%s/files|%d files> (+%d -%d)", pr.HTMLURL, pr.ChangedFiles, pr.Additions, pr.Deletions),
			Short: true,
		},
	}
	fields = appendLabelField(fields, pr.Labels)
	return appendMilestoneField(fields, pr.Milestone)
}

// IssueFields builds the structured detail rows for an issue: labels and
// milestone only, no commit or file stats.
func IssueFields(issue Issue) []Field {
	var fields []Field
	fields = appendLabelField(fields, issue.Labels)
	return appendMilestoneField(fields, issue.Milestone)
}

func appendLabelField(fields []Field, labels []Label) []Field {
	if len(labels) == 0 {
		return fields
	}
	names := make([]string, 0, len(labels))
	for _, label := range labels {
		names = append(names, label.Name)
	}
	return append(fields, Field{
		Title: "Labels",
		Value: strings.Join(names, ", "),
		Short: true,
	})
}

func appendMilestoneField(fields []Field, milestone *Milestone) []Field {
	if milestone == nil {
		return fields
	}
	return append(fields, Field{
		Title: "Milestone",
		Value: fmt.Sprintf("<%s|%s>", milestone.HTMLURL, milestone.Title),
		Short: true,
	})
}
