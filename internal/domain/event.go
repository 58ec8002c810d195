package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Known webhook event names this relay understands. Anything else is
// silently ignored by the dispatcher.
const (
	EventNamePullRequest       = "pull_request"
	EventNameIssues            = "issues"
	EventNamePullRequestReview = "pull_request_review"
	EventNameIssueComment      = "issue_comment"
)

// Webhook actions the relay reacts to. Unrecognized actions within a known
// family are no-ops, not errors.
const (
	ActionOpened         = "opened"
	ActionReopened       = "reopened"
	ActionReadyForReview = "ready_for_review"
	ActionClosed         = "closed"
	ActionSubmitted      = "submitted"
	ActionCreated        = "created"
)

// ErrMalformedEvent indicates the event payload was not a valid JSON object.
var ErrMalformedEvent = errors.New("event payload is not valid JSON")

// ErrMissingRepository indicates the event payload carried no repository,
// which every deliverable webhook must have.
var ErrMissingRepository = errors.New("event payload has no repository")

// Event is one GitHub webhook delivery. Which nested entities are present
// depends on the event name; absent entities are nil.
type Event struct {
	Action      string       `json:"action"`
	PullRequest *PullRequest `json:"pull_request"`
	Issue       *Issue       `json:"issue"`
	Review      *Review      `json:"review"`
	Comment     *Comment     `json:"comment"`
	Repository  *Repository  `json:"repository"`
	Sender      Account      `json:"sender"`
}

// PullRequest is the pull_request entity of a webhook payload.
type PullRequest struct {
	Number       int        `json:"number"`
	Title        string     `json:"title"`
	HTMLURL      string     `json:"html_url"`
	Body         string     `json:"body"`
	Draft        bool       `json:"draft"`
	Merged       bool       `json:"merged"`
	User         Account    `json:"user"`
	Commits      int        `json:"commits"`
	ChangedFiles int        `json:"changed_files"`
	Additions    int        `json:"additions"`
	Deletions    int        `json:"deletions"`
	Labels       []Label    `json:"labels"`
	Milestone    *Milestone `json:"milestone"`
}

// Issue is the issue entity of a webhook payload. PullRequestRef is set when
// the issue is actually a pull request (issue_comment events fire for both).
type Issue struct {
	Number         int             `json:"number"`
	Title          string          `json:"title"`
	HTMLURL        string          `json:"html_url"`
	Body           string          `json:"body"`
	User           Account         `json:"user"`
	Labels         []Label         `json:"labels"`
	Milestone      *Milestone      `json:"milestone"`
	PullRequestRef *PullRequestRef `json:"pull_request"`
}

// PullRequestRef marks an issue as backing a pull request.
type PullRequestRef struct {
	URL string `json:"url"`
}

// Review state values as delivered by GitHub.
const (
	ReviewStateApproved         = "approved"
	ReviewStateChangesRequested = "changes_requested"
	ReviewStateCommented        = "commented"
)

// Review is the review entity of a pull_request_review payload.
type Review struct {
	ID      int64  `json:"id"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
	State   string `json:"state"`
}

// Comment is the comment entity of an issue_comment payload.
type Comment struct {
	ID      int64  `json:"id"`
	Body    string `json:"body"`
	HTMLURL string `json:"html_url"`
}

// Repository identifies where the event happened.
type Repository struct {
	FullName string  `json:"full_name"`
	HTMLURL  string  `json:"html_url"`
	Owner    Account `json:"owner"`
}

// Account is a GitHub user or organization reference.
type Account struct {
	Login     string `json:"login"`
	HTMLURL   string `json:"html_url"`
	AvatarURL string `json:"avatar_url"`
}

// Label is an issue or pull request label.
type Label struct {
	Name string `json:"name"`
}

// Milestone is an issue or pull request milestone.
type Milestone struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	HTMLURL string `json:"html_url"`
}

// ParseEvent decodes a raw webhook payload and validates it. It fails with
// ErrMalformedEvent when the payload is not valid JSON and with
// ErrMissingRepository when the repository entity is absent.
func ParseEvent(raw string) (Event, error) {
	var ev Event
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %s", ErrMalformedEvent, err)
	}
	if err := ev.Validate(); err != nil {
		return Event{}, err
	}
	return ev, nil
}

// Validate checks the invariants every event must satisfy.
func (e Event) Validate() error {
	if e.Repository == nil {
		return ErrMissingRepository
	}
	return nil
}
