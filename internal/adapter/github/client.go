package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/chatbridge/slack-notify/internal/adapter/mrkdwn"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultTimeout = 30 * time.Second

	// htmlMediaType asks GitHub to render bodies as HTML (body_html) next to
	// the raw markdown, which is what the mrkdwn conversion consumes.
	htmlMediaType = "application/vnd.github.3.html+json"
)

// Client is an HTTP client for the GitHub read API. It fetches the canonical
// resource behind a webhook event and reduces it to display content.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new GitHub API client with the given token.
// The token should be a personal access token or GITHUB_TOKEN from Actions.
func NewClient(token string) *Client {
	return &Client{
		token:      token,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// SetBaseURL sets a custom base URL (GHES installs, testing). Trailing
// slashes are trimmed to keep request paths canonical.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = strings.TrimRight(url, "/")
}

// SetTimeout sets the HTTP timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.httpClient.Timeout = timeout
}

// Content is a resource body reduced for display: mrkdwn text plus an
// optional leading image.
type Content struct {
	Body     string
	ImageURL string
}

// ReviewComment is one line comment attached to a review.
type ReviewComment struct {
	ID      int64
	HTMLURL string
	Content Content
}

// PullRequest fetches the display content of a pull request.
func (c *Client) PullRequest(ctx context.Context, repo string, number int) (Content, error) {
	var resource resourceResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/pulls/%d", repo, number), &resource); err != nil {
		return Content{}, err
	}
	return resource.content(), nil
}

// Issue fetches the display content of an issue.
func (c *Client) Issue(ctx context.Context, repo string, number int) (Content, error) {
	var resource resourceResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/issues/%d", repo, number), &resource); err != nil {
		return Content{}, err
	}
	return resource.content(), nil
}

// Review fetches the display content of a pull request review.
func (c *Client) Review(ctx context.Context, repo string, number int, reviewID int64) (Content, error) {
	var resource resourceResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/pulls/%d/reviews/%d", repo, number, reviewID), &resource); err != nil {
		return Content{}, err
	}
	return resource.content(), nil
}

// IssueComment fetches the display content of a single issue or pull
// request comment by id.
func (c *Client) IssueComment(ctx context.Context, repo string, commentID int64) (Content, error) {
	var resource resourceResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/issues/comments/%d", repo, commentID), &resource); err != nil {
		return Content{}, err
	}
	return resource.content(), nil
}

// ReviewComments fetches every line comment attached to a review, in the
// order GitHub returns them.
func (c *Client) ReviewComments(ctx context.Context, repo string, number int, reviewID int64) ([]ReviewComment, error) {
	var resources []reviewCommentResponse
	if err := c.get(ctx, fmt.Sprintf("/repos/%s/pulls/%d/reviews/%d/comments", repo, number, reviewID), &resources); err != nil {
		return nil, err
	}

	comments := make([]ReviewComment, 0, len(resources))
	for _, resource := range resources {
		comments = append(comments, ReviewComment{
			ID:      resource.ID,
			HTMLURL: resource.HTMLURL,
			Content: resource.content(),
		})
	}
	return comments, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &Error{Message: err.Error()}
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", htmlMediaType)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return MapHTTPError(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Message: fmt.Sprintf("parse response: %v", err)}
	}
	return nil
}

// content reduces a fetched resource to display content. The HTML rendering
// is preferred; when it yields no text the plain-text body is flattened
// instead. Missing bodies come back as empty strings, never an error.
func (r resourceResponse) content() Content {
	converted := mrkdwn.Convert(r.BodyHTML)
	if converted.Text == "" {
		return Content{
			Body:     mrkdwn.CollapseText(r.BodyText),
			ImageURL: converted.ImageURL,
		}
	}
	return Content{
		Body:     converted.Text,
		ImageURL: converted.ImageURL,
	}
}
