package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatbridge/slack-notify/internal/domain"
)

func TestParseEvent_Valid(t *testing.T) {
	payload := `{
		"action": "opened",
		"pull_request": {
			"number": 42,
			"title": "Add widget support",
			"html_url": "https://github.com/acme/widgets/pull/42",
			"body": "adds widgets",
			"draft": false,
			"merged": false,
			"user": {"login": "bob"},
			"commits": 4,
			"changed_files": 3,
			"additions": 23,
			"deletions": 0,
			"labels": [{"name": "feature"}],
			"milestone": {"number": 1, "title": "v1.0", "html_url": "https://github.com/acme/widgets/milestone/1"}
		},
		"repository": {
			"full_name": "acme/widgets",
			"html_url": "https://github.com/acme/widgets",
			"owner": {"avatar_url": "https://github.com/acme.png"}
		},
		"sender": {"login": "alice", "html_url": "https://github.com/alice", "avatar_url": "https://github.com/alice.png"}
	}`

	ev, err := domain.ParseEvent(payload)
	require.NoError(t, err)

	require.NotNil(t, ev.PullRequest)
	assert.Equal(t, "opened", ev.Action)
	assert.Equal(t, 42, ev.PullRequest.Number)
	assert.Equal(t, "bob", ev.PullRequest.User.Login)
	assert.Equal(t, 4, ev.PullRequest.Commits)
	assert.Len(t, ev.PullRequest.Labels, 1)
	require.NotNil(t, ev.PullRequest.Milestone)
	assert.Equal(t, "v1.0", ev.PullRequest.Milestone.Title)
	assert.Equal(t, "acme/widgets", ev.Repository.FullName)
	assert.Equal(t, "alice", ev.Sender.Login)
}

func TestParseEvent_MalformedJSON(t *testing.T) {
	testCases := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"truncated", `{"action": "opened"`},
		{"not json", "not json at all"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.ParseEvent(tc.payload)
			require.ErrorIs(t, err, domain.ErrMalformedEvent)
		})
	}
}

func TestParseEvent_MissingRepository(t *testing.T) {
	_, err := domain.ParseEvent(`{"action": "opened", "sender": {"login": "alice"}}`)
	require.ErrorIs(t, err, domain.ErrMissingRepository)
}

func TestParseEvent_IssueCommentOnPullRequest(t *testing.T) {
	payload := `{
		"action": "created",
		"issue": {
			"number": 7,
			"title": "Broken build",
			"html_url": "https://github.com/acme/widgets/issues/7",
			"user": {"login": "bob"},
			"pull_request": {"url": "https://api.github.com/repos/acme/widgets/pulls/7"}
		},
		"comment": {"id": 99, "body": "same here", "html_url": "https://github.com/acme/widgets/issues/7#issuecomment-99"},
		"repository": {"full_name": "acme/widgets"},
		"sender": {"login": "carol"}
	}`

	ev, err := domain.ParseEvent(payload)
	require.NoError(t, err)

	require.NotNil(t, ev.Issue)
	assert.NotNil(t, ev.Issue.PullRequestRef)
	require.NotNil(t, ev.Comment)
	assert.Equal(t, int64(99), ev.Comment.ID)
}
