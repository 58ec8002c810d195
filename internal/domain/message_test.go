package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatbridge/slack-notify/internal/domain"
)

func TestExpandTokens(t *testing.T) {
	testCases := []struct {
		name     string
		template string
		actor    string
		author   string
		want     string
	}{
		{
			name:     "single actor token",
			template: "Pull request opened by <actor>",
			actor:    "alice",
			author:   "bob",
			want:     "Pull request opened by alice",
		},
		{
			name:     "all occurrences replaced",
			template: "<actor> pinged <actor> about <author>'s pull request",
			actor:    "alice",
			author:   "bob",
			want:     "alice pinged alice about bob's pull request",
		},
		{
			name:     "no tokens",
			template: "plain text :tada:",
			actor:    "alice",
			author:   "bob",
			want:     "plain text :tada:",
		},
		{
			name:     "empty template",
			template: "",
			actor:    "alice",
			author:   "bob",
			want:     "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := domain.ExpandTokens(tc.template, tc.actor, tc.author)
			assert.Equal(t, tc.want, got)
			assert.NotContains(t, got, "<actor>")
			assert.NotContains(t, got, "<author>")
		})
	}
}

func TestActorName(t *testing.T) {
	assert.Equal(t, "alice", domain.ActorName("alice", "bob"))
	assert.Equal(t, "alice (author)", domain.ActorName("alice", "alice"))
	assert.Equal(t, "", domain.ActorName("", ""))
}

func TestPullRequestFields(t *testing.T) {
	pr := domain.PullRequest{
		Number:       42,
		HTMLURL:      "https://github.com/acme/widgets/pull/42",
		Commits:      4,
		ChangedFiles: 3,
		Additions:    23,
		Deletions:    0,
	}

	fields := domain.PullRequestFields(pr)
	require.Len(t, fields, 2)

	assert.Equal(t, "Commits", fields[0].Title)
	assert.Equal(t, "<https://github.com/acme/widgets/pull/42/commits|4 commits>", fields[0].Value)
	assert.Equal(t, "Changed files", fields[1].Title)
	assert.Equal(t, "<https://github.com/acme/widgets/pull/42/files|3 files> (+23 -0)", fields[1].Value)
}

func TestPullRequestFields_LabelsAndMilestone(t *testing.T) {
	pr := domain.PullRequest{
		HTMLURL:      "https://github.com/acme/widgets/pull/42",
		Commits:      1,
		ChangedFiles: 1,
		Labels:       []domain.Label{{Name: "bug"}, {Name: "urgent"}},
		Milestone: &domain.Milestone{
			Number:  3,
			Title:   "v2.0",
			HTMLURL: "https://github.com/acme/widgets/milestone/3",
		},
	}

	fields := domain.PullRequestFields(pr)
	require.Len(t, fields, 4)

	assert.Equal(t, "Labels", fields[2].Title)
	assert.Equal(t, "bug, urgent", fields[2].Value)
	assert.Equal(t, "Milestone", fields[3].Title)
	assert.Equal(t, "<https://github.com/acme/widgets/milestone/3|v2.0>", fields[3].Value)
}

func TestIssueFields(t *testing.T) {
	t.Run("empty issue has no fields", func(t *testing.T) {
		assert.Empty(t, domain.IssueFields(domain.Issue{}))
	})

	t.Run("labels and milestone only", func(t *testing.T) {
		issue := domain.Issue{
			Labels: []domain.Label{{Name: "question"}},
			Milestone: &domain.Milestone{
				Number:  1,
				Title:   "backlog",
				HTMLURL: "https://github.com/acme/widgets/milestone/1",
			},
		}

		fields := domain.IssueFields(issue)
		require.Len(t, fields, 2)
		assert.Equal(t, "Labels", fields[0].Title)
		assert.Equal(t, "question", fields[0].Value)
		assert.Equal(t, "Milestone", fields[1].Title)
	})
}
