package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	slackgo "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatbridge/slack-notify/internal/adapter/slack"
	"github.com/chatbridge/slack-notify/internal/config"
	"github.com/chatbridge/slack-notify/internal/domain"
)

func newTestPublisher(t *testing.T, cfg config.SlackConfig, handler http.HandlerFunc) *slack.Publisher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	publisher := slack.NewPublisher(cfg)
	publisher.SetAPIURL(server.URL + "/")
	publisher.SetNow(func() time.Time { return time.Unix(1700000000, 0) })
	return publisher
}

func postMessageOK(ts string, captured *url.Values) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		*captured = r.Form

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"ok":      true,
			"channel": "C0TESTCHAN",
			"ts":      ts,
		})
	}
}

func testSlackConfig() config.SlackConfig {
	return config.SlackConfig{
		Token:      "xoxb-test",
		Channel:    "#builds",
		AppName:    "GitHub",
		Footer:     "acme/widgets",
		FooterIcon: "https://github.githubassets.com/favicon.ico",
	}
}

func decodeAttachments(t *testing.T, form url.Values) []slackgo.Attachment {
	t.Helper()
	var attachments []slackgo.Attachment
	require.NoError(t, json.Unmarshal([]byte(form.Get("attachments")), &attachments))
	return attachments
}

func TestPublisherPublish(t *testing.T) {
	var form url.Values
	publisher := newTestPublisher(t, testSlackConfig(), postMessageOK("1700000001.000200", &form))

	msg := domain.Message{
		Description: "Pull request opened by alice",
		Color:       domain.ColorOpen,
		Title:       "#42 Add widget support",
		TitleLink:   "https://github.com/acme/widgets/pull/42",
		Body:        "*rendered body*",
		ImageURL:    "https://example.com/shot.png",
		Fields: []domain.Field{
			{Title: "Commits", Value: "<https://github.com/acme/widgets/pull/42/commits|4 commits>", Short: true},
		},
		Actor: &domain.Actor{
			Name: "alice",
			Link: "https://github.com/alice",
			Icon: "https://github.com/alice.png",
		},
	}

	ts, err := publisher.Publish(context.Background(), msg)

	require.NoError(t, err)
	assert.Equal(t, "1700000001.000200", ts)
	assert.Equal(t, "#builds", form.Get("channel"))
	assert.Equal(t, "Pull request opened by alice", form.Get("text"))
	assert.Equal(t, "GitHub", form.Get("username"))
	assert.Empty(t, form.Get("thread_ts"))

	attachments := decodeAttachments(t, form)
	require.Len(t, attachments, 1)
	a := attachments[0]
	assert.Equal(t, "#36a64f", a.Color)
	assert.Equal(t, "#42 Add widget support", a.Title)
	assert.Equal(t, "https://github.com/acme/widgets/pull/42", a.TitleLink)
	assert.Equal(t, "*rendered body*", a.Text)
	assert.Equal(t, "https://example.com/shot.png", a.ImageURL)
	assert.Equal(t, "alice", a.AuthorName)
	assert.Equal(t, "https://github.com/alice", a.AuthorLink)
	assert.Equal(t, "https://github.com/alice.png", a.AuthorIcon)
	assert.Equal(t, "acme/widgets", a.Footer)
	assert.Equal(t, []string{"text"}, a.MarkdownIn)
	assert.Equal(t, json.Number("1700000000"), a.Ts)
	require.Len(t, a.Fields, 1)
	assert.Equal(t, "Commits", a.Fields[0].Title)
	assert.True(t, a.Fields[0].Short)
}

func TestPublisherPublish_Threaded(t *testing.T) {
	var form url.Values
	publisher := newTestPublisher(t, testSlackConfig(), postMessageOK("1700000002.000300", &form))

	msg := domain.Message{
		Description: "alice commented on bob's pull request",
		Color:       domain.ColorBase,
		ThreadTS:    "1700000001.000200",
	}

	_, err := publisher.Publish(context.Background(), msg)

	require.NoError(t, err)
	assert.Equal(t, "1700000001.000200", form.Get("thread_ts"))
}

func TestPublisherPublish_Icons(t *testing.T) {
	t.Run("icon url wins over emoji", func(t *testing.T) {
		cfg := testSlackConfig()
		cfg.AppIcon = "https://example.com/icon.png"
		cfg.AppEmoji = ":octocat:"

		var form url.Values
		publisher := newTestPublisher(t, cfg, postMessageOK("1.1", &form))

		_, err := publisher.Publish(context.Background(), domain.Message{Description: "x"})

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/icon.png", form.Get("icon_url"))
		assert.Empty(t, form.Get("icon_emoji"))
	})

	t.Run("emoji alone", func(t *testing.T) {
		cfg := testSlackConfig()
		cfg.AppEmoji = ":octocat:"

		var form url.Values
		publisher := newTestPublisher(t, cfg, postMessageOK("1.1", &form))

		_, err := publisher.Publish(context.Background(), domain.Message{Description: "x"})

		require.NoError(t, err)
		assert.Equal(t, ":octocat:", form.Get("icon_emoji"))
	})
}

func TestPublisherPublish_APIError(t *testing.T) {
	publisher := newTestPublisher(t, testSlackConfig(), func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "channel_not_found"})
	})

	_, err := publisher.Publish(context.Background(), domain.Message{Description: "x"})

	var slackErr *slack.Error
	require.ErrorAs(t, err, &slackErr)
	assert.Equal(t, "channel_not_found", slackErr.Code)
	assert.EqualError(t, err, "slack: post message failed: channel_not_found")
}
