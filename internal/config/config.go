// Package config defines the relay configuration and its loader.
package config

// Config represents the full application configuration.
type Config struct {
	Slack         SlackConfig         `yaml:"slack"`
	GitHub        GitHubConfig        `yaml:"github"`
	Subscriptions SubscriptionsConfig `yaml:"subscriptions"`
	Display       DisplayConfig       `yaml:"display"`
	Templates     TemplateConfig      `yaml:"templates"`
	Event         EventConfig         `yaml:"event"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// SlackConfig holds the Slack credential, target channel and branding.
type SlackConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`

	// AppName and the icon/emoji pair control the sender identity of posts.
	// AppIcon wins over AppEmoji when both are set.
	AppName  string `yaml:"appName"`
	AppIcon  string `yaml:"appIcon"`
	AppEmoji string `yaml:"appEmoji"`

	Footer     string `yaml:"footer"`
	FooterIcon string `yaml:"footerIcon"`
}

// GitHubConfig holds the GitHub read credential and API endpoint.
type GitHubConfig struct {
	Token string `yaml:"token"`

	// APIURL overrides the api.github.com endpoint (GHES installs, tests).
	APIURL string `yaml:"apiUrl"`
}

// SubscriptionsConfig toggles which event kinds produce messages at all.
type SubscriptionsConfig struct {
	Pulls         bool `yaml:"pulls"`
	Issues        bool `yaml:"issues"`
	Reviews       bool `yaml:"reviews"`
	PullComments  bool `yaml:"pullComments"`
	IssueComments bool `yaml:"issueComments"`
}

// DisplayConfig controls per-kind presentation: whether the acting user is
// shown as the message byline, whether detail fields are attached, and
// whether review line comments thread under the review post.
type DisplayConfig struct {
	PullActor         bool `yaml:"pullActor"`
	IssueActor        bool `yaml:"issueActor"`
	ReviewActor       bool `yaml:"reviewActor"`
	PullCommentActor  bool `yaml:"pullCommentActor"`
	IssueCommentActor bool `yaml:"issueCommentActor"`

	PullDetails  bool `yaml:"pullDetails"`
	IssueDetails bool `yaml:"issueDetails"`

	ThreadComments bool `yaml:"threadComments"`
}

// TemplateConfig holds the per-transition message templates. Templates may
// embed <actor> and <author> tokens; emoji-style tokens pass through
// verbatim for Slack to render.
type TemplateConfig struct {
	PullOpen        string `yaml:"pullOpen"`
	PullReopen      string `yaml:"pullReopen"`
	PullDraftOpen   string `yaml:"pullDraftOpen"`
	PullDraftReopen string `yaml:"pullDraftReopen"`
	PullReady       string `yaml:"pullReady"`
	PullClose       string `yaml:"pullClose"`
	PullMerge       string `yaml:"pullMerge"`
	PullComment     string `yaml:"pullComment"`

	IssueOpen    string `yaml:"issueOpen"`
	IssueReopen  string `yaml:"issueReopen"`
	IssueClose   string `yaml:"issueClose"`
	IssueComment string `yaml:"issueComment"`

	ReviewApprove        string `yaml:"reviewApprove"`
	ReviewRequestChanges string `yaml:"reviewRequestChanges"`
	ReviewComment        string `yaml:"reviewComment"`
}

// EventConfig carries the inbound webhook delivery: the event name and the
// raw payload JSON.
type EventConfig struct {
	Name    string `yaml:"name"`
	Payload string `yaml:"payload"`
}

// LoggingConfig controls log verbosity and output format.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is human or json.
	Format string `yaml:"format"`
}

// Validate reports the first missing required option. The event name and
// payload are not checked here; they may arrive as command flags instead.
func (c Config) Validate() error {
	switch {
	case c.Slack.Token == "":
		return &MissingOptionError{Option: "slack.token"}
	case c.Slack.Channel == "":
		return &MissingOptionError{Option: "slack.channel"}
	}
	return nil
}

// MissingOptionError reports a required configuration option that was not set.
type MissingOptionError struct {
	Option string
}

func (e *MissingOptionError) Error() string {
	return "missing required option " + e.Option
}
