package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// LoaderOptions describes how configuration should be discovered.
type LoaderOptions struct {
	ConfigPaths []string
	FileName    string
	EnvPrefix   string
}

// Load returns the merged configuration from files and environment
// variables. Environment variables use the prefix with dots replaced by
// underscores, e.g. SN_SLACK_TOKEN for slack.token.
func Load(opts LoaderOptions) (Config, error) {
	v := viper.New()

	name := opts.FileName
	if name == "" {
		name = "sn"
	}

	configFile := locateConfigFile(name, opts.ConfigPaths)
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(name)
	}

	prefix := opts.EnvPrefix
	if prefix == "" {
		prefix = "SN"
	}
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AllowEmptyEnv(true)

	setDefaults(v)
	bindKeys(v)

	if configFile != "" {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

func locateConfigFile(name string, paths []string) string {
	searchPaths := append([]string{}, paths...)
	searchPaths = append(searchPaths, ".")
	for _, dir := range searchPaths {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name+".yaml")
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("slack.appName", "GitHub")

	v.SetDefault("github.apiUrl", "https://api.github.com")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "human")

	// Every event kind notifies unless explicitly turned off.
	v.SetDefault("subscriptions.pulls", true)
	v.SetDefault("subscriptions.issues", true)
	v.SetDefault("subscriptions.reviews", true)
	v.SetDefault("subscriptions.pullComments", true)
	v.SetDefault("subscriptions.issueComments", true)

	v.SetDefault("display.pullActor", true)
	v.SetDefault("display.issueActor", true)
	v.SetDefault("display.reviewActor", true)
	v.SetDefault("display.pullCommentActor", true)
	v.SetDefault("display.issueCommentActor", true)
	v.SetDefault("display.pullDetails", false)
	v.SetDefault("display.issueDetails", false)
	v.SetDefault("display.threadComments", false)

	v.SetDefault("templates.pullOpen", "Pull request opened by <actor>")
	v.SetDefault("templates.pullReopen", "Pull request reopened by <actor>")
	v.SetDefault("templates.pullDraftOpen", "Draft pull request opened by <actor>")
	v.SetDefault("templates.pullDraftReopen", "Draft pull request reopened by <actor>")
	v.SetDefault("templates.pullReady", "Pull request ready for review by <actor>")
	v.SetDefault("templates.pullClose", "Pull request closed by <actor>")
	v.SetDefault("templates.pullMerge", "Pull request merged by <actor>")
	v.SetDefault("templates.pullComment", "<actor> commented on <author>'s pull request")
	v.SetDefault("templates.issueOpen", "Issue opened by <actor>")
	v.SetDefault("templates.issueReopen", "Issue reopened by <actor>")
	v.SetDefault("templates.issueClose", "Issue closed by <actor>")
	v.SetDefault("templates.issueComment", "<actor> commented on <author>'s issue")
	v.SetDefault("templates.reviewApprove", "<actor> approved <author>'s pull request")
	v.SetDefault("templates.reviewRequestChanges", "<actor> requested changes on <author>'s pull request")
	v.SetDefault("templates.reviewComment", "<actor> commented on <author>'s pull request")
}

// bindKeys registers keys that have no default so AutomaticEnv picks them up
// even when no config file sets them.
func bindKeys(v *viper.Viper) {
	for _, key := range []string{
		"slack.token",
		"slack.channel",
		"slack.appIcon",
		"slack.appEmoji",
		"slack.footer",
		"slack.footerIcon",
		"github.token",
		"event.name",
		"event.payload",
	} {
		// MustBindEnv panics only on empty input, which cannot happen here.
		v.MustBindEnv(key)
	}
}
