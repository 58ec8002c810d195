package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/chatbridge/slack-notify/internal/adapter/cli"
	githubadapter "github.com/chatbridge/slack-notify/internal/adapter/github"
	"github.com/chatbridge/slack-notify/internal/adapter/observability"
	slackadapter "github.com/chatbridge/slack-notify/internal/adapter/slack"
	"github.com/chatbridge/slack-notify/internal/config"
	"github.com/chatbridge/slack-notify/internal/usecase/notify"
	"github.com/chatbridge/slack-notify/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "sn",
		EnvPrefix:   "SN",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	logger := observability.NewDefaultLogger(
		observability.ParseLevel(cfg.Logging.Level),
		observability.ParseFormat(cfg.Logging.Format),
	)
	logger.LogInfo(ctx, "configuration loaded", map[string]any{
		"channel":     cfg.Slack.Channel,
		"slackToken":  observability.RedactToken(cfg.Slack.Token),
		"githubToken": observability.RedactToken(cfg.GitHub.Token),
	})

	fetcher := githubadapter.NewClient(cfg.GitHub.Token)
	if cfg.GitHub.APIURL != "" {
		fetcher.SetBaseURL(cfg.GitHub.APIURL)
	}

	publisher := slackadapter.NewPublisher(cfg.Slack)

	service := notify.NewService(cfg, fetcher, publisher)
	service.SetLogger(logger)

	root := cli.NewRootCommand(cli.Dependencies{
		Notifier:         service,
		Preflight:        cfg.Validate,
		DefaultEventName: cfg.Event.Name,
		DefaultPayload:   cfg.Event.Payload,
		Version:          version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return err
	}
	return nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "sn"))
	}
	return paths
}

// Compile-time interface compliance checks
var _ notify.ContentFetcher = (*githubadapter.Client)(nil)
var _ notify.Publisher = (*slackadapter.Publisher)(nil)
var _ cli.Notifier = (*notify.Service)(nil)
