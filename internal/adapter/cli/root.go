// Package cli wires the relay into a Cobra command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// ErrVersionRequested indicates the user requested the CLI version and no
// further work should be done.
var ErrVersionRequested = errors.New("version requested")

// Notifier relays one webhook delivery to Slack.
type Notifier interface {
	Run(ctx context.Context, eventName, payload string) error
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Notifier Notifier
	Args     Arguments

	// Preflight verifies required configuration before a relay run.
	Preflight func() error

	// DefaultEventName and DefaultPayload come from configuration and are
	// used when the run command's flags do not override them.
	DefaultEventName string
	DefaultPayload   string

	Version string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "sn",
		Short: "Relay GitHub webhook events to Slack",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(runCommand(deps))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func runCommand(deps Dependencies) *cobra.Command {
	var eventName string
	var eventPayload string
	var eventFile string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Relay one webhook event to Slack",
		RunE: func(cmd *cobra.Command, args []string) error {
			if deps.Preflight != nil {
				if err := deps.Preflight(); err != nil {
					return err
				}
			}

			name := eventName
			if name == "" {
				name = deps.DefaultEventName
			}
			if name == "" {
				return errors.New("no event name: set --event-name or configuration")
			}

			payload, err := resolvePayload(eventPayload, eventFile, deps.DefaultPayload)
			if err != nil {
				return err
			}

			return deps.Notifier.Run(cmd.Context(), name, payload)
		},
	}

	cmd.Flags().StringVar(&eventName, "event-name", "", "Webhook event name (e.g. pull_request)")
	cmd.Flags().StringVar(&eventPayload, "event", "", "Webhook event payload JSON")
	cmd.Flags().StringVar(&eventFile, "event-file", "", "Path to the webhook event payload file")

	return cmd
}

// resolvePayload picks the event payload: the inline flag wins, then the
// payload file (how Actions runners deliver events), then configuration.
func resolvePayload(inline, file, fallback string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read event file: %w", err)
		}
		return string(data), nil
	}
	if fallback == "" {
		return "", errors.New("no event payload: set --event, --event-file or configuration")
	}
	return fallback, nil
}
