package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/attestations/internal/app"
	"github.com/allisson/attestations/internal/config"
)

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands(version)...)
	cmds = append(cmds, getSigningCommands()...)
	cmds = append(cmds, getAuthCommands()...)
	return cmds
}

// containerAction wraps a CLI action that needs the DI container, building it
// from freshly loaded configuration and tearing it down when the action
// returns.
func containerAction(
	run func(ctx context.Context, cmd *cli.Command, container *app.Container, cfg *config.Config) error,
) func(ctx context.Context, cmd *cli.Command) error {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg := config.Load()
		container := app.NewContainer(cfg)
		defer func() { _ = container.Shutdown(ctx) }()

		return run(ctx, cmd, container, cfg)
	}
}

// formatFlag builds the output format flag every reporting command accepts.
func formatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   "text",
		Usage:   "Output format: 'text' or 'json'",
	}
}

// dryRunFlag builds a dry-run toggle with command-specific usage text.
func dryRunFlag(usage string) *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    "dry-run",
		Aliases: []string{"n"},
		Usage:   usage,
	}
}
