package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/attestations/cmd/app/commands"
	"github.com/allisson/attestations/internal/app"
	"github.com/allisson/attestations/internal/config"
)

// dateFlag builds a required date boundary flag for the audit verification
// window.
func dateFlag(name, alias, usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:     name,
		Aliases:  []string{alias},
		Required: true,
		Usage:    usage,
	}
}

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the API server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Apply pending database migrations",
			Action: containerAction(func(_ context.Context, _ *cli.Command, container *app.Container, cfg *config.Config) error {
				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			}),
		},
		{
			Name:  "clean-audit-logs",
			Usage: "Delete audit logs past a retention window",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:     "days",
					Aliases:  []string{"d"},
					Required: true,
					Usage:    "Retention window in days; older logs are deleted",
				},
				dryRunFlag("Report how many logs would be deleted without deleting"),
				formatFlag(),
			},
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container, _ *config.Config) error {
				auditLogUseCase, err := container.AuditLogUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanAuditLogs(ctx, auditLogUseCase, container.Logger(),
					commands.DefaultIO().Writer, int(cmd.Int("days")), cmd.Bool("dry-run"), cmd.String("format"))
			}),
		},
		{
			Name:  "verify-audit-logs",
			Usage: "Recheck audit log signatures over a date range",
			Flags: []cli.Flag{
				dateFlag("start-date", "s", "Window start (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)"),
				dateFlag("end-date", "e", "Window end (YYYY-MM-DD or YYYY-MM-DD HH:MM:SS)"),
				formatFlag(),
			},
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container, _ *config.Config) error {
				auditLogUseCase, err := container.AuditLogUseCase()
				if err != nil {
					return err
				}

				return commands.RunVerifyAuditLogs(ctx, auditLogUseCase, container.Logger(),
					commands.DefaultIO().Writer, cmd.String("start-date"), cmd.String("end-date"), cmd.String("format"))
			}),
		},
	}
}
