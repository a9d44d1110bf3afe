package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/attestations/cmd/app/commands"
	"github.com/allisson/attestations/internal/app"
	"github.com/allisson/attestations/internal/config"
)

// clientFlags are shared by create-client and update-client.
func clientFlags(activeUsage string) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "name",
			Aliases:  []string{"n"},
			Required: true,
			Usage:    "Human-readable client name",
		},
		&cli.BoolFlag{
			Name:    "active",
			Aliases: []string{"a"},
			Value:   true,
			Usage:   activeUsage,
		},
		&cli.StringFlag{
			Name:    "policies",
			Aliases: []string{"p"},
			Usage:   "JSON array of policy documents (omit for interactive mode)",
		},
		formatFlag(),
	}
}

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "clean-expired-tokens",
			Usage: "Delete authentication tokens whose expiry has passed",
			Flags: []cli.Flag{
				dryRunFlag("Show how many tokens would be deleted without deleting"),
				formatFlag(),
			},
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container, _ *config.Config) error {
				tokenUseCase, err := container.TokenUseCase()
				if err != nil {
					return err
				}

				return commands.RunCleanExpiredTokens(ctx, tokenUseCase, container.Logger(),
					commands.DefaultIO().Writer, cmd.Bool("dry-run"), cmd.String("format"))
			}),
		},
		{
			Name:  "create-client",
			Usage: "Create a new authentication client with policies",
			Flags: clientFlags("Whether the client can authenticate immediately"),
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container, _ *config.Config) error {
				clientUseCase, err := container.ClientUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateClient(ctx, clientUseCase, container.Logger(), commands.DefaultIO(),
					cmd.String("name"), cmd.Bool("active"), cmd.String("policies"), cmd.String("format"))
			}),
		},
		{
			Name:  "update-client",
			Usage: "Update an existing authentication client's configuration",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:     "id",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Client ID (UUID)",
				},
			}, clientFlags("Whether the client can authenticate")...),
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container, _ *config.Config) error {
				clientUseCase, err := container.ClientUseCase()
				if err != nil {
					return err
				}

				return commands.RunUpdateClient(ctx, clientUseCase, container.Logger(), commands.DefaultIO(),
					cmd.String("id"), cmd.String("name"), cmd.Bool("active"), cmd.String("policies"), cmd.String("format"))
			}),
		},
		{
			Name:  "bootstrap-admin",
			Usage: "Create the initial admin credential",
			Flags: []cli.Flag{formatFlag()},
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container, _ *config.Config) error {
				adminCredentialUseCase, err := container.AdminCredentialUseCase()
				if err != nil {
					return err
				}

				return commands.RunBootstrapAdmin(ctx, adminCredentialUseCase, container.Logger(),
					commands.DefaultIO().Writer, cmd.String("format"))
			}),
		},
		{
			Name:  "rotate-admin",
			Usage: "Replace the active admin credential with a new one",
			Flags: []cli.Flag{formatFlag()},
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container, _ *config.Config) error {
				adminCredentialUseCase, err := container.AdminCredentialUseCase()
				if err != nil {
					return err
				}

				return commands.RunRotateAdmin(ctx, adminCredentialUseCase, container.Logger(),
					commands.DefaultIO().Writer, cmd.String("format"))
			}),
		},
	}
}
