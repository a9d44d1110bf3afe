package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/attestations/cmd/app/commands"
	"github.com/allisson/attestations/internal/app"
	"github.com/allisson/attestations/internal/config"
)

func getSigningCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "generate-signing-key",
			Usage: "Generate a new root key for audit log signing",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-provider",
					Usage: "KMS provider (localsecrets, gcpkms, awskms, azurekeyvault, hashivault)",
				},
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Usage: "KMS key URI (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: containerAction(func(ctx context.Context, cmd *cli.Command, container *app.Container, _ *config.Config) error {
				return commands.RunGenerateSigningKey(ctx, container.Logger(), commands.DefaultIO().Writer,
					cmd.String("kms-provider"), cmd.String("kms-key-uri"))
			}),
		},
	}
}
