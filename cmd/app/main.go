// Package main is the attestation registry CLI: it starts the API server and
// hosts the operational commands for migrations, clients, admins and audit
// logs.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

const version = "1.0.0"

func main() {
	root := &cli.Command{
		Name:     "app",
		Usage:    "Attestation registry service",
		Version:  version,
		Commands: getCommands(version),
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
