// Package commands implements the CLI entrypoints of the attestation
// registry: serving the API, running migrations, managing clients and the
// operational maintenance tasks.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/golang-migrate/migrate/v4"

	"github.com/allisson/attestations/internal/app"
)

// IOTuple carries the reader and writer a command talks to, so tests can
// substitute buffers for the process streams.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO wires an IOTuple to os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{Reader: os.Stdin, Writer: os.Stdout}
}

// closeContainer releases the container's resources and logs any shutdown
// error.
func closeContainer(container *app.Container, logger *slog.Logger) {
	if err := container.Shutdown(context.Background()); err != nil {
		logger.Error("failed to shutdown container", slog.Any("error", err))
	}
}

// closeMigrate closes both halves of a migrate instance and logs any errors.
func closeMigrate(m *migrate.Migrate, logger *slog.Logger) {
	sourceErr, dbErr := m.Close()
	if sourceErr != nil || dbErr != nil {
		logger.Error("failed to close the migrate",
			slog.Any("source_error", sourceErr),
			slog.Any("database_error", dbErr),
		)
	}
}
