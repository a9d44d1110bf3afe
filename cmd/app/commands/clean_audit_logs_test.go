package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authMocks "github.com/allisson/attestations/internal/auth/usecase/mocks"
)

func TestRunCleanAuditLogs(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("deletes-and-reports-text", func(t *testing.T) {
		mockUseCase := &authMocks.MockAuditLogUseCase{}
		mockUseCase.On("DeleteOlderThan", ctx, 90, false).Return(int64(1234), nil)

		var out bytes.Buffer
		err := RunCleanAuditLogs(ctx, mockUseCase, logger, &out, 90, false, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully deleted 1234 audit log(s) older than 90 day(s)")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("dry-run-previews-only", func(t *testing.T) {
		mockUseCase := &authMocks.MockAuditLogUseCase{}
		mockUseCase.On("DeleteOlderThan", ctx, 30, true).Return(int64(50), nil)

		var out bytes.Buffer
		err := RunCleanAuditLogs(ctx, mockUseCase, logger, &out, 30, true, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Dry-run mode: Would delete 50 audit log(s)")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("json-output", func(t *testing.T) {
		mockUseCase := &authMocks.MockAuditLogUseCase{}
		mockUseCase.On("DeleteOlderThan", ctx, 30, true).Return(int64(50), nil)

		var out bytes.Buffer
		err := RunCleanAuditLogs(ctx, mockUseCase, logger, &out, 30, true, "json")

		require.NoError(t, err)
		assert.Contains(t, out.String(), `"count": 50`)
		assert.Contains(t, out.String(), `"days": 30`)
		assert.Contains(t, out.String(), `"dry_run": true`)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("negative-days", func(t *testing.T) {
		err := RunCleanAuditLogs(ctx, nil, logger, &bytes.Buffer{}, -1, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "days must be a positive number")
	})

	t.Run("delete-failure", func(t *testing.T) {
		mockUseCase := &authMocks.MockAuditLogUseCase{}
		mockUseCase.On("DeleteOlderThan", ctx, 30, false).Return(int64(0), assert.AnError)

		err := RunCleanAuditLogs(ctx, mockUseCase, logger, &bytes.Buffer{}, 30, false, "text")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to delete audit logs")
		mockUseCase.AssertExpectations(t)
	})
}
