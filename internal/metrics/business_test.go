package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBusinessMetrics(t *testing.T) (BusinessMetrics, *Provider) {
	t.Helper()

	provider, err := NewProvider()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	business, err := NewBusinessMetrics(provider.MeterProvider(), "test_app")
	require.NoError(t, err)

	return business, provider
}

func TestNewBusinessMetrics(t *testing.T) {
	t.Run("rejects a namespace that breaks instrument naming", func(t *testing.T) {
		provider, err := NewProvider()
		require.NoError(t, err)

		_, err = NewBusinessMetrics(provider.MeterProvider(), "bad namespace")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "operation counter")
	})
}

func TestBusinessMetrics_RecordOperation(t *testing.T) {
	business, provider := setupBusinessMetrics(t)
	ctx := context.Background()

	business.RecordOperation(ctx, "auth", "client_create", "success")
	business.RecordOperation(ctx, "auth", "client_create", "success")
	business.RecordOperation(ctx, "auth", "client_create", "error")
	business.RecordOperation(ctx, "schemas", "schema_register", "success")

	output := scrapeMetrics(t, provider)
	assertMetricLine(t, output, "test_app_operations_total",
		`domain="auth".*operation="client_create".*status="success"`, "2")
	assertMetricLine(t, output, "test_app_operations_total",
		`domain="auth".*operation="client_create".*status="error"`, "1")
	assertMetricLine(t, output, "test_app_operations_total",
		`domain="schemas".*operation="schema_register".*status="success"`, "1")
}

func TestBusinessMetrics_RecordDuration(t *testing.T) {
	business, provider := setupBusinessMetrics(t)
	ctx := context.Background()

	business.RecordDuration(ctx, "attestations", "attestation_create", 50*time.Millisecond, "success")
	business.RecordDuration(ctx, "attestations", "attestation_create", 150*time.Millisecond, "success")
	business.RecordDuration(ctx, "attestations", "attestation_revoke", 20*time.Millisecond, "error")

	output := scrapeMetrics(t, provider)
	assertMetricLine(t, output, "test_app_operation_duration_seconds_count",
		`domain="attestations".*operation="attestation_create".*status="success"`, "2")
	assertMetricLine(t, output, "test_app_operation_duration_seconds_sum",
		`domain="attestations".*operation="attestation_create".*status="success"`, "")
	assertMetricLine(t, output, "test_app_operation_duration_seconds_count",
		`domain="attestations".*operation="attestation_revoke".*status="error"`, "1")
}

func TestObserveOperation(t *testing.T) {
	business, provider := setupBusinessMetrics(t)
	ctx := context.Background()

	ObserveOperation(ctx, business, "auth", "token_issue", time.Now(), nil)
	ObserveOperation(ctx, business, "auth", "token_issue", time.Now(), assert.AnError)

	output := scrapeMetrics(t, provider)
	assertMetricLine(t, output, "test_app_operations_total",
		`domain="auth".*operation="token_issue".*status="success"`, "1")
	assertMetricLine(t, output, "test_app_operations_total",
		`domain="auth".*operation="token_issue".*status="error"`, "1")
	assertMetricLine(t, output, "test_app_operation_duration_seconds_count",
		`domain="auth".*operation="token_issue".*status="success"`, "1")
}

func TestNoOpBusinessMetrics(t *testing.T) {
	business := NewNoOpBusinessMetrics()
	require.NotNil(t, business)

	// Recording must be safe without any provider behind it.
	business.RecordOperation(context.Background(), "auth", "client_create", "success")
	business.RecordDuration(context.Background(), "auth", "client_create", 100*time.Millisecond, "success")
}
