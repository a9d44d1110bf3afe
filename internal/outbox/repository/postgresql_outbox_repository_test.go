package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/attestations/internal/outbox/domain"
	"github.com/allisson/attestations/internal/testutil"
)

// pendingEvent builds an unprocessed event fixture.
func pendingEvent(eventType, payload string) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:        uuid.Must(uuid.NewV7()),
		EventType: eventType,
		Payload:   payload,
		Status:    domain.OutboxEventStatusPending,
	}
}

func TestNewPostgreSQLOutboxEventRepository(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLOutboxEventRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLOutboxEventRepository{}, repo)
}

func TestPostgreSQLOutboxEventRepository_Create(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOutboxEventRepository(db)
	ctx := context.Background()

	event := pendingEvent(domain.EventTypeSchemaRegistered, `{"schema_id": "s1"}`)

	err := repo.Create(ctx, event)
	require.NoError(t, err)

	events, err := repo.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	stored := events[0]
	assert.Equal(t, event.ID, stored.ID)
	assert.Equal(t, domain.EventTypeSchemaRegistered, stored.EventType)
	assert.Equal(t, `{"schema_id": "s1"}`, stored.Payload)
	assert.Equal(t, domain.OutboxEventStatusPending, stored.Status)
	assert.Zero(t, stored.Retries)
	assert.Nil(t, stored.LastError)
	assert.Nil(t, stored.ProcessedAt)
	assert.False(t, stored.CreatedAt.IsZero())
	assert.False(t, stored.UpdatedAt.IsZero())
}

func TestPostgreSQLOutboxEventRepository_GetPendingEvents(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOutboxEventRepository(db)
	ctx := context.Background()

	first := pendingEvent(domain.EventTypeAttestationCreated, `{"attestation_id": "a1"}`)
	second := pendingEvent(domain.EventTypeAttestationRevoked, `{"attestation_id": "a1"}`)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	// A processed event must not be claimed again.
	processed := pendingEvent(domain.EventTypeSchemaRegistered, `{"schema_id": "s1"}`)
	require.NoError(t, repo.Create(ctx, processed))
	now := time.Now().UTC()
	processed.Status = domain.OutboxEventStatusProcessed
	processed.ProcessedAt = &now
	require.NoError(t, repo.Update(ctx, processed))

	events, err := repo.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Creation order is preserved.
	assert.Equal(t, first.ID, events[0].ID)
	assert.Equal(t, second.ID, events[1].ID)
}

func TestPostgreSQLOutboxEventRepository_GetPendingEvents_Limit(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOutboxEventRepository(db)
	ctx := context.Background()

	var created []*domain.OutboxEvent
	for i := 0; i < 3; i++ {
		event := pendingEvent(domain.EventTypeAttestationCreated, `{"seq": true}`)
		require.NoError(t, repo.Create(ctx, event))
		created = append(created, event)
	}

	events, err := repo.GetPendingEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// The oldest events win when the batch is smaller than the backlog.
	assert.Equal(t, created[0].ID, events[0].ID)
	assert.Equal(t, created[1].ID, events[1].ID)
}

func TestPostgreSQLOutboxEventRepository_GetPendingEvents_Empty(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOutboxEventRepository(db)

	events, err := repo.GetPendingEvents(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestPostgreSQLOutboxEventRepository_Update(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOutboxEventRepository(db)
	ctx := context.Background()

	event := pendingEvent(domain.EventTypeAttestationCreated, `{"attestation_id": "a1"}`)
	require.NoError(t, repo.Create(ctx, event))

	// A failed relay attempt records the error and leaves the pending pool.
	errMsg := "broker unavailable"
	event.Status = domain.OutboxEventStatusFailed
	event.Retries = 3
	event.LastError = &errMsg
	require.NoError(t, repo.Update(ctx, event))

	events, err := repo.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)

	// Requeueing keeps the attempt bookkeeping.
	event.Status = domain.OutboxEventStatusPending
	require.NoError(t, repo.Update(ctx, event))

	events, err = repo.GetPendingEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 3, events[0].Retries)
	require.NotNil(t, events[0].LastError)
	assert.Equal(t, "broker unavailable", *events[0].LastError)
}

func TestPostgreSQLOutboxEventRepository_Update_MissingRow(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLOutboxEventRepository(db)

	// Updating an absent row affects nothing and reports no error.
	event := pendingEvent(domain.EventTypeSchemaRegistered, `{"schema_id": "s1"}`)
	event.Status = domain.OutboxEventStatusProcessed

	err := repo.Update(context.Background(), event)
	assert.NoError(t, err)
}
