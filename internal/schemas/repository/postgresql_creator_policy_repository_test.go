package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemasDomain "github.com/allisson/attestations/internal/schemas/domain"
	"github.com/allisson/attestations/internal/testutil"
)

func TestNewPostgreSQLCreatorPolicyRepository(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewPostgreSQLCreatorPolicyRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &PostgreSQLCreatorPolicyRepository{}, repo)
}

func TestPostgreSQLCreatorPolicyRepository_GetActive_NoPolicy(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCreatorPolicyRepository(db)
	ctx := context.Background()

	_, err := repo.GetActive(ctx)
	assert.ErrorIs(t, err, schemasDomain.ErrCreatorPolicyNotFound)
}

func TestPostgreSQLCreatorPolicyRepository_CreateAndGetActive(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCreatorPolicyRepository(db)
	ctx := context.Background()

	adminID := testutil.CreateTestClient(t, db, "postgres", "policy-admin")
	creatorID := uuid.Must(uuid.NewV7())

	policy := &schemasDomain.CreatorPolicy{
		ID:        uuid.Must(uuid.NewV7()),
		Creators:  []uuid.UUID{creatorID},
		UpdatedBy: adminID,
		CreatedAt: time.Now().UTC(),
	}

	err := repo.Create(ctx, policy)
	require.NoError(t, err)

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)

	assert.Equal(t, policy.ID, active.ID)
	assert.Equal(t, policy.Creators, active.Creators)
	assert.Equal(t, adminID, active.UpdatedBy)
	assert.WithinDuration(t, policy.CreatedAt, active.CreatedAt, time.Second)
}

func TestPostgreSQLCreatorPolicyRepository_NewestVersionIsActive(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCreatorPolicyRepository(db)
	ctx := context.Background()

	adminID := testutil.CreateTestClient(t, db, "postgres", "policy-version-admin")
	oldCreator := uuid.Must(uuid.NewV7())
	newCreator := uuid.Must(uuid.NewV7())

	first := &schemasDomain.CreatorPolicy{
		ID:        uuid.Must(uuid.NewV7()),
		Creators:  []uuid.UUID{oldCreator},
		UpdatedBy: adminID,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, first))

	second := &schemasDomain.CreatorPolicy{
		ID:        uuid.Must(uuid.NewV7()),
		Creators:  []uuid.UUID{newCreator},
		UpdatedBy: adminID,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, second))

	// Replacement is wholesale: only the newest list applies
	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, []uuid.UUID{newCreator}, active.Creators)
	assert.True(t, active.Allows(newCreator))
	assert.False(t, active.Allows(oldCreator))
}

func TestPostgreSQLCreatorPolicyRepository_EmptyCreatorList(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCreatorPolicyRepository(db)
	ctx := context.Background()

	adminID := testutil.CreateTestClient(t, db, "postgres", "policy-empty-admin")

	policy := &schemasDomain.CreatorPolicy{
		ID:        uuid.Must(uuid.NewV7()),
		Creators:  []uuid.UUID{},
		UpdatedBy: adminID,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Create(ctx, policy))

	active, err := repo.GetActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active.Creators)
	assert.True(t, active.Allows(uuid.Must(uuid.NewV7())))
}
