package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	databaseMocks "github.com/allisson/attestations/internal/database/mocks"
	apperrors "github.com/allisson/attestations/internal/errors"
	outboxDomain "github.com/allisson/attestations/internal/outbox/domain"
	schemasDomain "github.com/allisson/attestations/internal/schemas/domain"
)

// mockSchemaRepository is a mock implementation of SchemaRepository for testing.
type mockSchemaRepository struct {
	mock.Mock
}

func (m *mockSchemaRepository) Create(ctx context.Context, schema *schemasDomain.Schema) error {
	args := m.Called(ctx, schema)
	return args.Error(0)
}

func (m *mockSchemaRepository) Get(ctx context.Context, schemaID uuid.UUID) (*schemasDomain.Schema, error) {
	args := m.Called(ctx, schemaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schemasDomain.Schema), args.Error(1)
}

func (m *mockSchemaRepository) List(ctx context.Context, offset, limit int) ([]*schemasDomain.Schema, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schemasDomain.Schema), args.Error(1)
}

// mockCreatorPolicyRepository is a mock implementation of CreatorPolicyRepository for testing.
type mockCreatorPolicyRepository struct {
	mock.Mock
}

func (m *mockCreatorPolicyRepository) Create(ctx context.Context, policy *schemasDomain.CreatorPolicy) error {
	args := m.Called(ctx, policy)
	return args.Error(0)
}

func (m *mockCreatorPolicyRepository) GetActive(ctx context.Context) (*schemasDomain.CreatorPolicy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schemasDomain.CreatorPolicy), args.Error(1)
}

// mockOutboxEventRepository is a mock implementation of OutboxEventRepository for testing.
type mockOutboxEventRepository struct {
	mock.Mock
}

func (m *mockOutboxEventRepository) Create(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockOutboxEventRepository) GetPendingEvents(
	ctx context.Context,
	limit int,
) ([]*outboxDomain.OutboxEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outboxDomain.OutboxEvent), args.Error(1)
}

func (m *mockOutboxEventRepository) Update(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func TestSchemaUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_NoStoredPolicyAllowsAnyCaller", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		caller := uuid.Must(uuid.NewV7())
		attester := uuid.Must(uuid.NewV7())
		input := &schemasDomain.RegisterSchemaInput{
			Name:                "KYC",
			Description:         "know your customer verification",
			Revocable:           true,
			AuthorizedAttesters: []uuid.UUID{attester},
		}

		// Setup expectations
		mockPolicyRepo.On("GetActive", ctx).
			Return(nil, schemasDomain.ErrCreatorPolicyNotFound).
			Once()

		mockSchemaRepo.On("Create", ctx, mock.MatchedBy(func(schema *schemasDomain.Schema) bool {
			return schema.ID != uuid.Nil &&
				schema.Name == "KYC" &&
				schema.Description == input.Description &&
				schema.Creator == caller &&
				schema.Revocable &&
				len(schema.AuthorizedAttesters) == 1 &&
				schema.AuthorizedAttesters[0] == attester
		})).
			Return(nil).
			Once()

		mockOutboxRepo.On("Create", ctx, mock.MatchedBy(func(event *outboxDomain.OutboxEvent) bool {
			if event.EventType != outboxDomain.EventTypeSchemaRegistered {
				return false
			}
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(event.Payload), &payload); err != nil {
				return false
			}
			return payload["name"] == "KYC" && payload["creator"] == caller.String()
		})).
			Return(nil).
			Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		schema, err := uc.Register(ctx, input, caller)

		// Assert
		assert.NoError(t, err)
		require.NotNil(t, schema)
		assert.Equal(t, caller, schema.Creator)
		assert.False(t, schema.CreatedAt.IsZero())
		mockSchemaRepo.AssertExpectations(t)
		mockPolicyRepo.AssertExpectations(t)
		mockOutboxRepo.AssertExpectations(t)
	})

	t.Run("Success_CallerListedInPolicy", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		caller := uuid.Must(uuid.NewV7())
		policy := &schemasDomain.CreatorPolicy{
			ID:       uuid.Must(uuid.NewV7()),
			Creators: []uuid.UUID{caller},
		}
		input := &schemasDomain.RegisterSchemaInput{Name: "residency", Revocable: false}

		// Setup expectations
		mockPolicyRepo.On("GetActive", ctx).Return(policy, nil).Once()
		mockSchemaRepo.On("Create", ctx, mock.AnythingOfType("*domain.Schema")).Return(nil).Once()
		mockOutboxRepo.On("Create", ctx, mock.AnythingOfType("*domain.OutboxEvent")).Return(nil).Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		schema, err := uc.Register(ctx, input, caller)

		// Assert
		assert.NoError(t, err)
		require.NotNil(t, schema)
		assert.False(t, schema.Revocable)
		mockPolicyRepo.AssertExpectations(t)
		mockSchemaRepo.AssertExpectations(t)
		mockOutboxRepo.AssertExpectations(t)
	})

	t.Run("Success_NameIsTrimmed", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		caller := uuid.Must(uuid.NewV7())
		input := &schemasDomain.RegisterSchemaInput{Name: "  padded-name  "}

		// Setup expectations
		mockPolicyRepo.On("GetActive", ctx).
			Return(&schemasDomain.CreatorPolicy{}, nil).
			Once()
		mockSchemaRepo.On("Create", ctx, mock.MatchedBy(func(schema *schemasDomain.Schema) bool {
			return schema.Name == "padded-name"
		})).
			Return(nil).
			Once()
		mockOutboxRepo.On("Create", ctx, mock.AnythingOfType("*domain.OutboxEvent")).Return(nil).Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		schema, err := uc.Register(ctx, input, caller)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, "padded-name", schema.Name)
		mockSchemaRepo.AssertExpectations(t)
	})

	t.Run("Error_CallerNotInPolicy", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		caller := uuid.Must(uuid.NewV7())
		policy := &schemasDomain.CreatorPolicy{
			ID:       uuid.Must(uuid.NewV7()),
			Creators: []uuid.UUID{uuid.Must(uuid.NewV7())},
		}
		input := &schemasDomain.RegisterSchemaInput{Name: "KYC"}

		// Setup expectations
		mockPolicyRepo.On("GetActive", ctx).Return(policy, nil).Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		schema, err := uc.Register(ctx, input, caller)

		// Assert
		assert.ErrorIs(t, err, schemasDomain.ErrUnauthorizedSchemaCreator)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		assert.Nil(t, schema)
		mockSchemaRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		mockOutboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_PolicyLookupFailure", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		caller := uuid.Must(uuid.NewV7())
		input := &schemasDomain.RegisterSchemaInput{Name: "KYC"}
		dbErr := errors.New("connection lost")

		// Setup expectations
		mockPolicyRepo.On("GetActive", ctx).Return(nil, dbErr).Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		schema, err := uc.Register(ctx, input, caller)

		// Assert
		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, schema)
		mockSchemaRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_SchemaCreateFailure", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		caller := uuid.Must(uuid.NewV7())
		input := &schemasDomain.RegisterSchemaInput{Name: "KYC"}
		createErr := errors.New("insert failed")

		// Setup expectations
		mockPolicyRepo.On("GetActive", ctx).
			Return(nil, schemasDomain.ErrCreatorPolicyNotFound).
			Once()
		mockSchemaRepo.On("Create", ctx, mock.AnythingOfType("*domain.Schema")).
			Return(createErr).
			Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		schema, err := uc.Register(ctx, input, caller)

		// Assert
		assert.ErrorIs(t, err, createErr)
		assert.Nil(t, schema)
		mockOutboxRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Error_OutboxCreateFailure", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		caller := uuid.Must(uuid.NewV7())
		input := &schemasDomain.RegisterSchemaInput{Name: "KYC"}
		outboxErr := errors.New("outbox insert failed")

		// Setup expectations
		mockPolicyRepo.On("GetActive", ctx).
			Return(nil, schemasDomain.ErrCreatorPolicyNotFound).
			Once()
		mockSchemaRepo.On("Create", ctx, mock.AnythingOfType("*domain.Schema")).Return(nil).Once()
		mockOutboxRepo.On("Create", ctx, mock.AnythingOfType("*domain.OutboxEvent")).
			Return(outboxErr).
			Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		schema, err := uc.Register(ctx, input, caller)

		// Assert
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create outbox event")
		assert.Nil(t, schema)
	})
}

func TestSchemaUseCase_Lookup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_LookupExistingSchema", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		schemaID := uuid.Must(uuid.NewV7())
		expected := &schemasDomain.Schema{
			ID:        schemaID,
			Name:      "KYC",
			Creator:   uuid.Must(uuid.NewV7()),
			Revocable: true,
			CreatedAt: time.Now().UTC(),
		}

		// Setup expectations
		mockSchemaRepo.On("Get", ctx, schemaID).Return(expected, nil).Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		schema, err := uc.Lookup(ctx, schemaID)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, expected, schema)
		mockSchemaRepo.AssertExpectations(t)
	})

	t.Run("Error_SchemaNotFound", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		schemaID := uuid.Must(uuid.NewV7())

		// Setup expectations
		mockSchemaRepo.On("Get", ctx, schemaID).
			Return(nil, schemasDomain.ErrSchemaNotFound).
			Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		schema, err := uc.Lookup(ctx, schemaID)

		// Assert
		assert.ErrorIs(t, err, schemasDomain.ErrSchemaNotFound)
		assert.Nil(t, schema)
	})
}

func TestSchemaUseCase_List(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ListSchemas", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		expected := []*schemasDomain.Schema{
			{ID: uuid.Must(uuid.NewV7()), Name: "schema-b"},
			{ID: uuid.Must(uuid.NewV7()), Name: "schema-a"},
		}

		// Setup expectations
		mockSchemaRepo.On("List", ctx, 0, 50).Return(expected, nil).Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		schemas, err := uc.List(ctx, 0, 50)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, expected, schemas)
		mockSchemaRepo.AssertExpectations(t)
	})
}

func TestSchemaUseCase_GetCreators(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ReturnsActivePolicy", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		expected := &schemasDomain.CreatorPolicy{
			ID:       uuid.Must(uuid.NewV7()),
			Creators: []uuid.UUID{uuid.Must(uuid.NewV7())},
		}

		// Setup expectations
		mockPolicyRepo.On("GetActive", ctx).Return(expected, nil).Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		policy, err := uc.GetCreators(ctx)

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, expected, policy)
	})

	t.Run("Success_NoStoredPolicyReturnsEmpty", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		// Setup expectations
		mockPolicyRepo.On("GetActive", ctx).
			Return(nil, schemasDomain.ErrCreatorPolicyNotFound).
			Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		policy, err := uc.GetCreators(ctx)

		// Assert
		assert.NoError(t, err)
		require.NotNil(t, policy)
		assert.Empty(t, policy.Creators)
		assert.True(t, policy.Allows(uuid.Must(uuid.NewV7())))
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		dbErr := errors.New("connection lost")

		// Setup expectations
		mockPolicyRepo.On("GetActive", ctx).Return(nil, dbErr).Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		policy, err := uc.GetCreators(ctx)

		// Assert
		assert.ErrorIs(t, err, dbErr)
		assert.Nil(t, policy)
	})
}

func TestSchemaUseCase_UpdateCreators(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_ReplacesPolicyWholesale", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		updatedBy := uuid.Must(uuid.NewV7())
		creators := []uuid.UUID{uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7())}

		// Setup expectations
		mockPolicyRepo.On("Create", ctx, mock.MatchedBy(func(policy *schemasDomain.CreatorPolicy) bool {
			return policy.ID != uuid.Nil &&
				len(policy.Creators) == 2 &&
				policy.Creators[0] == creators[0] &&
				policy.Creators[1] == creators[1] &&
				policy.UpdatedBy == updatedBy
		})).
			Return(nil).
			Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		err := uc.UpdateCreators(ctx, creators, updatedBy)

		// Assert
		assert.NoError(t, err)
		mockPolicyRepo.AssertExpectations(t)
	})

	t.Run("Success_NilCreatorsStoredAsEmptyList", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		updatedBy := uuid.Must(uuid.NewV7())

		// Setup expectations
		mockPolicyRepo.On("Create", ctx, mock.MatchedBy(func(policy *schemasDomain.CreatorPolicy) bool {
			return policy.Creators != nil && len(policy.Creators) == 0
		})).
			Return(nil).
			Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		err := uc.UpdateCreators(ctx, nil, updatedBy)

		// Assert
		assert.NoError(t, err)
		mockPolicyRepo.AssertExpectations(t)
	})

	t.Run("Error_RepositoryFailure", func(t *testing.T) {
		// Setup mocks
		mockTxManager := databaseMocks.NewMockTxManager(t)
		mockSchemaRepo := &mockSchemaRepository{}
		mockPolicyRepo := &mockCreatorPolicyRepository{}
		mockOutboxRepo := &mockOutboxEventRepository{}

		dbErr := errors.New("insert failed")

		// Setup expectations
		mockPolicyRepo.On("Create", ctx, mock.AnythingOfType("*domain.CreatorPolicy")).
			Return(dbErr).
			Once()

		// Execute
		uc := NewSchemaUseCase(mockTxManager, mockSchemaRepo, mockPolicyRepo, mockOutboxRepo)
		err := uc.UpdateCreators(ctx, []uuid.UUID{uuid.Must(uuid.NewV7())}, uuid.Must(uuid.NewV7()))

		// Assert
		assert.ErrorIs(t, err, dbErr)
	})
}
