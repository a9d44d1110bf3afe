// Package mocks provides a testify mock of the schema use case for handler tests.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	schemasDomain "github.com/allisson/attestations/internal/schemas/domain"
)

// MockSchemaUseCase is a mock implementation of SchemaUseCase for testing.
type MockSchemaUseCase struct {
	mock.Mock
}

// Register mocks the Register method of SchemaUseCase.
func (m *MockSchemaUseCase) Register(
	ctx context.Context,
	registerSchemaInput *schemasDomain.RegisterSchemaInput,
	caller uuid.UUID,
) (*schemasDomain.Schema, error) {
	args := m.Called(ctx, registerSchemaInput, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schemasDomain.Schema), args.Error(1)
}

// Lookup mocks the Lookup method of SchemaUseCase.
func (m *MockSchemaUseCase) Lookup(ctx context.Context, schemaID uuid.UUID) (*schemasDomain.Schema, error) {
	args := m.Called(ctx, schemaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schemasDomain.Schema), args.Error(1)
}

// List mocks the List method of SchemaUseCase.
func (m *MockSchemaUseCase) List(ctx context.Context, offset, limit int) ([]*schemasDomain.Schema, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*schemasDomain.Schema), args.Error(1)
}

// GetCreators mocks the GetCreators method of SchemaUseCase.
func (m *MockSchemaUseCase) GetCreators(ctx context.Context) (*schemasDomain.CreatorPolicy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schemasDomain.CreatorPolicy), args.Error(1)
}

// UpdateCreators mocks the UpdateCreators method of SchemaUseCase.
func (m *MockSchemaUseCase) UpdateCreators(ctx context.Context, creators []uuid.UUID, updatedBy uuid.UUID) error {
	args := m.Called(ctx, creators, updatedBy)
	return args.Error(0)
}
