// Package mocks provides mock implementations of the attestations use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	attestationsDomain "github.com/allisson/attestations/internal/attestations/domain"
)

// MockAttestationUseCase is a mock implementation of AttestationUseCase for testing.
type MockAttestationUseCase struct {
	mock.Mock
}

// Create mocks the Create method of AttestationUseCase.
func (m *MockAttestationUseCase) Create(
	ctx context.Context,
	createAttestationInput *attestationsDomain.CreateAttestationInput,
	attester uuid.UUID,
) (*attestationsDomain.Attestation, error) {
	args := m.Called(ctx, createAttestationInput, attester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attestationsDomain.Attestation), args.Error(1)
}

// Revoke mocks the Revoke method of AttestationUseCase.
func (m *MockAttestationUseCase) Revoke(ctx context.Context, attestationID uuid.UUID, caller uuid.UUID) error {
	args := m.Called(ctx, attestationID, caller)
	return args.Error(0)
}

// IsValid mocks the IsValid method of AttestationUseCase.
func (m *MockAttestationUseCase) IsValid(ctx context.Context, attestationID uuid.UUID) (bool, error) {
	args := m.Called(ctx, attestationID)
	return args.Bool(0), args.Error(1)
}

// GetDetails mocks the GetDetails method of AttestationUseCase.
func (m *MockAttestationUseCase) GetDetails(
	ctx context.Context,
	attestationID uuid.UUID,
) (*attestationsDomain.Attestation, error) {
	args := m.Called(ctx, attestationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*attestationsDomain.Attestation), args.Error(1)
}

// QueryBySubject mocks the QueryBySubject method of AttestationUseCase.
func (m *MockAttestationUseCase) QueryBySubject(
	ctx context.Context,
	subject string,
	offset, limit int,
) ([]uuid.UUID, error) {
	args := m.Called(ctx, subject, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// QueryBySchema mocks the QueryBySchema method of AttestationUseCase.
func (m *MockAttestationUseCase) QueryBySchema(
	ctx context.Context,
	schemaID uuid.UUID,
	offset, limit int,
) ([]uuid.UUID, error) {
	args := m.Called(ctx, schemaID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}
