// Package mocks provides mock implementations of database interfaces for testing.
package mocks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock implementation of database.TxManager. Unless an
// error is configured for WithTx, the callback is executed inline without a
// real transaction so use case logic can be exercised directly.
type MockTxManager struct {
	mock.Mock
}

// NewMockTxManager creates a MockTxManager that runs WithTx callbacks inline.
func NewMockTxManager(t *testing.T) *MockTxManager {
	t.Helper()

	m := &MockTxManager{}
	m.On("WithTx", mock.Anything, mock.Anything).Maybe().Return(nil)
	return m
}

// WithTx records the call and executes fn unless an error was configured.
func (m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
