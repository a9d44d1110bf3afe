package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCreatorPolicy_Allows(t *testing.T) {
	creator1 := uuid.Must(uuid.NewV7())
	creator2 := uuid.Must(uuid.NewV7())
	outsider := uuid.Must(uuid.NewV7())

	tests := []struct {
		name     string
		policy   *CreatorPolicy
		caller   uuid.UUID
		expected bool
	}{
		{
			name:     "Success_EmptyListAllowsAnyCaller",
			policy:   &CreatorPolicy{Creators: nil},
			caller:   outsider,
			expected: true,
		},
		{
			name:     "Success_EmptyNonNilListAllowsAnyCaller",
			policy:   &CreatorPolicy{Creators: []uuid.UUID{}},
			caller:   outsider,
			expected: true,
		},
		{
			name:     "Success_ListedCreatorIsAllowed",
			policy:   &CreatorPolicy{Creators: []uuid.UUID{creator1, creator2}},
			caller:   creator2,
			expected: true,
		},
		{
			name:     "Failure_UnlistedCallerIsRejected",
			policy:   &CreatorPolicy{Creators: []uuid.UUID{creator1}},
			caller:   outsider,
			expected: false,
		},
		{
			name:     "Failure_NilUUIDIsNotAllowedByNonEmptyList",
			policy:   &CreatorPolicy{Creators: []uuid.UUID{creator1}},
			caller:   uuid.Nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.policy.Allows(tt.caller)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCreatorPolicy_AllowsAfterReplacement(t *testing.T) {
	// Policies are replaced wholesale: a new version carries only its own list.
	oldCreator := uuid.Must(uuid.NewV7())
	newCreator := uuid.Must(uuid.NewV7())

	replaced := &CreatorPolicy{
		ID:        uuid.Must(uuid.NewV7()),
		Creators:  []uuid.UUID{newCreator},
		UpdatedBy: uuid.Must(uuid.NewV7()),
		CreatedAt: time.Now(),
	}

	assert.True(t, replaced.Allows(newCreator))
	assert.False(t, replaced.Allows(oldCreator))
}
