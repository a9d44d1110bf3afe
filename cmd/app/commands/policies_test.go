package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/attestations/internal/auth/domain"
)

func TestResolvePolicies(t *testing.T) {
	t.Run("parses-json-flag", func(t *testing.T) {
		policies, err := resolvePolicies(`[{"path":"*","capabilities":["read","admin"]}]`, IOTuple{})

		require.NoError(t, err)
		require.Len(t, policies, 1)
		require.Equal(t, "*", policies[0].Path)
		require.Equal(t, []authDomain.Capability{"read", "admin"}, policies[0].Capabilities)
	})

	t.Run("prompts-when-flag-is-empty", func(t *testing.T) {
		stdio := IOTuple{
			Reader: bytes.NewBufferString("/api/v1/schemas/*\nread\ny\n*\nadmin\nn\n"),
			Writer: &bytes.Buffer{},
		}

		policies, err := resolvePolicies("", stdio)

		require.NoError(t, err)
		require.Len(t, policies, 2)
		require.Equal(t, "/api/v1/schemas/*", policies[0].Path)
		require.Equal(t, "*", policies[1].Path)
	})

	t.Run("rejects-empty-path", func(t *testing.T) {
		stdio := IOTuple{
			Reader: bytes.NewBufferString("\n"),
			Writer: &bytes.Buffer{},
		}

		_, err := resolvePolicies("", stdio)

		require.Error(t, err)
		require.Contains(t, err.Error(), "path cannot be empty")
	})

	t.Run("rejects-empty-capabilities", func(t *testing.T) {
		stdio := IOTuple{
			Reader: bytes.NewBufferString("*\n\n"),
			Writer: &bytes.Buffer{},
		}

		_, err := resolvePolicies("", stdio)

		require.Error(t, err)
		require.Contains(t, err.Error(), "capabilities cannot be empty")
	})
}

func TestParseCapabilities(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []authDomain.Capability
		wantErr string
	}{
		{name: "single", input: "read", want: []authDomain.Capability{"read"}},
		{name: "multiple-with-spaces", input: "read, write ,revoke", want: []authDomain.Capability{"read", "write", "revoke"}},
		{name: "trailing-comma", input: "admin,", want: []authDomain.Capability{"admin"}},
		{name: "only-commas", input: ",,", wantErr: "at least one capability is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCapabilities(tt.input)

			if tt.wantErr != "" {
				require.Error(t, err)
				require.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
