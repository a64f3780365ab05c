// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  map[string]string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "lens-api-token", "  tok_abc123  \n")
				writeFile(t, dir, "other-key", "other-value\n")
				return dir
			},
			want: map[string]string{
				"lens-api-token": "tok_abc123",
				"other-key":      "other-value",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "lens-api-token", "valid-token")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"lens-api-token": "valid-token",
			},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden", "secret")
				writeFile(t, dir, "lens-api-token", "tok_visible")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"lens-api-token": "tok_visible",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAPIToken(t *testing.T) {
	t.Run("environment variable wins", func(t *testing.T) {
		t.Setenv(TokenEnvVar, "tok_from_env")
		got := APIToken(map[string]string{"lens-api-token": "tok_from_file"})
		assert.Equal(t, "tok_from_env", got)
	})

	t.Run("falls back to key file", func(t *testing.T) {
		t.Setenv(TokenEnvVar, "")
		got := APIToken(map[string]string{"lens-api-token": "tok_from_file"})
		assert.Equal(t, "tok_from_file", got)
	})

	t.Run("whitespace-only environment value ignored", func(t *testing.T) {
		t.Setenv(TokenEnvVar, "   ")
		got := APIToken(map[string]string{"lens-api-token": "tok_from_file"})
		assert.Equal(t, "tok_from_file", got)
	})

	t.Run("empty when nothing set", func(t *testing.T) {
		t.Setenv(TokenEnvVar, "")
		assert.Equal(t, "", APIToken(nil))
	})
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}
