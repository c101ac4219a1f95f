// Copyright Align Security Inc., 2026. All rights reserved.

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
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "  sk-ant-abc123  \n")
				writeFile(t, dir, "other-key", "xyz789")
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "sk-ant-abc123",
				"other-key":         "xyz789",
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
				writeFile(t, dir, "anthropic-api-key", "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "anthropic-api-key", "sk-ant-real")
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "sk-ant-real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "ak_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				"anthropic-api-key": "ak_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root: file permissions are not enforced")
	}
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestAnthropicKey(t *testing.T) {
	t.Run("environment wins", func(t *testing.T) {
		t.Setenv(AnthropicKeyEnv, "sk-ant-from-env")
		got := AnthropicKey(map[string]string{AnthropicKeyFile: "sk-ant-from-file"})
		assert.Equal(t, "sk-ant-from-env", got)
	})

	t.Run("falls back to key file", func(t *testing.T) {
		t.Setenv(AnthropicKeyEnv, "")
		got := AnthropicKey(map[string]string{AnthropicKeyFile: "sk-ant-from-file"})
		assert.Equal(t, "sk-ant-from-file", got)
	})

	t.Run("empty when unset", func(t *testing.T) {
		t.Setenv(AnthropicKeyEnv, "   ")
		assert.Empty(t, AnthropicKey(nil))
	})
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("ARXIV_MCP_TEST_VAR=hello\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("ARXIV_MCP_TEST_VAR") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "hello", os.Getenv("ARXIV_MCP_TEST_VAR"))

	// A missing file is not an error.
	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
