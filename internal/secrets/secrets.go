// Copyright Align Security Inc., 2026. All rights reserved.

// Package secrets loads API keys from a directory of plain-text files and
// from the environment. Each file in the directory represents one secret:
// the filename is the key name and the file contents (trimmed) are the
// value.
//
// Supported key files: anthropic-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// AnthropicKeyFile is the filename holding the Anthropic API key.
const AnthropicKeyFile = "anthropic-api-key"

// AnthropicKeyEnv is the environment variable holding the Anthropic API
// key. It takes precedence over the key file.
const AnthropicKeyEnv = "ANTHROPIC_API_KEY"

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadEnvFile loads variables from a .env file into the process
// environment. A missing file is not an error. Variables already set in
// the environment are never overwritten.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// AnthropicKey resolves the Anthropic API key: the environment variable
// wins, then the key file in the loaded secrets map. Returns an empty
// string when neither is set.
func AnthropicKey(secrets map[string]string) string {
	if key := strings.TrimSpace(os.Getenv(AnthropicKeyEnv)); key != "" {
		return key
	}
	return secrets[AnthropicKeyFile]
}
