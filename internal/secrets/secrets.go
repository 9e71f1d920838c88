// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of
// plain-text files, with environment variables as a fallback. Each file in
// the directory represents one secret: the filename is the key name and the
// file contents (trimmed) are the value.
//
// Supported key files: ncbi-api-key, entrez-email, gemini-api-key,
// openai-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory or missing files are not errors; Load
// returns an empty map. Unreadable files produce a warning on stderr but
// do not abort.
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

// Lookup returns the secret with the given name, falling back to the
// environment variable spelled in upper snake case (e.g. "gemini-api-key"
// falls back to GEMINI_API_KEY). Returns "" when neither is set.
func Lookup(secrets map[string]string, name string) string {
	if v, ok := secrets[name]; ok {
		return v
	}
	return os.Getenv(EnvName(name))
}

// EnvName converts a secret file name to its environment variable form.
func EnvName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// Require is like Lookup but returns an error naming the missing key, so
// startup can abort when a credential the command needs is absent.
func Require(secrets map[string]string, name string) (string, error) {
	if v := Lookup(secrets, name); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("required key %s not found: create .secrets/%s or set %s",
		name, name, EnvName(name))
}
