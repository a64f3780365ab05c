// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets resolves API credentials from the environment and from a
// directory of plain-text key files. Each file in the directory is one
// secret: the filename is the key name and the trimmed contents are the
// value.
//
// Supported key files: lens-api-token.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenEnvVar is the environment variable checked first for the lens.org
// API token.
const TokenEnvVar = "LENS_API_TOKEN"

// tokenFile is the key file consulted when the environment variable is unset.
const tokenFile = "lens-api-token"

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

// APIToken resolves the lens.org API token: the LENS_API_TOKEN environment
// variable wins, then the lens-api-token file from loaded secrets. Returns
// the empty string when neither is set.
func APIToken(loaded map[string]string) string {
	if v := strings.TrimSpace(os.Getenv(TokenEnvVar)); v != "" {
		return v
	}
	return loaded[tokenFile]
}
