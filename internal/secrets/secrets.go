// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API credentials from a directory of plain-text
// files. Each file is one secret: the filename is the key and the trimmed
// contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Key names understood by bookshelf.
const (
	// RakutenApplicationID is the catalog API application ID.
	RakutenApplicationID = "rakuten-application-id"
)

// Load reads all files in dir and returns a map of filename to trimmed
// contents. A missing directory is not an error and yields an empty map.
// Hidden files and empty files are skipped; unreadable files are logged
// and skipped. A nil logger is allowed.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("key", name), zap.Error(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[name] = value
		}
	}
	return secrets, nil
}

// Lookup returns override when it is non-empty, otherwise secrets[key].
// Explicit configuration wins over the secrets directory.
func Lookup(secrets map[string]string, key, override string) string {
	if override != "" {
		return override
	}
	return secrets[key]
}
