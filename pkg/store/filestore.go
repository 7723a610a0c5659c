package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

const fileLogPrefix = "store:file"

// FileStore reads a JSON object of key-value pairs from disk on every
// Load, so edits to the data file are visible without a restart.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore backed by the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads and parses the data file. A missing file, an unreadable
// file, or a parse failure yields an empty map.
func (s *FileStore) Load(_ context.Context) map[string]interface{} {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn(fmt.Sprintf("%s - failed to read %s: %v", fileLogPrefix, s.path, err))
		}
		return map[string]interface{}{}
	}

	var table map[string]interface{}
	if err := json.Unmarshal(data, &table); err != nil {
		slog.Warn(fmt.Sprintf("%s - failed to parse %s: %v", fileLogPrefix, s.path, err))
		return map[string]interface{}{}
	}
	if table == nil {
		// File held the JSON literal null.
		return map[string]interface{}{}
	}
	return table
}
