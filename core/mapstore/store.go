package mapstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Entry links one event key to the event-store object it produced. The JSON
// field names are part of the persisted format and must stay stable.
type Entry struct {
	// UID is the identifier assigned by the event store.
	UID string `json:"uid"`
	// OriginalStart is the start instant as parsed from the row, ISO-8601.
	OriginalStart string `json:"original_start"`
	// OriginalEnd is the end instant as parsed from the row, ISO-8601.
	OriginalEnd string `json:"original_end"`
}

// Mapping is the identity mapping for one sync target: event key -> Entry.
type Mapping map[string]Entry

// FileStore persists one mapping file per sync target in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load reads the mapping for a target. A missing file means no prior state
// and yields an empty mapping; a corrupt file is an error, so history is
// never silently discarded.
func (s *FileStore) Load(label string) (Mapping, error) {
	data, err := os.ReadFile(s.path(label))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Mapping{}, nil
		}
		return nil, fmt.Errorf("failed to read mapping for %s: %w", label, err)
	}

	var mapping Mapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("corrupt mapping for %s: %w", label, err)
	}
	if mapping == nil {
		mapping = Mapping{}
	}
	return mapping, nil
}

// Save atomically replaces the persisted mapping for a target. A crash
// mid-save leaves the previous snapshot intact.
func (s *FileStore) Save(label string, mapping Mapping) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}

	data, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode mapping for %s: %w", label, err)
	}

	path := s.path(label)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mapping for %s: %w", label, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace mapping for %s: %w", label, err)
	}
	return nil
}

func (s *FileStore) path(label string) string {
	return filepath.Join(s.dir, "uid_mapping_"+sanitizeLabel(label)+".json")
}

// sanitizeLabel makes a target label safe to use as a file name component.
func sanitizeLabel(label string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, label)
}
