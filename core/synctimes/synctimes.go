package synctimes

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Store records the last successful sync time per target label in a single
// JSON file, replaced atomically on every update.
type Store struct {
	path string
}

// New creates a store backed by the given file path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads all recorded sync times. A missing file yields an empty record.
func (s *Store) Load() (map[string]time.Time, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]time.Time{}, nil
		}
		return nil, fmt.Errorf("failed to read sync times: %w", err)
	}

	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("corrupt sync times file: %w", err)
	}

	times := make(map[string]time.Time, len(raw))
	for label, value := range raw {
		t, err := time.Parse(time.RFC3339, value)
		if err != nil {
			return nil, fmt.Errorf("corrupt sync time for %s: %w", label, err)
		}
		times[label] = t
	}
	return times, nil
}

// Last returns the recorded sync time for a label, if any.
func (s *Store) Last(label string) (time.Time, bool, error) {
	times, err := s.Load()
	if err != nil {
		return time.Time{}, false, err
	}
	t, ok := times[label]
	return t, ok, nil
}

// Record stores the completion time for a label, keeping all other entries.
func (s *Store) Record(label string, at time.Time) error {
	times, err := s.Load()
	if err != nil {
		return err
	}
	times[label] = at

	raw := make(map[string]string, len(times))
	for l, t := range times {
		raw[l] = t.Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode sync times: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create state dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write sync times: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace sync times: %w", err)
	}
	return nil
}
