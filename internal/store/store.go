// Package store is a small file-backed key-value store for client state.
//
// Each key is kept in its own JSON file inside the configuration directory.
// Reads are best-effort: a missing or unparsable value is reported as absent.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// UserDataKey holds the session credential.
	UserDataKey = "userData"

	// TasksStateKey holds the task list filter preference.
	TasksStateKey = "tasksState"
)

// ErrNotFound is returned by GetItem when the key has no value.
var ErrNotFound = errors.New("not found")

// Store persists values under string keys.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the directory backing the store.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// GetItem returns the raw value stored under key.
func (s *Store) GetItem(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// SetItem stores value under key with mode 0600.
// The value is written to a temporary file first and renamed into place.
func (s *Store) SetItem(key string, value []byte) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// RemoveItem deletes the value stored under key.
// Removing a missing key is not an error.
func (s *Store) RemoveItem(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// HasItem reports whether a value exists under key.
func (s *Store) HasItem(key string) bool {
	_, err := os.Stat(s.path(key))
	return err == nil
}

// ReadJSON decodes the value under key into v.
// Returns false if the key is missing or the value is not valid JSON.
func (s *Store) ReadJSON(key string, v any) bool {
	data, err := s.GetItem(key)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// WriteJSON encodes v and stores it under key.
func (s *Store) WriteJSON(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.SetItem(key, data)
}
