package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// Storage is a durable key/value area holding string entries.
// Implementations must be safe for concurrent use.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// DirStorage stores each key as a file within a directory.
type DirStorage struct {
	baseDir string
}

// NewDirStorage creates a directory backed storage.
// If baseDir is empty, uses ~/.mihotel/session/
func NewDirStorage(baseDir string) (*DirStorage, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".mihotel", "session")
	}

	// Create directory with 0700 permissions
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	log.Debug().Str("baseDir", baseDir).Msg("session storage initialized")

	return &DirStorage{baseDir: baseDir}, nil
}

// Dir returns the directory holding the session entries.
func (d *DirStorage) Dir() string {
	return d.baseDir
}

// Get reads the entry for key. Unreadable entries are reported as absent.
func (d *DirStorage) Get(key string) (string, bool) {
	data, err := os.ReadFile(d.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("key", key).Msg("failed to read session entry")
		}
		return "", false
	}
	return string(data), true
}

// Set writes the entry for key atomically.
func (d *DirStorage) Set(key, value string) error {
	path := d.path(key)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, []byte(value), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}

	return nil
}

// Delete removes the entry for key. Missing entries are not an error.
func (d *DirStorage) Delete(key string) error {
	if err := os.Remove(d.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (d *DirStorage) path(key string) string {
	return filepath.Join(d.baseDir, key)
}

// MemoryStorage keeps entries in memory. Data is lost on exit.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.entries[key]
	return v, ok
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = value
	return nil
}

func (m *MemoryStorage) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}
