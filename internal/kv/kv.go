// Package kv provides the persistent string key-value store behind startpage preferences
package kv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	// ErrUnavailable is returned when a backend cannot be reached at all.
	ErrUnavailable = errors.New("kv: storage unavailable")
	// ErrCorrupt is returned when a file store exists but does not hold a JSON object.
	ErrCorrupt = errors.New("kv: store file is corrupt")
)

// Store is a flat string key-value store
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(key string) (string, bool, error)
	// Set stores value under key, replacing any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// Backend names accepted by Open
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open returns the store for backend rooted at path
func Open(backend string, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return OpenFile(path)
	case BackendSQLite:
		return OpenSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// DefaultPath returns the default location for a backend's data file
func DefaultPath(backend string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	name := "storage.json"
	if strings.EqualFold(strings.TrimSpace(backend), BackendSQLite) {
		name = "storage.db"
	}
	return filepath.Join(dir, "startpage", name), nil
}

// Memory is an in-process store. It is also the fallback when no persistent backend opens.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory returns an empty memory store
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
