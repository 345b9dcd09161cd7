package kv

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// File keeps every key in one JSON object on disk, the terminal analogue of browser localStorage
type File struct {
	path string

	mu          sync.Mutex
	values      map[string]string
	lastWritten []byte
}

// OpenFile opens (or lazily creates) the JSON store at path.
// A missing file is an empty store; an unreadable one is an error and a corrupt one wraps ErrCorrupt.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty store path", ErrUnavailable)
	}
	f := &File{path: path, values: make(map[string]string)}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// MoveAside renames a corrupt store file next to itself and returns the new name
func MoveAside(path string) (string, error) {
	aside := fmt.Sprintf("%s.corrupt-%s", path, time.Now().Format("20060102-150405"))
	if err := os.Rename(path, aside); err != nil {
		return "", fmt.Errorf("moving corrupt store aside: %w", err)
	}
	return aside, nil
}

// Path returns the backing file path
func (f *File) Path() string { return f.path }

// Reload replaces the cached values with the file contents
func (f *File) Reload() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			f.mu.Lock()
			f.values = make(map[string]string)
			f.mu.Unlock()
			return nil
		}
		return fmt.Errorf("reading store: %w", err)
	}

	values := make(map[string]string)
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrCorrupt, f.path, err)
		}
	}

	f.mu.Lock()
	f.values = values
	f.mu.Unlock()
	return nil
}

func (f *File) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	return value, ok, nil
}

func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	next := make(map[string]string, len(f.values)+1)
	for k, v := range f.values {
		next[k] = v
	}
	next[key] = value
	if err := f.writeLocked(next); err != nil {
		return err
	}
	f.values = next
	return nil
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.values[key]; !ok {
		return nil
	}
	next := make(map[string]string, len(f.values))
	for k, v := range f.values {
		if k != key {
			next[k] = v
		}
	}
	if err := f.writeLocked(next); err != nil {
		return err
	}
	f.values = next
	return nil
}

// writeLocked replaces the file atomically. Caller holds f.mu.
func (f *File) writeLocked(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".storage-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing store: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing store: %w", err)
	}

	f.lastWritten = data
	return nil
}

// Watch reports changes made to the store file by other processes.
// Writes made through this File are filtered out. The channel closes when ctx is done.
func (f *File) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating store watcher: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching store directory: %w", err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer watcher.Close()
		defer close(changes)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(f.path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				if !f.externalChange() {
					continue
				}
				select {
				case changes <- struct{}{}:
				default:
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return changes, nil
}

// externalChange reloads the file when its contents differ from our last write.
func (f *File) externalChange() bool {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return false
	}

	f.mu.Lock()
	own := bytes.Equal(data, f.lastWritten)
	f.mu.Unlock()
	if own {
		return false
	}
	return f.Reload() == nil
}
