package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/iiroan/startpage/internal/disclosure"
	"github.com/iiroan/startpage/internal/engine"
	"github.com/iiroan/startpage/internal/kv"
	"github.com/iiroan/startpage/internal/prefs"
)

type openedStore struct {
	kv    kv.Store
	prefs *prefs.Store
	path  string
	// watch is non-nil when the backend can report changes from other instances.
	watch <-chan struct{}
}

func (s *openedStore) Close() {
	if c, ok := s.kv.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logger.Warn("could not close store", "error", err)
		}
	}
}

// openStore opens the configured backend. A corrupt store file is moved aside and replaced
// by an empty one. A backend that cannot be opened degrades to an
// in-memory store so the page still works, without persistence. With watch set, a file
// store also reports writes from other instances until ctx is done.
func openStore(ctx context.Context, watch bool) *openedStore {
	backend := cfg.Storage.Backend
	path, err := cfg.StoragePath()
	if err != nil {
		logger.Warn("could not resolve store path", "error", err)
		backend = kv.BackendMemory
	}

	store, err := kv.Open(backend, path)
	if errors.Is(err, kv.ErrCorrupt) {
		aside, moveErr := kv.MoveAside(path)
		if moveErr == nil {
			logger.Warn("store file was corrupt, starting fresh", "path", path, "moved_to", aside)
			store, err = kv.Open(backend, path)
		}
	}
	if err != nil {
		logger.Warn("preferences will not persist", "backend", backend, "path", path, "error", err)
		store = kv.NewMemory()
		backend = kv.BackendMemory
	}

	st := &openedStore{
		kv:    store,
		prefs: prefs.New(store, cfg.PrefsOptions(), logger),
		path:  path,
	}
	logger.Debug("opened preference store", "backend", backend, "path", path)

	if f, ok := store.(*kv.File); ok && watch && cfg.Storage.Watch {
		ch, err := f.Watch(ctx)
		if err != nil {
			logger.Warn("not watching store for changes", "error", err)
		} else {
			st.watch = ch
		}
	}
	return st
}

// newSelector builds an engine selector outside the page, for command line use.
func newSelector(st *openedStore) *engine.Selector {
	return engine.NewSelector(st.prefs, disclosure.NewGroup(), engine.Options{
		Key:     cfg.Search.Key,
		Engines: cfg.Search.Engines,
		Policy:  cfg.NavPolicy(),
		Logger:  logger,
	})
}
