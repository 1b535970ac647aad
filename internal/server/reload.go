package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kroneus/kroneus-site/internal/scenario"
)

const debounceDelay = 500 * time.Millisecond

// Reloader watches the catalog file and reloads the store after writes.
// A failed reload keeps the previous catalog.
type Reloader struct {
	watcher  *fsnotify.Watcher
	store    *scenario.Store
	logger   *zap.Logger
	onReload func(err error)

	mu       sync.Mutex
	debounce *time.Timer
}

// NewReloader creates a watcher on store's file. onReload, if set, is called after every attempt.
func NewReloader(store *scenario.Store, logger *zap.Logger, onReload func(err error)) (*Reloader, error) {
	if store.Path() == "" {
		return nil, fmt.Errorf("catalog store has no file to watch")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(store.Path()); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", store.Path(), err)
	}

	return &Reloader{
		watcher:  watcher,
		store:    store,
		logger:   logger,
		onReload: onReload,
	}, nil
}

// Run handles file events until ctx is cancelled.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			r.mu.Lock()
			if r.debounce != nil {
				r.debounce.Stop()
			}
			r.mu.Unlock()
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				r.schedule()
			}
			// Editors that save by rename drop the watch; re-add it.
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				if err := r.watcher.Add(r.store.Path()); err == nil {
					r.schedule()
				}
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("file watcher error", zap.Error(err))
		}
	}
}

func (r *Reloader) schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.debounce != nil {
		r.debounce.Stop()
	}
	r.debounce = time.AfterFunc(debounceDelay, r.reload)
}

func (r *Reloader) reload() {
	err := r.store.Reload()
	if err != nil {
		r.logger.Error("catalog hot-reload failed, keeping previous catalog",
			zap.String("path", r.store.Path()), zap.Error(err))
	} else {
		r.logger.Info("catalog reloaded",
			zap.String("path", r.store.Path()), zap.Int("scenarios", r.store.Catalog().Len()))
	}
	if r.onReload != nil {
		r.onReload(err)
	}
}
