package settings

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses bursts of file events from editors into one reload
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads a YAML settings file into a Manager when it changes on disk
type Watcher struct {
	store    *FileStore
	manager  *Manager
	logger   *zap.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher for store's file
func NewWatcher(store *FileStore, manager *Manager, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		store:    store,
		manager:  manager,
		logger:   logger,
		debounce: DefaultDebounce,
	}
}

// SetDebounce changes the delay between the last event and the reload
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Run watches until ctx is cancelled. The parent directory is watched so
// atomic replaces (rename over the file) are seen.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	target := filepath.Clean(w.store.Path())
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch settings directory: %w", err)
	}
	w.logger.Info("watching settings file", zap.String("path", target))

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			w.logger.Debug("settings file changed", zap.String("operation", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload(ctx)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("file watcher error", zap.Error(err))

		case <-ctx.Done():
			w.logger.Info("stopping settings watcher")
			return nil
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	s, err := w.store.Load(ctx)
	if err != nil {
		w.logger.Warn("failed to reload settings file", zap.Error(err))
		return
	}
	if err := w.manager.Apply(s); err != nil {
		w.logger.Error("invalid settings after reload", zap.Error(err))
		return
	}
	w.logger.Info("settings reloaded from file")
}
