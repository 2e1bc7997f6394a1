package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultManifestDebounce is how long the watcher waits for writes to settle.
const DefaultManifestDebounce = 200 * time.Millisecond

// ManifestWatcher re-applies an alias manifest whenever its file changes.
type ManifestWatcher struct {
	fsWatcher *fsnotify.Watcher
	path      string
	target    Aliaser
	debounce  time.Duration
	logger    *zap.Logger
}

// NewManifestWatcher watches the directory holding path. A nil logger
// discards; debounce <= 0 uses DefaultManifestDebounce.
func NewManifestWatcher(path string, target Aliaser, debounce time.Duration, logger *zap.Logger) (*ManifestWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	// Editors often replace the file, so watch the directory.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching directory %s: %w", filepath.Dir(path), err)
	}
	if debounce <= 0 {
		debounce = DefaultManifestDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ManifestWatcher{
		fsWatcher: fsw,
		path:      filepath.Clean(path),
		target:    target,
		debounce:  debounce,
		logger:    logger,
	}, nil
}

// Run applies the manifest after every settled change until ctx is done.
// A manifest that fails to load is logged and the previous aliases stay.
func (w *ManifestWatcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsWatcher.Close() }()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return nil
			}
			if !w.isRelevantEvent(event) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.reload()

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("manifest watcher error", zap.Error(err))

		case <-ctx.Done():
			return nil
		}
	}
}

func (w *ManifestWatcher) reload() {
	m, err := LoadManifest(w.path)
	if err != nil {
		w.logger.Warn("manifest reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	n := m.Apply(w.target)
	w.logger.Info("alias manifest reloaded", zap.String("path", w.path), zap.Int("aliases", n))
}

func (w *ManifestWatcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return filepath.Clean(event.Name) == w.path
}
