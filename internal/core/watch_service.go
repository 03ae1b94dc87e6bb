package core

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/EmundoT/git-assess/internal/logging"
)

// DefaultWatchDebounce collapses bursts of editor writes into one run.
const DefaultWatchDebounce = 1 * time.Second

// ConfigWatcher re-runs a callback whenever a configuration file changes.
type ConfigWatcher struct {
	path     string
	ui       UICallback
	Debounce time.Duration
	logger   *slog.Logger
}

// NewConfigWatcher creates a watcher for the file at path.
func NewConfigWatcher(path string, ui UICallback) *ConfigWatcher {
	if ui == nil {
		ui = &SilentUICallback{}
	}
	return &ConfigWatcher{
		path:     filepath.Clean(path),
		ui:       ui,
		Debounce: DefaultWatchDebounce,
		logger:   logging.New("watch"),
	}
}

// Path returns the watched file.
func (w *ConfigWatcher) Path() string {
	return w.path
}

// Watch blocks until ctx is done, calling callback after each debounced
// write or create of the watched file. Callback runs are never concurrent.
func (w *ConfigWatcher) Watch(ctx context.Context, callback func(ctx context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.path); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.path, err)
	}
	// The directory catches editors that replace the file instead of writing it.
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	w.logger.Info("watching configuration", "path", w.path)

	var (
		mu            sync.Mutex
		debounceTimer *time.Timer
	)
	run := func() {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		if _, err := os.Stat(w.path); err != nil {
			w.ui.ShowWarning("File Not Found", "Config file was deleted or is inaccessible")
			return
		}
		w.logger.Info("configuration changed", "path", w.path)
		if err := callback(ctx); err != nil {
			w.ui.ShowError("Assessment Failed", err.Error())
			return
		}
		w.ui.ShowSuccess("Assessment completed")
	}
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.Debounce, run)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}
