// Package watcher re-triggers an action when a model file changes on disk.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ModelWatcher watches a single model file and invokes a callback after
// each change, debounced so that a burst of writes triggers one reload.
// The parent directory is watched rather than the file itself, so editors
// that save via rename-and-replace are still caught.
type ModelWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	onChange func(string)
	debounce time.Duration
	log      *zap.Logger

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
	done   chan struct{}
}

// New creates a watcher for the given model file.
func New(path string, debounce time.Duration, onChange func(string), log *zap.Logger) (*ModelWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(absPath)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(absPath), err)
	}

	if log == nil {
		log = zap.NewNop()
	}
	return &ModelWatcher{
		watcher:  fsw,
		path:     absPath,
		onChange: onChange,
		debounce: debounce,
		log:      log,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching in a background goroutine.
func (w *ModelWatcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.matches(event.Name) {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					w.schedule()
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.log.Warn("watcher error", zap.Error(err))

			case <-w.done:
				return
			}
		}
	}()
}

func (w *ModelWatcher) matches(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == w.path
}

func (w *ModelWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.onChange(w.path)
	})
}

// Close stops the watcher and cancels any pending callback.
func (w *ModelWatcher) Close() error {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}
