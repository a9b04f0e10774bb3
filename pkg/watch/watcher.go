// Package watch re-runs analysis when a log file changes.
package watch

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	fserrors "github.com/flowscope/flowscope/pkg/errors"
)

// Watcher monitors a log file and triggers re-analysis on modification.
// Rapid write bursts are debounced so a half-written file is not analyzed
// once per flush.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer

	// OnChange is invoked after the debounce window with the changed path.
	OnChange func(path string) error

	// OnError receives watch or callback errors.
	OnError func(path string, err error)
}

// New creates a watcher with a 500ms debounce.
func New() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fserrors.Wrap(err, fserrors.CodeFilePermission, "failed to create watcher")
	}
	return &Watcher{
		watcher:  fsWatcher,
		debounce: 500 * time.Millisecond,
		pending:  make(map[string]*time.Timer),
	}, nil
}

// Watch registers a file for monitoring.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fserrors.Wrap(err, fserrors.CodeFileNotFound, "failed to resolve path")
	}
	// Watch the directory: editors and atomic writers replace the file,
	// which drops a watch registered on the file itself.
	if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
		return fserrors.Wrap(err, fserrors.CodeFilePermission, "failed to watch directory")
	}
	return nil
}

// Run processes events until ctx is canceled.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.schedule(event.Name)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.OnError != nil {
				w.OnError("", err)
			}
		}
	}
}

// schedule arms (or re-arms) the debounce timer for a path.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		if w.OnChange == nil {
			return
		}
		if err := w.OnChange(path); err != nil && w.OnError != nil {
			w.OnError(path, err)
		}
	})
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, timer := range w.pending {
		timer.Stop()
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
