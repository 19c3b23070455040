package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cheerioskun/explainer/internal/models"
	"github.com/fsnotify/fsnotify"
)

// ChangeEvent represents a filesystem change under the watched root.
type ChangeEvent struct {
	Path          string
	ChangeType    string // "create", "write", "remove", "rename"
	IsPatternFile bool
}

// FSWatcher watches a directory tree for filesystem changes using fsnotify.
type FSWatcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	onChange func(ChangeEvent)
}

// NewFSWatcher creates a new filesystem watcher.
func NewFSWatcher(debounce time.Duration, onChange func(ChangeEvent)) (*FSWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if debounce == 0 {
		debounce = 300 * time.Millisecond
	}
	return &FSWatcher{
		watcher:  w,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// WatchRecursive adds a directory and all its subdirectories to the watcher.
func (w *FSWatcher) WatchRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}

// Run starts the event loop. It blocks until the context is cancelled.
func (w *FSWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	debouncer := NewDebouncer(w.debounce, w.onChange)
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			changeType := opToChangeType(event.Op)
			if changeType == "" {
				continue
			}

			// If a new directory was created, watch it recursively
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.WatchRecursive(event.Name)
				}
			}

			debouncer.Add(ChangeEvent{
				Path:          event.Name,
				ChangeType:    changeType,
				IsPatternFile: filepath.Base(event.Name) == models.PatternFileName,
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func opToChangeType(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Write):
		return "write"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	default:
		return ""
	}
}
