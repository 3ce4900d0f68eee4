// Package watch reports changes to data files made by other writers, such as
// the monitor stamping alerts or another tool editing snippets.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an atomic replace produces
const DefaultDebounce = 200 * time.Millisecond

// Watcher calls back when any of a set of files changes
type Watcher struct {
	files    map[string]bool // absolute paths
	debounce time.Duration
	onChange func(path string)
	logger   *slog.Logger
}

// New creates a watcher for files. Their directories are watched rather than
// the files themselves so that atomic renames are seen.
func New(files []string, debounce time.Duration, onChange func(path string), logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		files:    make(map[string]bool, len(files)),
		debounce: debounce,
		onChange: onChange,
		logger:   logger,
	}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f, err)
		}
		w.files[abs] = true
	}
	return w, nil
}

// Run watches until ctx is cancelled
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dirs := map[string]bool{}
	for f := range w.files {
		dir := filepath.Dir(f)
		if dirs[dir] {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create watched directory: %w", err)
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	var (
		mu      sync.Mutex
		pending = map[string]*time.Timer{}
	)
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		for _, t := range pending {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			path, err := filepath.Abs(evt.Name)
			if err != nil || !w.files[path] {
				continue
			}

			mu.Lock()
			if t, ok := pending[path]; ok {
				t.Reset(w.debounce)
			} else {
				pending[path] = time.AfterFunc(w.debounce, func() {
					mu.Lock()
					delete(pending, path)
					mu.Unlock()
					if ctx.Err() == nil {
						w.onChange(path)
					}
				})
			}
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}
