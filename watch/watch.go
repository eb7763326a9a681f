// Package watch re-runs a function whenever a file changes.
//
// The parent directory is watched rather than the file itself, so editors
// that save by writing a temp file and renaming it over the original are
// still seen. Bursts of events are collapsed with a debounce delay and
// runs never overlap. When fsnotify is unavailable the watcher falls back
// to polling the file's size and modification time.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Defaults for the debounce delay and the polling fallback.
const (
	DefaultDebounce     = 200 * time.Millisecond
	DefaultPollInterval = 500 * time.Millisecond
)

// RunFunc is called after each change. A returned error is logged and
// watching continues.
type RunFunc func(ctx context.Context) error

// Watcher watches a single file.
type Watcher struct {
	path      string
	debounce  time.Duration
	poll      time.Duration
	forcePoll bool
	logger    *slog.Logger
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must be quiet before a run starts.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithPolling forces polling at the given interval instead of fsnotify.
func WithPolling(interval time.Duration) Option {
	return func(w *Watcher) {
		w.forcePoll = true
		if interval > 0 {
			w.poll = interval
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a watcher for path.
func New(path string, opts ...Option) *Watcher {
	w := &Watcher{
		path:     path,
		debounce: DefaultDebounce,
		poll:     DefaultPollInterval,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Watch blocks until ctx is cancelled, calling run after each change to
// the file. It returns nil on cancellation.
func (w *Watcher) Watch(ctx context.Context, run RunFunc) error {
	if _, err := os.Stat(w.path); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	if w.forcePoll {
		return w.watchPolling(ctx, run)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		w.logger.Warn("fsnotify unavailable; polling for changes", "error", err)
		return w.watchPolling(ctx, run)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		w.logger.Warn("cannot watch directory; polling for changes", "dir", filepath.Dir(w.path), "error", err)
		return w.watchPolling(ctx, run)
	}

	return w.watchEvents(ctx, watcher, run)
}

func (w *Watcher) watchEvents(ctx context.Context, watcher *fsnotify.Watcher, run RunFunc) error {
	baseName := filepath.Base(w.path)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != baseName {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.runOnce(ctx, run)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) watchPolling(ctx context.Context, run RunFunc) error {
	ticker := time.NewTicker(w.poll)
	defer ticker.Stop()

	last, _ := stamp(w.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			cur, err := stamp(w.path)
			if err != nil || cur == last {
				continue
			}
			last = cur
			w.runOnce(ctx, run)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context, run RunFunc) {
	if ctx.Err() != nil {
		return
	}
	w.logger.Info("change detected; re-running", "path", w.path)
	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Error("run failed", "path", w.path, "error", err)
	}
}

type fileStamp struct {
	size    int64
	modTime time.Time
}

func stamp(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{size: info.Size(), modTime: info.ModTime()}, nil
}
