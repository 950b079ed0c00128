// Package watcher submits media files appearing in watched directories.
//
// Directories are watched recursively; a file is handed to the submit
// callback once it has settled (no longer being written) and classifies as a
// known media kind. Submission is serial: one file finishes before the next
// begins, matching the orchestrator's single-session model.
package watcher

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"mediaconv/internal/logging"
	"mediaconv/internal/media"
)

// Handler receives one settled media file. Returning an error only logs it;
// the watcher keeps running.
type Handler func(ctx context.Context, sourcePath string) error

// Watcher converts files dropped into watched directories.
type Watcher struct {
	roots  []string
	settle time.Duration
	logger *slog.Logger
	fsw    *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]struct{}
	queue   chan string
}

// New constructs a recursive directory watcher. settle is how long a file
// must sit unchanged before it is submitted.
func New(roots []string, settle time.Duration, logger *slog.Logger) (*Watcher, error) {
	if len(roots) == 0 {
		return nil, errors.New("at least one watch directory required")
	}
	if settle <= 0 {
		settle = 2 * time.Second
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		roots:   roots,
		settle:  settle,
		logger:  logging.NewComponentLogger(logger, "watcher"),
		fsw:     fsw,
		pending: make(map[string]struct{}),
		queue:   make(chan string, 64),
	}, nil
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error { return w.fsw.Close() }

// Run watches until the context is cancelled, invoking handle serially for
// each settled media file.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	if err := w.registerAll(); err != nil {
		return err
	}
	w.logger.Info("watching for media files",
		logging.Int("roots", len(w.roots)),
		logging.Duration("settle", w.settle),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", logging.Error(err))
		case path := <-w.queue:
			w.dispatch(ctx, path, handle)
		}
	}
}

func (w *Watcher) registerAll() error {
	for _, root := range w.roots {
		info, err := os.Stat(root)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return errors.New("watch root is not a directory: " + root)
		}
		w.addTree(root)
	}
	return nil
}

func (w *Watcher) addTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			_ = w.fsw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.addTree(event.Name)
			return
		}
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if media.Classify(event.Name, "") == media.KindUnknown {
		return
	}

	w.mu.Lock()
	if _, queued := w.pending[event.Name]; queued {
		w.mu.Unlock()
		return
	}
	w.pending[event.Name] = struct{}{}
	w.mu.Unlock()

	// Settle timers run off the event loop so a slow copy never blocks other
	// directories.
	go func(path string) {
		select {
		case <-time.After(w.settle):
		case <-ctx.Done():
			return
		}
		select {
		case w.queue <- path:
		case <-ctx.Done():
		}
	}(event.Name)
}

func (w *Watcher) dispatch(ctx context.Context, path string, handle Handler) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()

	if _, err := os.Stat(path); err != nil {
		w.logger.Debug("queued file vanished", logging.String("path", path))
		return
	}
	w.logger.Info("submitting media file", logging.String("path", path))
	if err := handle(ctx, path); err != nil {
		w.logger.Error("conversion failed", logging.String("path", path), logging.Error(err))
	}
}
