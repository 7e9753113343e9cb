// Package watch re-runs validation whenever a log file changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one log file and invokes a callback after each burst
// of create/write events settles. Debouncing is trailing-edge: events
// inside the window extend it, and the callback fires once after the
// last write, so a log flushed in several quick writes is validated in
// its settled state.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	target      string
	debounceDur time.Duration
	pending     bool
	lastEvent   time.Time
	onChange    func()
}

// New creates a Watcher for the given file. The callback runs on the
// watcher's goroutine, so it must not block indefinitely.
func New(target string, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to resolve watch path: %w", err)
	}

	return &Watcher{
		watcher:     fsw,
		target:      abs,
		debounceDur: 500 * time.Millisecond, // Debounce rapid saves
		onChange:    onChange,
	}, nil
}

// Run watches the target's directory until ctx is cancelled. Watching
// the directory rather than the file survives editors that replace the
// file on save.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.watcher.Add(filepath.Dir(w.target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.target), err)
	}

	ticker := time.NewTicker(w.debounceDur / 4)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.markPending()
			}

		case <-ticker.C:
			if w.takeSettled() {
				w.onChange()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return abs == w.target
}

// markPending records a change and restarts the settle window.
func (w *Watcher) markPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = true
	w.lastEvent = time.Now()
}

// takeSettled reports whether a pending change has gone quiet for the
// full debounce window, consuming it if so.
func (w *Watcher) takeSettled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.pending || time.Since(w.lastEvent) < w.debounceDur {
		return false
	}
	w.pending = false
	return true
}
