// Package watch detects external modifications to tracked files and
// triggers the content-based relocation search for their markers. This is
// the recovery path for edits that happened outside the tracking session:
// incremental line deltas are unavailable, so position must be
// re-established from content.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/linemark-cli/internal/core/ports/driving"
	"github.com/custodia-labs/linemark-cli/internal/logger"
)

// Invalidator lets the watcher drop stale cached document content before
// a relocation run. Optional.
type Invalidator interface {
	Invalidate(filePath string)
}

// Watcher subscribes to filesystem events for tracked files and runs the
// relocation search when a file changes on disk. Editors tend to emit
// bursts of Write/Create/Rename events per save, so relocation runs are
// rate-limited per file.
type Watcher struct {
	tracker driving.PositionTracker
	cache   Invalidator
	fsw     *fsnotify.Watcher

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	watched  map[string]struct{}
	trailing map[string]*time.Timer
	done     chan struct{}
	wg       sync.WaitGroup
	closed   bool
}

// Events per second allowed per file once the initial burst is spent.
// One immediate run per save, then at most two reconciliations a second
// while the file keeps changing.
const perFileRate = rate.Limit(2)

// trailingDelay is how long after a throttled change burst the deferred
// relocation run fires, so the final save of a burst is always
// reconciled even when no further event arrives.
const trailingDelay = 500 * time.Millisecond

// NewWatcher creates a watcher that drives relocation through the given
// tracker. cache may be nil.
func NewWatcher(tracker driving.PositionTracker, cache Invalidator) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	return &Watcher{
		tracker:  tracker,
		cache:    cache,
		fsw:      fsw,
		limiters: make(map[string]*rate.Limiter),
		watched:  make(map[string]struct{}),
		trailing: make(map[string]*time.Timer),
		done:     make(chan struct{}),
	}, nil
}

// Watch adds a file to the watch set. Adding the same file twice is a
// no-op.
func (w *Watcher) Watch(filePath string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("watcher closed")
	}
	if _, ok := w.watched[filePath]; ok {
		return nil
	}
	if err := w.fsw.Add(filePath); err != nil {
		return fmt.Errorf("watching %s: %w", filePath, err)
	}
	w.watched[filePath] = struct{}{}
	return nil
}

// Run processes filesystem events until the context is cancelled or the
// watcher is closed. Blocking; run it on its own goroutine or as the
// main loop of a watch command.
func (w *Watcher) Run(ctx context.Context) error {
	w.wg.Add(1)
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.handleChange(ctx, event.Name)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)
		}
	}
}

// handleChange triggers a rate-limited relocation run for one file. A
// change denied by the limiter arms a trailing run instead of being
// dropped, so the last save in a burst is still reconciled.
func (w *Watcher) handleChange(ctx context.Context, filePath string) {
	if !w.limiter(filePath).Allow() {
		logger.Debug("watch: %s: change burst, relocation deferred", filePath)
		w.armTrailing(ctx, filePath)
		return
	}

	w.disarmTrailing(filePath)
	w.relocate(ctx, filePath)
}

// relocate invalidates cached content and runs the relocation search.
func (w *Watcher) relocate(ctx context.Context, filePath string) {
	if w.cache != nil {
		w.cache.Invalidate(filePath)
	}

	results, err := w.tracker.RelocateFile(ctx, filePath)
	if err != nil {
		logger.Warn("watch: relocating %s: %v", filePath, err)
		return
	}
	logger.Debug("watch: %s: relocation checked %d marker(s)", filePath, len(results))
}

// armTrailing schedules (or re-arms) the deferred relocation run for a
// file whose change events are being throttled.
func (w *Watcher) armTrailing(ctx context.Context, filePath string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if prev, ok := w.trailing[filePath]; ok {
		prev.Stop()
	}
	w.trailing[filePath] = time.AfterFunc(trailingDelay, func() {
		w.mu.Lock()
		if w.closed {
			w.mu.Unlock()
			return
		}
		delete(w.trailing, filePath)
		w.mu.Unlock()

		w.relocate(ctx, filePath)
	})
}

// disarmTrailing cancels a pending trailing run; an immediate relocation
// just covered it.
func (w *Watcher) disarmTrailing(filePath string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.trailing[filePath]; ok {
		timer.Stop()
		delete(w.trailing, filePath)
	}
}

func (w *Watcher) limiter(filePath string) *rate.Limiter {
	w.mu.Lock()
	defer w.mu.Unlock()

	l, ok := w.limiters[filePath]
	if !ok {
		l = rate.NewLimiter(perFileRate, 1)
		w.limiters[filePath] = l
	}
	return l
}

// Close stops event processing and releases the underlying watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for _, timer := range w.trailing {
		timer.Stop()
	}
	w.trailing = make(map[string]*time.Timer)
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
