package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
)

// CommitFunc applies one coalesced batch for a file: all position updates,
// then all removals.
type CommitFunc func(filePath string, updates []domain.PositionUpdate, removals []string)

// Coalescer batches bursts of position updates per file so that rapid
// typing causes at most one storage write per throttle window. Scheduling
// a batch for a file replaces any batch still pending for that file
// (last-write-wins, not merge) and re-arms its timer.
//
// Timer callbacks run on their own goroutines, so the pending map is
// mutex-guarded even though batches for one file are logically serial.
type Coalescer struct {
	window time.Duration
	commit CommitFunc
	notify func()

	mu      sync.Mutex
	pending map[string]*pendingBatch
	closed  bool
}

type pendingBatch struct {
	timer    *time.Timer
	updates  []domain.PositionUpdate
	removals []string
}

// NewCoalescer creates a coalescer with the given throttle window.
// commit is required; notify may be nil.
func NewCoalescer(window time.Duration, commit CommitFunc, notify func()) *Coalescer {
	if window <= 0 {
		window = domain.DefaultThrottleWindow
	}
	return &Coalescer{
		window:  window,
		commit:  commit,
		notify:  notify,
		pending: make(map[string]*pendingBatch),
	}
}

// Schedule queues a batch for a file, replacing and cancelling any batch
// already pending for it. After the throttle window elapses the batch is
// committed and the change notification fires once.
func (c *Coalescer) Schedule(filePath string, updates []domain.PositionUpdate, removals []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	if prev, ok := c.pending[filePath]; ok {
		prev.timer.Stop()
	}

	batch := &pendingBatch{updates: updates, removals: removals}
	batch.timer = time.AfterFunc(c.window, func() {
		c.fire(filePath, batch)
	})
	c.pending[filePath] = batch
}

// fire commits a batch if it is still the pending one for its file. A
// batch replaced between timer expiry and lock acquisition is dropped.
func (c *Coalescer) fire(filePath string, batch *pendingBatch) {
	c.mu.Lock()
	if c.closed || c.pending[filePath] != batch {
		c.mu.Unlock()
		return
	}
	delete(c.pending, filePath)
	c.mu.Unlock()

	c.commit(filePath, batch.updates, batch.removals)
	if c.notify != nil {
		c.notify()
	}
}

// Flush commits all pending batches immediately, cancelling their timers.
func (c *Coalescer) Flush() {
	c.mu.Lock()
	batches := make(map[string]*pendingBatch, len(c.pending))
	for path, batch := range c.pending {
		batch.timer.Stop()
		batches[path] = batch
	}
	c.pending = make(map[string]*pendingBatch)
	closed := c.closed
	c.mu.Unlock()

	if closed {
		return
	}
	for path, batch := range batches {
		c.commit(path, batch.updates, batch.removals)
		if c.notify != nil {
			c.notify()
		}
	}
}

// PendingFiles reports how many files currently have a batch waiting.
func (c *Coalescer) PendingFiles() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Close cancels all pending timers without applying their batches.
// Further Schedule calls are ignored.
func (c *Coalescer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for _, batch := range c.pending {
		batch.timer.Stop()
	}
	c.pending = make(map[string]*pendingBatch)
}
