package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
)

// commitRecorder captures coalescer commits for assertions.
type commitRecorder struct {
	mu      sync.Mutex
	commits []recordedCommit
	notify  int
	done    chan struct{}
}

type recordedCommit struct {
	filePath string
	updates  []domain.PositionUpdate
	removals []string
}

func newCommitRecorder() *commitRecorder {
	return &commitRecorder{done: make(chan struct{}, 16)}
}

func (r *commitRecorder) commit(filePath string, updates []domain.PositionUpdate, removals []string) {
	r.mu.Lock()
	r.commits = append(r.commits, recordedCommit{filePath: filePath, updates: updates, removals: removals})
	r.mu.Unlock()
	r.done <- struct{}{}
}

func (r *commitRecorder) notified() {
	r.mu.Lock()
	r.notify++
	r.mu.Unlock()
}

func (r *commitRecorder) snapshot() ([]recordedCommit, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	commits := make([]recordedCommit, len(r.commits))
	copy(commits, r.commits)
	return commits, r.notify
}

func (r *commitRecorder) waitForCommit(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for coalesced commit")
	}
}

func updates(lines ...int) []domain.PositionUpdate {
	out := make([]domain.PositionUpdate, len(lines))
	for i, line := range lines {
		out[i] = domain.PositionUpdate{MarkerID: "m-1", NewLineNumber: line}
	}
	return out
}

func TestCoalescer_CommitsAfterWindow(t *testing.T) {
	rec := newCommitRecorder()
	c := NewCoalescer(10*time.Millisecond, rec.commit, rec.notified)
	defer c.Close()

	c.Schedule("/tmp/a.go", updates(5), []string{"m-2"})
	rec.waitForCommit(t)

	commits, notify := rec.snapshot()
	require.Len(t, commits, 1)
	assert.Equal(t, "/tmp/a.go", commits[0].filePath)
	assert.Equal(t, updates(5), commits[0].updates)
	assert.Equal(t, []string{"m-2"}, commits[0].removals)
	assert.Equal(t, 1, notify)
}

func TestCoalescer_ReplacePendingBatch(t *testing.T) {
	rec := newCommitRecorder()
	c := NewCoalescer(50*time.Millisecond, rec.commit, rec.notified)
	defer c.Close()

	// Rapid rescheduling: only the last batch for the file survives.
	c.Schedule("/tmp/a.go", updates(5), nil)
	c.Schedule("/tmp/a.go", updates(6), nil)
	c.Schedule("/tmp/a.go", updates(7), nil)
	rec.waitForCommit(t)

	commits, notify := rec.snapshot()
	require.Len(t, commits, 1)
	assert.Equal(t, updates(7), commits[0].updates)
	assert.Equal(t, 1, notify)
}

func TestCoalescer_IndependentFiles(t *testing.T) {
	rec := newCommitRecorder()
	c := NewCoalescer(10*time.Millisecond, rec.commit, rec.notified)
	defer c.Close()

	c.Schedule("/tmp/a.go", updates(1), nil)
	c.Schedule("/tmp/b.go", updates(2), nil)
	rec.waitForCommit(t)
	rec.waitForCommit(t)

	commits, notify := rec.snapshot()
	assert.Len(t, commits, 2)
	assert.Equal(t, 2, notify)

	paths := map[string]bool{}
	for _, commit := range commits {
		paths[commit.filePath] = true
	}
	assert.True(t, paths["/tmp/a.go"])
	assert.True(t, paths["/tmp/b.go"])
}

func TestCoalescer_CloseCancelsWithoutApplying(t *testing.T) {
	rec := newCommitRecorder()
	c := NewCoalescer(time.Hour, rec.commit, rec.notified)

	c.Schedule("/tmp/a.go", updates(5), nil)
	assert.Equal(t, 1, c.PendingFiles())

	c.Close()
	assert.Equal(t, 0, c.PendingFiles())

	// Nothing fires after close.
	time.Sleep(20 * time.Millisecond)
	commits, notify := rec.snapshot()
	assert.Empty(t, commits)
	assert.Zero(t, notify)
}

func TestCoalescer_ScheduleAfterCloseIgnored(t *testing.T) {
	rec := newCommitRecorder()
	c := NewCoalescer(time.Millisecond, rec.commit, rec.notified)
	c.Close()

	c.Schedule("/tmp/a.go", updates(5), nil)
	assert.Equal(t, 0, c.PendingFiles())
}

func TestCoalescer_FlushCommitsImmediately(t *testing.T) {
	rec := newCommitRecorder()
	c := NewCoalescer(time.Hour, rec.commit, rec.notified)
	defer c.Close()

	c.Schedule("/tmp/a.go", updates(5), nil)
	c.Flush()

	commits, notify := rec.snapshot()
	require.Len(t, commits, 1)
	assert.Equal(t, updates(5), commits[0].updates)
	assert.Equal(t, 1, notify)
	assert.Equal(t, 0, c.PendingFiles())
}
