package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
	"github.com/custodia-labs/linemark-cli/internal/core/ports/driven"
	"github.com/custodia-labs/linemark-cli/internal/core/ports/driving"
	"github.com/custodia-labs/linemark-cli/internal/logger"
)

// Ensure Tracker implements the driving port.
var _ driving.PositionTracker = (*Tracker)(nil)

// Tracker is one position-tracking session. It consumes document-change
// batches, recomputes marker lines incrementally, commits the results
// through a per-file coalescer, and runs the content-based relocation
// search when incremental tracking cannot be trusted.
//
// Storage and document failures are best-effort: they are logged and the
// affected marker or batch is abandoned. A missed update self-corrects on
// the next edit or relocation run.
type Tracker struct {
	store     driven.MarkerStore
	docs      driven.DocumentAccessor
	config    domain.TrackingConfig
	relocator *Relocator
	coalescer *Coalescer

	mu        sync.Mutex
	callbacks []func()
	closed    bool
}

// NewTracker creates a tracking session over the given store and document
// accessor.
func NewTracker(store driven.MarkerStore, docs driven.DocumentAccessor, config domain.TrackingConfig) *Tracker {
	t := &Tracker{
		store:  store,
		docs:   docs,
		config: config.Normalise(),
	}
	t.relocator = NewRelocator(docs, t.config)
	t.coalescer = NewCoalescer(t.config.ThrottleWindow, t.commit, t.notifyChanged)
	return t
}

// HandleEdits consumes one document-change batch for a file. It loads the
// file's trackable markers, resolves new positions in one pass, and
// schedules the outcome through the coalescer. Returns quickly; the
// storage write happens when the throttle window elapses.
func (t *Tracker) HandleEdits(ctx context.Context, filePath string, edits []domain.Edit) error {
	if t.isClosed() {
		return domain.ErrSessionClosed
	}
	if !t.config.Enabled || len(edits) == 0 {
		return nil
	}

	markers, err := t.store.GetMarkersForFile(ctx, filePath)
	if err != nil {
		logger.Warn("tracker: loading markers for %s: %v", filePath, err)
		return fmt.Errorf("loading markers for %s: %w", filePath, err)
	}
	if len(markers) == 0 {
		return nil
	}

	result := ApplyEdits(markers, edits)
	if result.Empty() {
		return nil
	}

	logger.Debug("tracker: %s: %d updates, %d removals scheduled",
		filePath, len(result.Updates), len(result.Removals))
	t.coalescer.Schedule(filePath, result.Updates, result.Removals)
	return nil
}

// commit is the coalescer's apply callback: position updates first, then
// removals. Each marker is handled independently so one failed write
// never blocks the rest of the batch.
func (t *Tracker) commit(filePath string, updates []domain.PositionUpdate, removals []string) {
	ctx := context.Background()

	for _, u := range updates {
		update := domain.LineUpdate(u.NewLineNumber)
		// Refresh the anchor from the line's current content so the
		// next relocation searches for what is actually there now.
		if text, err := t.docs.Line(ctx, filePath, u.NewLineNumber); err == nil {
			anchor := GenerateAnchor(text, t.config.AnchorMaxLength)
			update.ContentAnchor = &anchor
			update.LastKnownContent = &text
		}
		if err := t.store.UpdateMarker(ctx, u.MarkerID, update); err != nil {
			logger.Warn("tracker: updating marker %s: %v", u.MarkerID, err)
		}
	}

	for _, id := range removals {
		if err := t.store.RemoveMarker(ctx, id); err != nil {
			logger.Warn("tracker: removing marker %s: %v", id, err)
		}
	}
}

// RelocateFile runs the relocation search for every trackable marker of a
// file and applies successful verdicts immediately, outside the coalescer.
// Markers without a stored anchor are skipped. Returns the per-marker
// verdicts keyed by marker ID.
func (t *Tracker) RelocateFile(ctx context.Context, filePath string) (map[string]domain.RelocationResult, error) {
	if t.isClosed() {
		return nil, domain.ErrSessionClosed
	}

	markers, err := t.store.GetMarkersForFile(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("loading markers for %s: %w", filePath, err)
	}

	results := make(map[string]domain.RelocationResult, len(markers))
	applied := 0
	for _, m := range markers {
		if !m.Trackable() || m.ContentAnchor == "" {
			continue
		}
		verdict, err := t.relocator.Relocate(ctx, m)
		if err != nil {
			logger.Warn("tracker: relocating marker %s: %v", m.ID, err)
			results[m.ID] = verdict
			continue
		}
		results[m.ID] = verdict

		if verdict.Success && verdict.NewLineNumber != m.LineNumber {
			if err := t.applyRelocation(ctx, m, verdict); err != nil {
				logger.Warn("tracker: applying relocation for %s: %v", m.ID, err)
				continue
			}
			applied++
		}
	}

	if applied > 0 {
		logger.Info("tracker: relocated %d marker(s) in %s", applied, filePath)
		t.notifyChanged()
	}
	return results, nil
}

// RelocateMarker runs the relocation search for a single marker without
// applying the verdict.
func (t *Tracker) RelocateMarker(ctx context.Context, markerID string) (domain.RelocationResult, error) {
	if t.isClosed() {
		return domain.RelocationResult{Method: domain.RelocationFailed}, domain.ErrSessionClosed
	}

	m, err := t.store.GetMarker(ctx, markerID)
	if err != nil {
		return domain.RelocationResult{Method: domain.RelocationFailed}, err
	}
	return t.relocator.Relocate(ctx, *m)
}

// applyRelocation persists a successful verdict, refreshing the anchor
// from the relocated line.
func (t *Tracker) applyRelocation(ctx context.Context, m domain.Marker, verdict domain.RelocationResult) error {
	update := domain.LineUpdate(verdict.NewLineNumber)
	if text, err := t.docs.Line(ctx, m.FilePath, verdict.NewLineNumber); err == nil {
		anchor := GenerateAnchor(text, t.config.AnchorMaxLength)
		update.ContentAnchor = &anchor
		update.LastKnownContent = &text
	}
	return t.store.UpdateMarker(ctx, m.ID, update)
}

// OnChange registers a callback invoked once per coalesced commit or
// applied relocation batch.
func (t *Tracker) OnChange(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.callbacks = append(t.callbacks, fn)
}

// Flush commits all pending coalesced batches immediately.
func (t *Tracker) Flush(_ context.Context) {
	t.coalescer.Flush()
}

// Close disposes the session. Pending coalesced batches are cancelled
// without being applied.
func (t *Tracker) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()

	t.coalescer.Close()
	return nil
}

func (t *Tracker) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

func (t *Tracker) notifyChanged() {
	t.mu.Lock()
	callbacks := make([]func(), len(t.callbacks))
	copy(callbacks, t.callbacks)
	t.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}
