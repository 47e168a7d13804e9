package driving

import (
	"context"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
)

// PositionTracker is the tracking session surface driven by frontends.
// One session exists per process; HandleEdits and Relocate calls are
// delivered serially by the host.
type PositionTracker interface {
	// HandleEdits consumes one document-change batch for a file. New
	// positions are committed through the coalescer; the call itself
	// returns as soon as the batch is computed and scheduled.
	HandleEdits(ctx context.Context, filePath string, edits []domain.Edit) error

	// RelocateFile runs the content-based relocation search for every
	// trackable marker of a file, applying successful relocations
	// immediately. The per-marker verdicts are returned keyed by
	// marker ID.
	RelocateFile(ctx context.Context, filePath string) (map[string]domain.RelocationResult, error)

	// RelocateMarker runs the relocation search for a single marker
	// without applying the verdict.
	RelocateMarker(ctx context.Context, markerID string) (domain.RelocationResult, error)

	// OnChange registers the change notification invoked once per
	// coalesced commit or applied relocation batch.
	OnChange(fn func())

	// Flush commits any pending coalesced batches immediately.
	// Intended for tests and orderly shutdown paths that must observe
	// their writes.
	Flush(ctx context.Context)

	// Close disposes the session, cancelling pending coalesced batches
	// without applying them.
	Close() error
}
