package driven

import (
	"context"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
)

// MarkerStore persists markers. Backed by SQLite for durable storage;
// an in-memory implementation exists for tests and ephemeral sessions.
// All operations are best-effort from the tracking core's point of view:
// a failed write is logged and abandoned, never retried.
type MarkerStore interface {
	// SaveMarker stores or updates a complete marker record.
	SaveMarker(ctx context.Context, m *domain.Marker) error

	// GetMarker retrieves a marker by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetMarker(ctx context.Context, id string) (*domain.Marker, error)

	// GetMarkersForFile returns all markers recorded for a file path.
	GetMarkersForFile(ctx context.Context, filePath string) ([]domain.Marker, error)

	// UpdateMarker applies a partial update to a stored marker.
	// Nil fields in the update are left untouched.
	UpdateMarker(ctx context.Context, id string, update domain.MarkerUpdate) error

	// RemoveMarker deletes a marker. Removing a missing marker is not
	// an error.
	RemoveMarker(ctx context.Context, id string) error

	// ListFiles returns the distinct file paths that have markers.
	ListFiles(ctx context.Context) ([]string, error)
}
