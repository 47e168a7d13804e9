package domain

import "time"

// Marker is a persisted pointer to a specific line in a specific file.
// The surrounding tooling calls these "bookmarks"; the tracking core only
// cares about position and content identity.
type Marker struct {
	// ID is the unique identifier for the marker.
	ID string

	// FilePath is the absolute path of the tracked document.
	FilePath string

	// LineNumber is the 1-based line the marker is believed to sit on.
	// Always >= 1 for a valid marker.
	LineNumber int

	// ContentAnchor is a short normalised fingerprint of the line's text
	// at the last confirmed position. Empty if never captured.
	ContentAnchor string

	// LastKnownContent is the full raw text of the line at the last
	// confirmed position, kept for diagnostics and recovery.
	LastKnownContent string

	// Label is an optional user-supplied note.
	Label string

	// TrackingEnabled controls whether the tracking core may move this
	// marker. A frozen marker (false) is excluded from incremental
	// updates and relocation and its LineNumber is never mutated.
	TrackingEnabled bool

	// CreatedAt is when the marker was first saved.
	CreatedAt time.Time

	// UpdatedAt is when the marker was last updated.
	UpdatedAt time.Time
}

// Trackable reports whether the tracking core is allowed to move this
// marker. Markers without a valid line or with tracking disabled are
// silently skipped by the updater and the relocation search.
func (m Marker) Trackable() bool {
	return m.TrackingEnabled && m.LineNumber >= 1
}

// Validate checks the marker's structural invariants.
func (m Marker) Validate() error {
	if m.ID == "" {
		return ErrInvalidInput
	}
	if m.FilePath == "" {
		return ErrInvalidInput
	}
	if m.LineNumber < 1 {
		return ErrInvalidInput
	}
	return nil
}

// MarkerUpdate describes a partial update to a stored marker.
// Nil fields are left untouched by the store.
type MarkerUpdate struct {
	LineNumber       *int
	ContentAnchor    *string
	LastKnownContent *string
	Label            *string
	TrackingEnabled  *bool
}

// LineUpdate returns a MarkerUpdate that only moves the marker.
func LineUpdate(line int) MarkerUpdate {
	return MarkerUpdate{LineNumber: &line}
}

// PositionUpdate is one resolved marker move produced by the incremental
// position updater. It is a result datum: the caller decides when and
// whether to persist it.
type PositionUpdate struct {
	// MarkerID identifies the marker to move.
	MarkerID string

	// NewLineNumber is the resolved 1-based line. Always >= 1.
	NewLineNumber int
}

// BatchResult is the outcome of applying one document-change batch to the
// markers of a single file. Removals carry the IDs of markers whose entire
// line was deleted; the core never deletes markers itself.
type BatchResult struct {
	Updates  []PositionUpdate
	Removals []string
}

// Empty reports whether the batch produced no changes.
func (r BatchResult) Empty() bool {
	return len(r.Updates) == 0 && len(r.Removals) == 0
}
