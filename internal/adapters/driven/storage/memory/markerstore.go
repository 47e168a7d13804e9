// Package memory provides in-memory implementations of the driven storage
// ports, used in tests and for ephemeral tracking sessions.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
	"github.com/custodia-labs/linemark-cli/internal/core/ports/driven"
)

// Ensure MarkerStore implements the interface.
var _ driven.MarkerStore = (*MarkerStore)(nil)

// MarkerStore is an in-memory implementation of driven.MarkerStore.
type MarkerStore struct {
	mu      sync.RWMutex
	markers map[string]domain.Marker
}

// NewMarkerStore creates a new in-memory marker store.
func NewMarkerStore() *MarkerStore {
	return &MarkerStore{
		markers: make(map[string]domain.Marker),
	}
}

// SaveMarker stores or updates a complete marker record.
func (s *MarkerStore) SaveMarker(_ context.Context, m *domain.Marker) error {
	if err := m.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := *m
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	s.markers[stored.ID] = stored
	return nil
}

// GetMarker retrieves a marker by ID.
func (s *MarkerStore) GetMarker(_ context.Context, id string) (*domain.Marker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.markers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &m, nil
}

// GetMarkersForFile returns all markers for a file path, ordered by line.
func (s *MarkerStore) GetMarkersForFile(_ context.Context, filePath string) ([]domain.Marker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Marker
	for id := range s.markers {
		m := s.markers[id]
		if m.FilePath == filePath {
			result = append(result, m)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].LineNumber != result[j].LineNumber {
			return result[i].LineNumber < result[j].LineNumber
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// UpdateMarker applies a partial update to a stored marker.
func (s *MarkerStore) UpdateMarker(_ context.Context, id string, update domain.MarkerUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.markers[id]
	if !ok {
		return domain.ErrNotFound
	}

	if update.LineNumber != nil {
		if *update.LineNumber < 1 {
			return domain.ErrInvalidInput
		}
		m.LineNumber = *update.LineNumber
	}
	if update.ContentAnchor != nil {
		m.ContentAnchor = *update.ContentAnchor
	}
	if update.LastKnownContent != nil {
		m.LastKnownContent = *update.LastKnownContent
	}
	if update.Label != nil {
		m.Label = *update.Label
	}
	if update.TrackingEnabled != nil {
		m.TrackingEnabled = *update.TrackingEnabled
	}
	m.UpdatedAt = time.Now().UTC()

	s.markers[id] = m
	return nil
}

// RemoveMarker deletes a marker. Removing a missing marker is a no-op.
func (s *MarkerStore) RemoveMarker(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.markers, id)
	return nil
}

// ListFiles returns the distinct file paths that have markers, sorted.
func (s *MarkerStore) ListFiles(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, m := range s.markers {
		seen[m.FilePath] = struct{}{}
	}
	files := make([]string, 0, len(seen))
	for path := range seen {
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}
