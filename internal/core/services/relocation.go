package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
	"github.com/custodia-labs/linemark-cli/internal/core/ports/driven"
)

// Relocator searches for a marker's true line by content when incremental
// tracking is unavailable or has lost confidence: after an external edit,
// on reload, or on an explicit relocation command.
type Relocator struct {
	docs   driven.DocumentAccessor
	config domain.TrackingConfig
}

// NewRelocator creates a relocation search over the given document
// accessor.
func NewRelocator(docs driven.DocumentAccessor, config domain.TrackingConfig) *Relocator {
	return &Relocator{docs: docs, config: config.Normalise()}
}

// Relocate searches a symmetric window around the marker's recorded line
// for the best matching current line. An exact anchor match anywhere in
// the window wins with confidence 1.0; otherwise the best fuzzy candidate
// is accepted if it scores strictly above the acceptance threshold. The
// verdict never mutates the marker.
func (r *Relocator) Relocate(ctx context.Context, m domain.Marker) (domain.RelocationResult, error) {
	failed := domain.RelocationResult{Method: domain.RelocationFailed}

	if !m.Trackable() || m.ContentAnchor == "" {
		return failed, fmt.Errorf("marker %s: %w", m.ID, domain.ErrInvalidInput)
	}

	lineCount, err := r.docs.LineCount(ctx, m.FilePath)
	if err != nil {
		return failed, fmt.Errorf("reading %s: %w", m.FilePath, err)
	}
	if lineCount < 1 {
		return failed, nil
	}

	first := m.LineNumber - r.config.RelocationWindow
	if first < 1 {
		first = 1
	}
	last := m.LineNumber + r.config.RelocationWindow
	if last > lineCount {
		last = lineCount
	}

	// Exact pass: first verbatim anchor match in ascending line order.
	anchors := make(map[int]string, last-first+1)
	for line := first; line <= last; line++ {
		text, err := r.docs.Line(ctx, m.FilePath, line)
		if err != nil {
			return failed, fmt.Errorf("reading %s:%d: %w", m.FilePath, line, err)
		}
		anchor := GenerateAnchor(text, r.config.AnchorMaxLength)
		if anchor == m.ContentAnchor {
			return domain.RelocationResult{
				Success:       true,
				NewLineNumber: line,
				Confidence:    1.0,
				Method:        domain.RelocationExact,
			}, nil
		}
		anchors[line] = anchor
	}

	// Fuzzy pass: best similarity across the window.
	bestScore := 0.0
	bestLine := 0
	for line := first; line <= last; line++ {
		score := Similarity(m.ContentAnchor, anchors[line])
		if score > bestScore {
			bestScore = score
			bestLine = line
		}
	}

	if bestScore > r.config.FuzzyThreshold {
		return domain.RelocationResult{
			Success:       true,
			NewLineNumber: bestLine,
			Confidence:    bestScore,
			Method:        domain.RelocationFuzzy,
		}, nil
	}

	failed.Confidence = bestScore
	return failed, nil
}
