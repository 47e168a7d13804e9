package services

import (
	"sort"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
)

// resolutionKind classifies how one edit affects one marker. Each kind
// corresponds to a row of the edit-shape decision table, so individual
// rows stay testable in isolation.
type resolutionKind int

const (
	// resolutionKeep leaves the marker where it is.
	resolutionKeep resolutionKind = iota

	// resolutionShift moves the marker by the edit's line delta.
	resolutionShift

	// resolutionClamp pins the marker to the first line of the edited
	// range after an unclassifiable shrinking edit.
	resolutionClamp

	// resolutionRemove flags the marker because its entire line was
	// deleted.
	resolutionRemove
)

// resolveAgainstEdit classifies a marker's 0-based line against one edit
// whose line delta is already known to be non-zero.
func resolveAgainstEdit(markerLine int, e domain.Edit, delta int) resolutionKind {
	switch {
	case markerLine > e.EndLine:
		// Strictly below the edited range: shifted wholesale.
		return resolutionShift

	case markerLine < e.StartLine:
		// Strictly above: untouched.
		return resolutionKeep
	}

	// The marker sits on the edited range itself.
	switch {
	case delta > 0 && e.InsertsNewline():
		if !e.MultiLine() {
			// Lines inserted within a single-line range. At column 0
			// the original text is pushed down and the marker follows;
			// mid-line the original text keeps its line.
			if e.StartChar == 0 {
				return resolutionShift
			}
			return resolutionKeep
		}
		// Growing multi-line replacement: only a column-0 insertion at
		// the marker's own line pushes it down.
		if e.StartChar == 0 && e.StartLine == markerLine {
			return resolutionShift
		}
		return resolutionKeep

	case delta < 0:
		if e.IsFullLineDeletion() && markerLine >= e.StartLine && markerLine < e.EndLine {
			return resolutionRemove
		}
		// Shrinking edit that isn't a clean whole-line deletion: pin
		// the marker to the start of the affected range.
		return resolutionClamp
	}

	// Net growth without an inserted line break cannot happen (the
	// delta would be <= 0), but the table's answer is "unchanged".
	return resolutionKeep
}

// ApplyEdits recomputes marker positions for one document-change batch.
// Edits are processed bottom-to-top so that shifts caused by lower edits
// never invalidate the line coordinates of edits still to be processed.
//
// Markers that are frozen or carry an invalid line number are silently
// skipped. A marker flagged for removal is excluded from later edits in
// the same batch and never also reported as updated. The updater itself
// mutates nothing: the BatchResult is advice for the caller.
func ApplyEdits(markers []domain.Marker, edits []domain.Edit) domain.BatchResult {
	var result domain.BatchResult
	if len(markers) == 0 || len(edits) == 0 {
		return result
	}

	sorted := make([]domain.Edit, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartLine > sorted[j].StartLine
	})

	// Working positions are 0-based; markers store 1-based lines.
	type tracked struct {
		id       string
		original int // 1-based
		line     int // 0-based, updated per edit
		removed  bool
	}
	work := make([]*tracked, 0, len(markers))
	for _, m := range markers {
		if !m.Trackable() {
			continue
		}
		work = append(work, &tracked{id: m.ID, original: m.LineNumber, line: m.LineNumber - 1})
	}

	for _, e := range sorted {
		delta := e.LineDelta()
		if delta == 0 {
			// Pure intra-line change; cannot move any marker.
			continue
		}

		for _, t := range work {
			if t.removed {
				continue
			}
			switch resolveAgainstEdit(t.line, e, delta) {
			case resolutionShift:
				t.line += delta
			case resolutionClamp:
				t.line = e.StartLine
			case resolutionRemove:
				t.removed = true
			case resolutionKeep:
			}
		}
	}

	for _, t := range work {
		if t.removed {
			result.Removals = append(result.Removals, t.id)
			continue
		}
		newLine := t.line + 1
		if newLine != t.original && newLine >= 1 {
			result.Updates = append(result.Updates, domain.PositionUpdate{
				MarkerID:      t.id,
				NewLineNumber: newLine,
			})
		}
	}
	return result
}
