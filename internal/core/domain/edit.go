package domain

import "strings"

// Edit describes one contiguous text replacement within a document-change
// batch. Lines and characters are 0-based; the replaced range is half-open
// in the character dimension, VS-Code style: [StartLine,StartChar) up to
// (EndLine,EndChar). A pure insertion has StartLine == EndLine and
// StartChar == EndChar.
type Edit struct {
	StartLine int
	StartChar int
	EndLine   int
	EndChar   int

	// InsertedText is the replacement text, possibly containing
	// embedded line breaks.
	InsertedText string
}

// LineDelta returns the net number of lines gained (positive) or lost
// (negative) by this edit.
func (e Edit) LineDelta() int {
	return strings.Count(e.InsertedText, "\n") - (e.EndLine - e.StartLine)
}

// InsertsNewline reports whether the replacement text contains a line break.
func (e Edit) InsertsNewline() bool {
	return strings.Contains(e.InsertedText, "\n")
}

// MultiLine reports whether the replaced range spans more than one line.
func (e Edit) MultiLine() bool {
	return e.EndLine > e.StartLine
}

// IsFullLineDeletion reports whether this edit looks like the wholesale
// removal of complete lines: the deletion starts at column 0 and either
// ends at column 0 of a later line or spans multiple lines.
//
// This heuristic can misclassify some multi-line replacements that start
// at column 0 as deletions. That boundary is intentional; the fallback
// behaviour downstream depends on it.
func (e Edit) IsFullLineDeletion() bool {
	return e.StartChar == 0 && (e.EndChar == 0 || e.MultiLine())
}
