package driven

import "context"

// DocumentAccessor provides line-oriented read access to a tracked
// document. The relocation search and anchor regeneration read through
// this port; the core never opens files itself.
type DocumentAccessor interface {
	// LineCount returns the number of lines in the document.
	LineCount(ctx context.Context, filePath string) (int, error)

	// Line returns the raw text of the given 1-based line, without the
	// trailing line break. Returns domain.ErrInvalidInput for lines
	// outside [1, LineCount].
	Line(ctx context.Context, filePath string, lineNumber int) (string, error)
}
