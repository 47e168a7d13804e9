// Package document provides line-oriented read access to files on disk,
// implementing the driven.DocumentAccessor port for the tracking core.
package document

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
	"github.com/custodia-labs/linemark-cli/internal/core/ports/driven"
)

// Ensure FileAccessor implements the interface.
var _ driven.DocumentAccessor = (*FileAccessor)(nil)

// FileAccessor reads tracked documents from disk. Line splits are cached
// per file and invalidated when the file's size or modification time
// changes, so a relocation scan over a window of lines costs one read.
type FileAccessor struct {
	mu    sync.Mutex
	cache map[string]*cachedDocument
}

type cachedDocument struct {
	modTime time.Time
	size    int64
	lines   []string
}

// NewFileAccessor creates a document accessor reading from the local
// filesystem.
func NewFileAccessor() *FileAccessor {
	return &FileAccessor{cache: make(map[string]*cachedDocument)}
}

// LineCount returns the number of lines in the document.
func (a *FileAccessor) LineCount(ctx context.Context, filePath string) (int, error) {
	lines, err := a.lines(ctx, filePath)
	if err != nil {
		return 0, err
	}
	return len(lines), nil
}

// Line returns the raw text of the given 1-based line, without the
// trailing line break.
func (a *FileAccessor) Line(ctx context.Context, filePath string, lineNumber int) (string, error) {
	lines, err := a.lines(ctx, filePath)
	if err != nil {
		return "", err
	}
	if lineNumber < 1 || lineNumber > len(lines) {
		return "", fmt.Errorf("line %d of %s: %w", lineNumber, filePath, domain.ErrInvalidInput)
	}
	return lines[lineNumber-1], nil
}

// Invalidate drops the cached content for a file, forcing the next read
// to hit the disk. Used by the watcher after a change event.
func (a *FileAccessor) Invalidate(filePath string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.cache, filePath)
}

func (a *FileAccessor) lines(ctx context.Context, filePath string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, domain.ErrDocumentUnavailable)
	}

	a.mu.Lock()
	cached, ok := a.cache[filePath]
	a.mu.Unlock()
	if ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached.lines, nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, domain.ErrDocumentUnavailable)
	}

	lines := splitLines(string(data))

	a.mu.Lock()
	a.cache[filePath] = &cachedDocument{modTime: info.ModTime(), size: info.Size(), lines: lines}
	a.mu.Unlock()
	return lines, nil
}

// splitLines splits document text the way editors count lines: a trailing
// newline does not start an extra empty line, and an empty document has
// one empty line.
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
