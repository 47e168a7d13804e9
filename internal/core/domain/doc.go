// Package domain defines the core business entities for Linemark.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Marker: A persisted pointer to a specific line in a specific file
//   - Edit: A single contiguous text replacement within a change batch
//   - RelocationResult: The verdict of a content-based relocation search
//   - PositionUpdate / BatchResult: The output of the incremental updater
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
