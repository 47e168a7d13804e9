package domain

// RelocationMethod identifies how a relocation verdict was reached.
type RelocationMethod string

// Available relocation methods.
const (
	// RelocationExact means the stored anchor matched a line verbatim.
	RelocationExact RelocationMethod = "exact"

	// RelocationFuzzy means the best fuzzy candidate cleared the
	// acceptance threshold.
	RelocationFuzzy RelocationMethod = "fuzzy"

	// RelocationFailed means no candidate in the search window was
	// acceptable.
	RelocationFailed RelocationMethod = "failed"
)

// String returns the string representation.
func (m RelocationMethod) String() string {
	return string(m)
}

// RelocationResult is the verdict of a content-based relocation search for
// one marker. It never mutates the marker; the caller decides whether to
// apply it.
type RelocationResult struct {
	// Success is true when a new line was found.
	Success bool

	// NewLineNumber is the relocated 1-based line. Only meaningful
	// when Success is true.
	NewLineNumber int

	// Confidence is in [0,1]; 1.0 means an exact anchor match. On
	// failure it carries the best fuzzy score found, possibly 0.
	Confidence float64

	// Method records how the verdict was reached.
	Method RelocationMethod
}
