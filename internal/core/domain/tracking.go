package domain

import "time"

// Defaults and fixed constants for the tracking core. The relocation
// window and the fuzzy threshold are deliberately named rather than
// inlined so they can be exposed as configuration later without hunting
// for literals.
const (
	// DefaultAnchorMaxLength is the truncation limit for content anchors.
	DefaultAnchorMaxLength = 50

	// DefaultThrottleWindow is how long the coalescer waits after the
	// last scheduled batch for a file before committing it.
	DefaultThrottleWindow = 100 * time.Millisecond

	// DefaultRelocationWindow is the half-width, in lines, of the
	// symmetric search window around a marker's recorded line.
	DefaultRelocationWindow = 20

	// DefaultFuzzyThreshold is the minimum similarity a fuzzy candidate
	// must exceed to be accepted by the relocation search.
	DefaultFuzzyThreshold = 0.8
)

// TrackingConfig carries the tunable knobs of a tracking session.
type TrackingConfig struct {
	// Enabled switches live position tracking on or off for the
	// whole session.
	Enabled bool

	// ThrottleWindow is the coalescer's per-file debounce window.
	ThrottleWindow time.Duration

	// AnchorMaxLength is the truncation limit for content anchors.
	AnchorMaxLength int

	// RelocationWindow is the relocation search half-width in lines.
	RelocationWindow int

	// FuzzyThreshold is the relocation acceptance threshold.
	FuzzyThreshold float64
}

// DefaultTrackingConfig returns the documented defaults.
func DefaultTrackingConfig() TrackingConfig {
	return TrackingConfig{
		Enabled:          true,
		ThrottleWindow:   DefaultThrottleWindow,
		AnchorMaxLength:  DefaultAnchorMaxLength,
		RelocationWindow: DefaultRelocationWindow,
		FuzzyThreshold:   DefaultFuzzyThreshold,
	}
}

// Normalise replaces zero or out-of-range values with defaults so a
// partially populated config is always usable.
func (c TrackingConfig) Normalise() TrackingConfig {
	if c.ThrottleWindow <= 0 {
		c.ThrottleWindow = DefaultThrottleWindow
	}
	if c.AnchorMaxLength <= 0 {
		c.AnchorMaxLength = DefaultAnchorMaxLength
	}
	if c.RelocationWindow <= 0 {
		c.RelocationWindow = DefaultRelocationWindow
	}
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold > 1 {
		c.FuzzyThreshold = DefaultFuzzyThreshold
	}
	return c
}
