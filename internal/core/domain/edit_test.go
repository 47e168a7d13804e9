package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEdit_LineDelta(t *testing.T) {
	tests := []struct {
		name string
		edit Edit
		want int
	}{
		{
			name: "pure intra-line replacement",
			edit: Edit{StartLine: 6, StartChar: 4, EndLine: 6, EndChar: 9, InsertedText: "hello"},
			want: 0,
		},
		{
			name: "insert two lines at column 0",
			edit: Edit{StartLine: 2, StartChar: 0, EndLine: 2, EndChar: 0, InsertedText: "a\nb\n"},
			want: 2,
		},
		{
			name: "delete one full line",
			edit: Edit{StartLine: 4, StartChar: 0, EndLine: 5, EndChar: 0},
			want: -1,
		},
		{
			name: "replace three lines with one",
			edit: Edit{StartLine: 1, StartChar: 0, EndLine: 4, EndChar: 0, InsertedText: "x\n"},
			want: -2,
		},
		{
			name: "split a line in the middle",
			edit: Edit{StartLine: 7, StartChar: 10, EndLine: 7, EndChar: 10, InsertedText: "\n"},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.edit.LineDelta())
		})
	}
}

func TestEdit_IsFullLineDeletion(t *testing.T) {
	tests := []struct {
		name string
		edit Edit
		want bool
	}{
		{
			name: "line deleted through to next line start",
			edit: Edit{StartLine: 4, StartChar: 0, EndLine: 5, EndChar: 0},
			want: true,
		},
		{
			name: "multi-line span ending mid-line",
			edit: Edit{StartLine: 4, StartChar: 0, EndLine: 6, EndChar: 3},
			want: true,
		},
		{
			name: "deletion starting mid-line",
			edit: Edit{StartLine: 4, StartChar: 2, EndLine: 5, EndChar: 0},
			want: false,
		},
		{
			name: "intra-line deletion",
			edit: Edit{StartLine: 4, StartChar: 3, EndLine: 4, EndChar: 8},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.edit.IsFullLineDeletion())
		})
	}
}

func TestMarker_Trackable(t *testing.T) {
	m := Marker{ID: "m-1", FilePath: "/tmp/a.go", LineNumber: 3, TrackingEnabled: true}
	assert.True(t, m.Trackable())

	m.TrackingEnabled = false
	assert.False(t, m.Trackable())

	m.TrackingEnabled = true
	m.LineNumber = 0
	assert.False(t, m.Trackable())
}

func TestMarker_Validate(t *testing.T) {
	valid := Marker{ID: "m-1", FilePath: "/tmp/a.go", LineNumber: 1}
	assert.NoError(t, valid.Validate())

	assert.ErrorIs(t, Marker{FilePath: "/tmp/a.go", LineNumber: 1}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, Marker{ID: "m-1", LineNumber: 1}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, Marker{ID: "m-1", FilePath: "/tmp/a.go", LineNumber: 0}.Validate(), ErrInvalidInput)
}

func TestTrackingConfig_Normalise(t *testing.T) {
	got := TrackingConfig{Enabled: true}.Normalise()
	assert.Equal(t, DefaultThrottleWindow, got.ThrottleWindow)
	assert.Equal(t, DefaultAnchorMaxLength, got.AnchorMaxLength)
	assert.Equal(t, DefaultRelocationWindow, got.RelocationWindow)
	assert.Equal(t, DefaultFuzzyThreshold, got.FuzzyThreshold)

	custom := TrackingConfig{ThrottleWindow: 250 * time.Millisecond, AnchorMaxLength: 80, RelocationWindow: 5, FuzzyThreshold: 0.9}.Normalise()
	assert.Equal(t, 80, custom.AnchorMaxLength)
	assert.Equal(t, 5, custom.RelocationWindow)
	assert.Equal(t, 0.9, custom.FuzzyThreshold)
}
