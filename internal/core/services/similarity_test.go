package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimilarity_Identity(t *testing.T) {
	for _, s := range []string{"", "a", "const x = 1;", "function foo(a, b) {", "日本語のテキスト"} {
		assert.Equal(t, 1.0, Similarity(s, s), "similarity(%q, %q)", s, s)
	}
}

func TestSimilarity_Empty(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("", "abc"))
	assert.Equal(t, 0.0, Similarity("abc", ""))
}

func TestSimilarity_Symmetric(t *testing.T) {
	pairs := [][2]string{
		{"kitten", "sitting"},
		{"function foo(a, b) {", "function foo(a, b, c) {"},
		{"abc", "xyz"},
		{"const x = 1;", "const y = 2;"},
	}
	for _, p := range pairs {
		assert.InDelta(t, Similarity(p[0], p[1]), Similarity(p[1], p[0]), 1e-12,
			"similarity(%q, %q) must be symmetric", p[0], p[1])
	}
}

func TestSimilarity_KnownDistances(t *testing.T) {
	// "kitten" -> "sitting": distance 3, max length 7.
	assert.InDelta(t, 4.0/7.0, Similarity("kitten", "sitting"), 1e-9)

	// One appended parameter: distance 3, max length 23.
	got := Similarity("function foo(a, b) {", "function foo(a, b, c) {")
	assert.InDelta(t, 20.0/23.0, got, 1e-9)
	assert.Greater(t, got, 0.8)

	// Nothing in common: full-length distance.
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
}

func TestSimilarity_Range(t *testing.T) {
	pairs := [][2]string{
		{"a", "ab"},
		{"hello world", "hello there"},
		{"x", "yyyyyyyyyy"},
	}
	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		assert.GreaterOrEqual(t, got, 0.0)
		assert.LessOrEqual(t, got, 1.0)
	}
}
