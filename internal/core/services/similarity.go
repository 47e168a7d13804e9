package services

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Similarity scores how alike two anchor strings are, in [0,1]. The score
// is the unit-cost edit distance between the strings normalised by the
// longer length: identical strings score 1, strings sharing nothing score
// 0. Two empty strings are defined as identical; one empty string against
// a non-empty one scores 0. The function is symmetric.
//
// The distance comes from a character-level diff rather than a full DP
// matrix; anchors are at most a few dozen characters so either would do,
// but the diff is what the relocation machinery already reasons in.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)

	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	return float64(maxLen-distance) / float64(maxLen)
}
