package services

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/linemark-cli/internal/core/domain"
)

// GenerateAnchor produces the normalised fingerprint of a line used to
// detect drift and to relocate a marker by content search: leading and
// trailing whitespace is trimmed, internal whitespace runs collapse to a
// single space, and the result is truncated to maxLength characters.
// Truncation never splits a rune; the similarity scorer counts runes and
// anchors must stay valid UTF-8 through storage.
//
// A maxLength <= 0 falls back to domain.DefaultAnchorMaxLength. The
// function is pure; equal inputs always produce equal anchors.
func GenerateAnchor(lineText string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = domain.DefaultAnchorMaxLength
	}

	anchor := strings.Join(strings.Fields(lineText), " ")
	if utf8.RuneCountInString(anchor) > maxLength {
		anchor = string([]rune(anchor)[:maxLength])
	}
	return anchor
}
