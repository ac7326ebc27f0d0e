// Package utils provides shared utilities for text and logging.
package utils

import "strings"

// NormalizeHeader canonicalizes a column header for lexical comparison:
// lowercase, underscores/hyphens/dots become spaces, runs of whitespace collapse.
// Embedding-based scoring uses the raw header text; only the lexical scorer
// normalizes, so the semantic scores stay comparable with other deployments
// of the same model.
func NormalizeHeader(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case '_', '-', '.', '/':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
