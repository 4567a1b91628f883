// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize provides pure string utilities for author-list parsing
// and comparison normalization. All functions are deterministic and
// side-effect free. Implements: prd011-reconcile (R1);
//
//	docs/ARCHITECTURE.md § Field Normalizer.
package normalize

import (
	"regexp"
	"strings"
)

// andSepRe matches the literal " and " author separator, any letter case.
var andSepRe = regexp.MustCompile(`(?i)\s+and\s+`)

// punctRe matches characters stripped before comparison: everything that is
// not a letter, digit, or whitespace.
var punctRe = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

// wsRe collapses runs of whitespace to a single space.
var wsRe = regexp.MustCompile(`\s+`)

// SplitAuthors splits an author string into individual names. The primary
// separator is the literal " and " (case-insensitive); when absent, any of
// comma, semicolon, or ampersand splits instead. Results are trimmed and
// empties dropped.
func SplitAuthors(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var parts []string
	if andSepRe.MatchString(s) {
		parts = andSepRe.Split(s, -1)
	} else {
		parts = strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ';' || r == '&'
		})
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LastName returns the last whitespace-delimited token of an author name.
// "Jane van Doe" yields "Doe"; a single-token name is returned as-is.
func LastName(author string) string {
	fields := strings.Fields(author)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// FirstName returns everything before the last whitespace-delimited token,
// or the empty string for single-token names.
func FirstName(author string) string {
	fields := strings.Fields(author)
	if len(fields) < 2 {
		return ""
	}
	return strings.Join(fields[:len(fields)-1], " ")
}

// ForComparison lower-cases, strips punctuation, and collapses whitespace.
// Used only for equality and containment tests, never for display.
func ForComparison(s string) string {
	s = strings.ToLower(s)
	s = punctRe.ReplaceAllString(s, "")
	s = wsRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// EqualFold reports whether two values match under trimmed, case-insensitive
// comparison. This is the looser test used for title/authors/venue diffs;
// DOI and year compare exactly.
func EqualFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
