// Package extract recovers domain names from free-text model completions.
//
// The heuristics here are deliberately narrow: they strip list markers, pick the
// first dotted token of a short line, and trim surrounding punctuation. They are
// not a URL or hostname parser, and callers rely on the exact edge-case behavior.
package extract

import (
	"strings"
	"unicode/utf8"
)

const (
	// listMarkerChars are stripped from the start of each line ("1. ", "2) ", "- ").
	listMarkerChars = "0123456789.-) "
	// tokenTrimChars are stripped from both ends of the selected token.
	tokenTrimChars = `.,;:()[]{}"'`
	// maxLineRunes rejects lines that read like prose rather than a domain.
	maxLineRunes = 50
)

// Candidates returns every domain-like token in raw, in order of appearance,
// lowercased and trimmed, duplicates included.
func Candidates(raw string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if c, ok := candidate(line); ok {
			out = append(out, c)
		}
	}
	return out
}

// Domains returns at most count unique candidates from raw in first-seen order.
// It never fails: sparse or malformed completions just yield fewer entries, and
// count <= 0 yields an empty slice.
func Domains(raw string, count int) []string {
	out := []string{}
	if count <= 0 {
		return out
	}
	seen := make(map[string]struct{})
	for _, c := range Candidates(raw) {
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if len(out) == count {
			break
		}
	}
	return out
}

// candidate applies the per-line rules. Only the first dotted token of a line is
// ever considered, even when it is rejected.
func candidate(line string) (string, bool) {
	line = strings.TrimLeft(strings.TrimSpace(line), listMarkerChars)
	if !strings.Contains(line, ".") || utf8.RuneCountInString(line) >= maxLineRunes {
		return "", false
	}
	for _, tok := range strings.Fields(line) {
		if !strings.Contains(tok, ".") {
			continue
		}
		tok = strings.Trim(tok, tokenTrimChars)
		if tok == "" || strings.HasPrefix(tok, "http") {
			return "", false
		}
		return strings.ToLower(tok), true
	}
	return "", false
}

// Yield reports the fraction of the requested count that was recovered.
func Yield(got, requested int) float64 {
	if requested <= 0 {
		return 0
	}
	return float64(got) / float64(requested)
}
