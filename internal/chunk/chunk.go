// Package chunk splits long document text into bounded segments sized for a
// single oracle call.
package chunk

import (
	"iter"
	"strings"
)

const (
	// DefaultMaxChars is the chunk size ceiling.
	DefaultMaxChars = 15000

	// DefaultMinCut rejects newline cut points within this many characters
	// of the chunk start, so newline clusters cannot produce tiny slivers.
	DefaultMinCut = 1000
)

// Chunks returns a lazy, restartable sequence of contiguous segments of text.
// Each segment is at most maxChars long; the cut prefers the last newline in
// the window but falls back to a hard cut at maxChars when the newline is
// within minCut of the segment start. Segments concatenate back to the exact
// original text. Empty text yields an empty sequence.
func Chunks(text string, maxChars, minCut int) iter.Seq[string] {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if minCut <= 0 {
		minCut = DefaultMinCut
	}
	return func(yield func(string) bool) {
		n := len(text)
		for start := 0; start < n; {
			end := start + maxChars
			if end >= n {
				end = n
			} else if nl := strings.LastIndexByte(text[start:end], '\n'); nl > minCut {
				end = start + nl
			}
			if !yield(text[start:end]) {
				return
			}
			start = end
		}
	}
}

// Split collects Chunks into a slice. When chunking yields nothing (empty
// text) the original text is substituted so callers always see at least one
// chunk.
func Split(text string, maxChars, minCut int) []string {
	var parts []string
	for part := range Chunks(text, maxChars, minCut) {
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		parts = []string{text}
	}
	return parts
}
