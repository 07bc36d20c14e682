// Package chunker splits document text into overlapping, boundary-aware segments.
package chunker

import (
	"strings"
	"unicode"
)

// Default window size and overlap, in runes.
const (
	DefaultChunkSize    = 512
	DefaultChunkOverlap = 50
)

// Span is one segment of the source text. StartIndex and EndIndex are rune
// offsets delimiting the window the segment was cut from; Content is the
// window's text with surrounding whitespace trimmed.
type Span struct {
	Content    string
	StartIndex int
	EndIndex   int
}

// Chunker splits text into overlapping rune-window chunks, preferring
// sentence and whitespace boundaries over hard cuts.
type Chunker struct {
	maxSize int
	overlap int
}

// NewChunker creates a chunker with the given window size and overlap (in
// runes). A non-positive size falls back to DefaultChunkSize; a negative
// overlap is treated as zero.
func NewChunker(maxSize, overlap int) *Chunker {
	if maxSize <= 0 {
		maxSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	return &Chunker{
		maxSize: maxSize,
		overlap: overlap,
	}
}

// Chunk splits text into ordered spans. Text that fits in a single window is
// returned as one span covering the whole text. Longer text is scanned in
// windows of the configured size; each window ends at the last sentence
// terminator, else the last whitespace, when that boundary sits at or past
// the window midpoint, and at the hard window edge otherwise. Consecutive
// windows overlap by the configured width, and every iteration advances the
// start by at least one rune so the scan always terminates. Spans whose
// content trims to empty are not emitted.
func (c *Chunker) Chunk(text string) []Span {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	runes := []rune(text)
	n := len(runes)
	if n <= c.maxSize {
		return []Span{{Content: text, StartIndex: 0, EndIndex: n}}
	}

	spans := make([]Span, 0, n/c.maxSize+1)
	start := 0
	for start < n {
		end := start + c.maxSize
		if end >= n {
			end = n
		} else {
			end = c.boundary(runes, start, end)
		}
		content := strings.TrimSpace(string(runes[start:end]))
		if content != "" {
			spans = append(spans, Span{Content: content, StartIndex: start, EndIndex: end})
		}
		if end >= n {
			break
		}
		next := end - c.overlap
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return spans
}

// boundary picks the cut position for the window [start, end). It returns the
// position just past the last '.' in the window, else the position of the
// last whitespace, accepting either only at or past the window midpoint;
// otherwise it returns the hard edge so the scan is guaranteed to progress.
func (c *Chunker) boundary(runes []rune, start, end int) int {
	mid := start + c.maxSize/2
	for i := end - 1; i >= mid; i-- {
		if runes[i] == '.' {
			return i + 1
		}
	}
	for i := end - 1; i >= mid; i-- {
		if unicode.IsSpace(runes[i]) {
			return i
		}
	}
	return end
}
