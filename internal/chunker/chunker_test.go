package chunker

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestChunk_ShortText(t *testing.T) {
	c := NewChunker(512, 50)
	text := "hello world"
	spans := c.Chunk(text)
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Content != text {
		t.Errorf("content = %q, want full text", spans[0].Content)
	}
	if spans[0].StartIndex != 0 || spans[0].EndIndex != utf8.RuneCountInString(text) {
		t.Errorf("offsets = [%d, %d), want [0, %d)", spans[0].StartIndex, spans[0].EndIndex, utf8.RuneCountInString(text))
	}
}

func TestChunk_Empty(t *testing.T) {
	c := NewChunker(512, 50)
	if spans := c.Chunk(""); spans != nil {
		t.Errorf("empty text should return nil, got %v", spans)
	}
	if spans := c.Chunk("   \n\t  "); spans != nil {
		t.Errorf("whitespace-only text should return nil, got %v", spans)
	}
}

func TestChunk_SentenceBoundary(t *testing.T) {
	c := NewChunker(10, 2)
	// '.' at rune 6, past the midpoint of the first window [0, 10).
	spans := c.Chunk("abcdef. ghijklmno pqr")
	if len(spans) < 2 {
		t.Fatalf("expected multiple spans, got %d", len(spans))
	}
	if spans[0].Content != "abcdef." {
		t.Errorf("first span content = %q, want %q", spans[0].Content, "abcdef.")
	}
	if spans[0].EndIndex != 7 {
		t.Errorf("first span end = %d, want 7 (just past the period)", spans[0].EndIndex)
	}
}

func TestChunk_WhitespaceBoundary(t *testing.T) {
	c := NewChunker(10, 2)
	// No '.', space at rune 8 inside the first window.
	spans := c.Chunk("abcdefgh ijklmnopqr stu")
	if len(spans) < 2 {
		t.Fatalf("expected multiple spans, got %d", len(spans))
	}
	if spans[0].Content != "abcdefgh" {
		t.Errorf("first span content = %q, want %q", spans[0].Content, "abcdefgh")
	}
	if spans[0].EndIndex != 8 {
		t.Errorf("first span end = %d, want 8 (at the space)", spans[0].EndIndex)
	}
}

func TestChunk_BoundaryBeforeMidpointIgnored(t *testing.T) {
	c := NewChunker(10, 2)
	// The only '.' sits at rune 2, before the midpoint (5), so the first
	// window must fall back to the hard edge.
	spans := c.Chunk("ab.cdefghijklmnop")
	if len(spans) < 2 {
		t.Fatalf("expected multiple spans, got %d", len(spans))
	}
	if spans[0].EndIndex != 10 {
		t.Errorf("first span end = %d, want hard edge 10", spans[0].EndIndex)
	}
	if spans[0].Content != "ab.cdefghi" {
		t.Errorf("first span content = %q, want %q", spans[0].Content, "ab.cdefghi")
	}
}

func TestChunk_OverlapAndCoverage(t *testing.T) {
	c := NewChunker(10, 3)
	// 30 runes with no boundaries: every window is a hard cut.
	spans := c.Chunk("abcdefghijklmnopqrstuvwxyz0123")
	if len(spans) != 4 {
		t.Fatalf("expected 4 spans, got %d", len(spans))
	}
	for i := 1; i < len(spans); i++ {
		overlap := spans[i-1].EndIndex - spans[i].StartIndex
		if overlap != 3 {
			t.Errorf("spans %d/%d overlap = %d, want 3", i-1, i, overlap)
		}
	}
	if spans[0].StartIndex != 0 {
		t.Errorf("first span start = %d, want 0", spans[0].StartIndex)
	}
	if last := spans[len(spans)-1]; last.EndIndex != 30 {
		t.Errorf("last span end = %d, want 30", last.EndIndex)
	}
}

func TestChunk_StrictlyIncreasingStarts(t *testing.T) {
	c := NewChunker(16, 4)
	spans := c.Chunk(strings.Repeat("lorem ipsum dolor sit amet. ", 10))
	if len(spans) < 2 {
		t.Fatalf("expected multiple spans, got %d", len(spans))
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].StartIndex <= spans[i-1].StartIndex {
			t.Fatalf("span %d start %d not after span %d start %d",
				i, spans[i].StartIndex, i-1, spans[i-1].StartIndex)
		}
		if spans[i].EndIndex <= spans[i].StartIndex {
			t.Fatalf("span %d has end %d <= start %d", i, spans[i].EndIndex, spans[i].StartIndex)
		}
	}
}

func TestChunk_ForwardProgressWithDegenerateOverlap(t *testing.T) {
	// Overlap equal to the window size would never advance without the
	// minimum one-rune guard.
	c := NewChunker(5, 5)
	spans := c.Chunk(strings.Repeat("a", 12))
	if len(spans) < 2 {
		t.Fatalf("expected multiple spans, got %d", len(spans))
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].StartIndex <= spans[i-1].StartIndex {
			t.Fatalf("start did not advance: %d then %d", spans[i-1].StartIndex, spans[i].StartIndex)
		}
	}
	if last := spans[len(spans)-1]; last.EndIndex != 12 {
		t.Errorf("last span end = %d, want 12", last.EndIndex)
	}
}

func TestChunk_Unicode(t *testing.T) {
	c := NewChunker(4, 1)
	spans := c.Chunk("日本語のテキストです")
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d", len(spans))
	}
	wantStarts := []int{0, 3, 6}
	for i, s := range spans {
		if s.StartIndex != wantStarts[i] {
			t.Errorf("span %d start = %d, want %d", i, s.StartIndex, wantStarts[i])
		}
	}
	if spans[2].EndIndex != 10 {
		t.Errorf("last span end = %d, want 10 (rune offset, not bytes)", spans[2].EndIndex)
	}
}

func TestChunk_DefaultsOnThousandChars(t *testing.T) {
	c := NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 22)
	spans := c.Chunk(text)
	if len(spans) < 2 {
		t.Fatalf("expected at least 2 spans for %d chars, got %d", len(text), len(spans))
	}
	if !strings.HasSuffix(spans[0].Content, ".") {
		t.Errorf("first span should end at a sentence boundary, got %q", spans[0].Content[len(spans[0].Content)-10:])
	}
	overlap := spans[0].EndIndex - spans[1].StartIndex
	if overlap != DefaultChunkOverlap {
		t.Errorf("overlap = %d, want %d", overlap, DefaultChunkOverlap)
	}
}
