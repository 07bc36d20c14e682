package embedding

import (
	"hash/fnv"
	"math"
	"unicode"
)

// BERT-style special token IDs. Hashed word IDs are bucketed below
// hashVocabSize and may collide with these; the mock and fallback paths
// tolerate that.
const (
	clsTokenID       = 101
	sepTokenID       = 102
	hashVocabSize    = 30000
	defaultMaxTokens = 256
)

// Tokenizer produces the three BERT input sequences for a text.
type Tokenizer interface {
	Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64)
}

// SimpleTokenizer hashes whitespace-separated words into a fixed vocabulary.
// It needs no vocabulary file, which keeps the ONNX backend self-contained;
// models fine-tuned against a real WordPiece vocabulary will lose accuracy.
type SimpleTokenizer struct{}

// Tokenize returns [CLS] + hashed word IDs + [SEP], padded with zeros to
// maxTokens. Words beyond maxTokens-2 are dropped so the separator still
// fits; when the input overflows, [SEP] occupies the final slot. All token
// type IDs are zero since inputs are single-segment.
func (t *SimpleTokenizer) Tokenize(text string, maxTokens int) (inputIDs, attentionMask, tokenTypeIDs []int64) {
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	words := SplitWords(text)
	if keep := maxTokens - 2; keep >= 0 && len(words) > keep {
		words = words[:keep]
	}

	inputIDs = make([]int64, maxTokens)
	attentionMask = make([]int64, maxTokens)
	tokenTypeIDs = make([]int64, maxTokens)

	inputIDs[0] = clsTokenID
	attentionMask[0] = 1
	for i, word := range words {
		inputIDs[i+1] = int64(HashString(word) % hashVocabSize)
		attentionMask[i+1] = 1
	}
	if sep := len(words) + 1; sep < maxTokens {
		inputIDs[sep] = sepTokenID
		attentionMask[sep] = 1
	}
	return inputIDs, attentionMask, tokenTypeIDs
}

// SplitWords splits text on Unicode whitespace. It returns nil when text
// contains no words.
func SplitWords(text string) []string {
	var words []string
	start := -1
	for i, r := range text {
		switch {
		case unicode.IsSpace(r):
			if start >= 0 {
				words = append(words, text[start:i])
				start = -1
			}
		case start < 0:
			start = i
		}
	}
	if start >= 0 {
		words = append(words, text[start:])
	}
	return words
}

// HashString maps s to a stable non-negative int via FNV-1a.
func HashString(s string) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int(h.Sum64() & math.MaxInt)
}
