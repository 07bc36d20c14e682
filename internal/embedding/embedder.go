// Package embedding provides text embedding with pluggable backends
// (Ollama, ONNX, deterministic mock), a lazily-initialized shared handle,
// and an LRU cache.
package embedding

import (
	"context"
	"fmt"
	"math"
)

// Embedder produces fixed-dimensionality, L2-normalized vector embeddings
// for text. Implementations must be deterministic: the same input against
// the same backend state yields the same vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// EmbeddingError reports a failure to produce a vector for one item, so the
// caller can skip or retry just that item. Index is the item's position in
// its batch (-1 when the failure is not positional); ChunkID names the chunk
// being embedded when the caller assigned one.
type EmbeddingError struct {
	Index   int
	ChunkID string
	Err     error
}

func (e *EmbeddingError) Error() string {
	if e.ChunkID != "" {
		return fmt.Sprintf("embed item %d (chunk %s): %v", e.Index, e.ChunkID, e.Err)
	}
	return fmt.Sprintf("embed item %d: %v", e.Index, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// NormalizeL2 normalizes the vector in place to unit L2 norm.
// Zero vectors are left unchanged.
func NormalizeL2(x []float32) {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(1.0 / math.Sqrt(sum))
	for i := range x {
		x[i] *= norm
	}
}
