package embedding

import (
	"context"
)

// MockEmbedder derives embeddings from the text hash instead of running a
// model. The same text always maps to the same unit vector, so exact-match
// lookups rank at similarity 1.0 while unrelated texts land essentially
// anywhere on the sphere. Used by tests and as the offline fallback backend.
type MockEmbedder struct {
	dimensions int
}

// NewMockEmbedder returns a deterministic embedder. dimensions <= 0 selects
// the 384 used by the common MiniLM models.
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &MockEmbedder{dimensions: dimensions}
}

// Embed expands the text hash through an LCG into components in [-1, 1),
// then normalizes to unit length.
func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	state := uint64(HashString(text))
	emb := make([]float32, e.dimensions)
	for i := range emb {
		state = state*6364136223846793005 + 1442695040888963407
		emb[i] = float32(state>>40)/float32(1<<23) - 1
	}
	NormalizeL2(emb)
	return emb, nil
}

// EmbedBatch embeds each text in order.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := e.Embed(ctx, text)
		if err != nil {
			return nil, &EmbeddingError{Index: i, Err: err}
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding dimensionality.
func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op.
func (e *MockEmbedder) Close() error {
	return nil
}
