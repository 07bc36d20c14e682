package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	ollama "github.com/ollama/ollama/api"
)

// DefaultOllamaHost is used when no host is configured.
const DefaultOllamaHost = "http://localhost:11434"

// OllamaEmbedder produces embeddings through a local Ollama server using the
// official API client. Vectors are validated against the configured
// dimensionality and L2-normalized before being returned.
type OllamaEmbedder struct {
	client     *ollama.Client
	model      string
	dimensions int
}

// NewOllamaEmbedder creates an embedder talking to the Ollama server at host
// (DefaultOllamaHost when empty) using the named embedding model.
func NewOllamaEmbedder(host, model string, dimensions int) (*OllamaEmbedder, error) {
	if host == "" {
		host = DefaultOllamaHost
	}
	parsed, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama host %q: %w", host, err)
	}
	hc := &http.Client{Timeout: 120 * time.Second}
	return &OllamaEmbedder{
		client:     ollama.NewClient(parsed, hc),
		model:      model,
		dimensions: dimensions,
	}, nil
}

// Embed returns the embedding for a single text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.Embed(ctx, &ollama.EmbedRequest{
		Model: e.model,
		Input: text,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("ollama embed: no embedding returned")
	}
	return e.finish(resp.Embeddings[0])
}

// EmbedBatch embeds all texts in one request; the response preserves input order.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := e.client.Embed(ctx, &ollama.EmbedRequest{
		Model: e.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("ollama embed batch: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama embed batch: got %d embeddings for %d texts", len(resp.Embeddings), len(texts))
	}
	out := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		vec, err := e.finish(emb)
		if err != nil {
			return nil, &EmbeddingError{Index: i, Err: err}
		}
		out[i] = vec
	}
	return out, nil
}

// finish validates the vector's dimensionality and normalizes it.
func (e *OllamaEmbedder) finish(vec []float32) ([]float32, error) {
	if e.dimensions > 0 && len(vec) != e.dimensions {
		return nil, fmt.Errorf("ollama embed: got %d dimensions, expected %d", len(vec), e.dimensions)
	}
	NormalizeL2(vec)
	return vec, nil
}

// Dimensions returns the configured embedding dimensionality.
func (e *OllamaEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op; the underlying HTTP client needs no teardown.
func (e *OllamaEmbedder) Close() error {
	return nil
}
