// Package retrieval wires chunking, embedding, and similarity ranking into
// the ingest and query pipelines. Persistence stays with the caller.
package retrieval

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ragmill/ragmill/internal/chunker"
	"github.com/ragmill/ragmill/internal/embedding"
	"github.com/ragmill/ragmill/internal/models"
	"github.com/ragmill/ragmill/internal/vector"
)

// ProgressFunc observes ingest progress as a fraction in [0, 1]: 0 before
// embedding starts, i/n after each chunk, 1 only when every chunk embedded.
// It is never called again after a failure.
type ProgressFunc func(fraction float64)

// Orchestrator runs the ingest pipeline (chunk, embed, assemble chunk
// records) and the query pipeline (embed, rank, filter, truncate).
type Orchestrator struct {
	chunker  *chunker.Chunker
	embedder embedding.Embedder
	logger   *zap.Logger
}

// NewOrchestrator creates an orchestrator around the given chunker and
// embedder. A nil logger disables logging.
func NewOrchestrator(ch *chunker.Chunker, emb embedding.Embedder, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{chunker: ch, embedder: emb, logger: logger}
}

// Ingest splits doc's content into chunks and embeds each one sequentially,
// returning fully-populated chunk records ready for persistence. onProgress
// may be nil. On failure the successfully embedded prefix is returned
// alongside an *embedding.EmbeddingError naming the failed chunk; a
// canceled context surfaces ctx.Err() the same way.
func (o *Orchestrator) Ingest(ctx context.Context, doc *models.Document, onProgress ProgressFunc) ([]*models.Chunk, error) {
	report := func(fraction float64) {
		if onProgress != nil {
			onProgress(fraction)
		}
	}

	spans := o.chunker.Chunk(doc.Content)
	o.logger.Debug("ingest: chunked document",
		zap.String("document_id", doc.ID),
		zap.Int("chunks", len(spans)))

	report(0)
	if len(spans) == 0 {
		report(1)
		return nil, nil
	}

	chunks := make([]*models.Chunk, 0, len(spans))
	for i, span := range spans {
		if err := ctx.Err(); err != nil {
			return chunks, err
		}
		chunk := &models.Chunk{
			ID:          uuid.New().String(),
			DocumentID:  doc.ID,
			Content:     span.Content,
			StartIndex:  span.StartIndex,
			EndIndex:    span.EndIndex,
			ContentType: doc.ContentType,
		}
		vec, err := o.embedder.Embed(ctx, span.Content)
		if err != nil {
			o.logger.Warn("ingest: embedding failed",
				zap.String("document_id", doc.ID),
				zap.Int("chunk", i),
				zap.Error(err))
			return chunks, &embedding.EmbeddingError{Index: i, ChunkID: chunk.ID, Err: err}
		}
		chunk.Embedding = vec
		chunks = append(chunks, chunk)
		report(float64(i+1) / float64(len(spans)))
	}

	o.logger.Debug("ingest: embedded document",
		zap.String("document_id", doc.ID),
		zap.Int("chunks", len(chunks)))
	return chunks, nil
}

// Query embeds queryText and ranks candidates against it: every candidate
// is scored, those below threshold are dropped, and the remainder is
// truncated to the top k. Ties keep candidate order. An empty candidate set
// or non-positive k short-circuits without touching the embedder. Results
// carry 1-based ranks.
func (o *Orchestrator) Query(ctx context.Context, queryText string, candidates []*models.Chunk, k int, threshold float64) ([]*models.RetrievedChunk, error) {
	if len(candidates) == 0 || k <= 0 {
		return nil, nil
	}

	queryVec, err := o.embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	vectors := make([][]float32, len(candidates))
	for i, c := range candidates {
		vectors[i] = c.Embedding
	}
	matches, err := vector.Search(queryVec, vectors, len(vectors))
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}

	results := make([]*models.RetrievedChunk, 0, k)
	for _, m := range matches {
		if m.Similarity < threshold {
			continue
		}
		results = append(results, &models.RetrievedChunk{
			Chunk:      candidates[m.Index],
			Similarity: m.Similarity,
			Rank:       len(results) + 1,
		})
		if len(results) == k {
			break
		}
	}

	o.logger.Debug("query: ranked candidates",
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)))
	if len(results) == 0 {
		return nil, nil
	}
	return results, nil
}
