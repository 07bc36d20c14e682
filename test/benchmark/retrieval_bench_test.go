package benchmark

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ragmill/ragmill/internal/chunker"
	"github.com/ragmill/ragmill/internal/embedding"
	"github.com/ragmill/ragmill/internal/models"
	"github.com/ragmill/ragmill/internal/rag"
	"github.com/ragmill/ragmill/internal/retrieval"
	"github.com/ragmill/ragmill/internal/storage"
	"github.com/ragmill/ragmill/internal/vector"
)

func benchText(n int) string {
	var b strings.Builder
	for b.Len() < n {
		b.WriteString("Retrieval benchmarks measure the pipeline under realistic document sizes. ")
	}
	return b.String()
}

func BenchmarkVectorSearch(b *testing.B) {
	candidates := make([][]float32, 1000)
	for i := range candidates {
		vec := make([]float32, 384)
		vec[0] = float32(i) / 1000
		vec[1] = 1
		candidates[i] = vec
	}
	query := make([]float32, 384)
	query[0] = 1.0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = vector.Search(query, candidates, 10)
	}
}

func BenchmarkCosineSimilarity(b *testing.B) {
	x := make([]float32, 384)
	y := make([]float32, 384)
	for i := range x {
		x[i] = float32(i) / 384
		y[i] = float32(384-i) / 384
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = vector.CosineSimilarity(x, y)
	}
}

func BenchmarkChunker(b *testing.B) {
	ch := chunker.NewChunker(512, 50)
	text := benchText(20 * 1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = ch.Chunk(text)
	}
}

func BenchmarkFormatContext(b *testing.B) {
	content := benchText(500)
	results := make([]*models.RetrievedChunk, 10)
	for i := range results {
		results[i] = &models.RetrievedChunk{
			Chunk:      &models.Chunk{Content: content},
			Similarity: 1 - float64(i)/10,
			Rank:       i + 1,
		}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = retrieval.FormatContext(results)
	}
}

func BenchmarkMockEmbedder_Embed(b *testing.B) {
	e := embedding.NewMockEmbedder(384)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = e.Embed(ctx, "benchmark query text for embedding")
	}
}

func BenchmarkIngest(b *testing.B) {
	store, err := storage.NewSQLiteStorage(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()
	orch := retrieval.NewOrchestrator(chunker.NewChunker(512, 50), embedding.NewMockEmbedder(384), nil)
	svc := rag.NewService(store, orch, rag.Defaults{MaxResults: 5}, nil)
	ctx := context.Background()
	text := benchText(5 * 1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := svc.IngestDocument(ctx, &models.IngestInput{
			Name: fmt.Sprintf("doc-%d.txt", i),
			Text: text,
		}, nil)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRetrieveContext(b *testing.B) {
	store, err := storage.NewSQLiteStorage(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer store.Close()
	orch := retrieval.NewOrchestrator(chunker.NewChunker(512, 50), embedding.NewMockEmbedder(384), nil)
	svc := rag.NewService(store, orch, rag.Defaults{MaxResults: 5}, nil)
	ctx := context.Background()
	for i := 0; i < 200; i++ {
		_, err := svc.IngestDocument(ctx, &models.IngestInput{
			Name: fmt.Sprintf("doc-%d.txt", i),
			Text: fmt.Sprintf("Document %d covers one distinct retrieval topic. %s", i, benchText(400)),
		}, nil)
		if err != nil {
			b.Fatal(err)
		}
	}
	req := &models.RetrieveRequest{Query: "which document covers retrieval"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := svc.RetrieveContext(ctx, req)
		if err != nil {
			b.Fatal(err)
		}
	}
}
