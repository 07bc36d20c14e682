package rag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ragmill/ragmill/internal/chunker"
	"github.com/ragmill/ragmill/internal/embedding"
	"github.com/ragmill/ragmill/internal/extract"
	"github.com/ragmill/ragmill/internal/models"
	"github.com/ragmill/ragmill/internal/retrieval"
	"github.com/ragmill/ragmill/internal/storage"
)

func newTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "rag.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestService(t *testing.T, store storage.Storage) *Service {
	t.Helper()
	orch := retrieval.NewOrchestrator(chunker.NewChunker(512, 50), embedding.NewMockEmbedder(32), nil)
	return NewService(store, orch, Defaults{MaxResults: 5}, nil)
}

// failOnCall delegates to inner but fails the failAt-th Embed call.
type failOnCall struct {
	inner  embedding.Embedder
	failAt int
	calls  int
}

func (f *failOnCall) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.calls == f.failAt {
		return nil, errors.New("embedding backend down")
	}
	return f.inner.Embed(ctx, text)
}

func (f *failOnCall) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (f *failOnCall) Dimensions() int { return f.inner.Dimensions() }
func (f *failOnCall) Close() error    { return f.inner.Close() }

func TestService_IngestDocument(t *testing.T) {
	store := newTestStore(t)
	svc := newTestService(t, store)
	ctx := context.Background()

	doc, err := svc.IngestDocument(ctx, &models.IngestInput{
		Name: "notes.txt",
		Text: "Vector search ranks chunks by cosine similarity.",
	}, nil)
	if err != nil {
		t.Fatalf("IngestDocument: %v", err)
	}
	if doc.ID == "" {
		t.Error("document ID not assigned")
	}
	if doc.ChunkCount != 1 {
		t.Errorf("ChunkCount = %d, want 1", doc.ChunkCount)
	}
	if doc.ContentType != "text/plain" {
		t.Errorf("ContentType = %q, want text/plain default", doc.ContentType)
	}
	if doc.SizeBytes != int64(len("Vector search ranks chunks by cosine similarity.")) {
		t.Errorf("SizeBytes = %d", doc.SizeBytes)
	}

	stored, err := store.GetDocument(ctx, doc.ID)
	if err != nil || stored == nil {
		t.Fatalf("GetDocument: %v %v", stored, err)
	}
	if stored.ChunkCount != 1 {
		t.Errorf("stored ChunkCount = %d, want 1", stored.ChunkCount)
	}
	chunks, err := store.GetChunksForDocument(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetChunksForDocument: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if len(chunks[0].Embedding) != 32 {
		t.Errorf("embedding length %d, want 32", len(chunks[0].Embedding))
	}
}

func TestService_IngestEmptyTextIsUnreadable(t *testing.T) {
	store := newTestStore(t)
	svc := newTestService(t, store)

	_, err := svc.IngestDocument(context.Background(), &models.IngestInput{
		Name: "empty.txt",
		Text: "   \n\t  ",
	}, nil)
	if !errors.Is(err, extract.ErrUnreadableFile) {
		t.Fatalf("got %v, want ErrUnreadableFile", err)
	}
	if n, _ := store.CountDocuments(context.Background()); n != 0 {
		t.Errorf("store not empty after failed ingest: %d documents", n)
	}
}

func TestService_IngestRequiresName(t *testing.T) {
	svc := newTestService(t, newTestStore(t))
	_, err := svc.IngestDocument(context.Background(), &models.IngestInput{Text: "text"}, nil)
	if err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestService_IngestReplacesByName(t *testing.T) {
	store := newTestStore(t)
	svc := newTestService(t, store)
	ctx := context.Background()

	first, err := svc.IngestDocument(ctx, &models.IngestInput{Name: "a.txt", Text: "old content"}, nil)
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	second, err := svc.IngestDocument(ctx, &models.IngestInput{Name: "a.txt", Text: "new content"}, nil)
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}

	if n, _ := store.CountDocuments(ctx); n != 1 {
		t.Errorf("CountDocuments = %d, want 1 after replace", n)
	}
	if old, _ := store.GetDocument(ctx, first.ID); old != nil {
		t.Error("old version survived replace")
	}
	current, err := store.FindDocumentByName(ctx, "a.txt")
	if err != nil || current == nil {
		t.Fatalf("FindDocumentByName: %v %v", current, err)
	}
	if current.ID != second.ID || current.Content != "new content" {
		t.Errorf("current = %+v", current)
	}
}

func TestService_FailedIngestLeavesStoreUnchanged(t *testing.T) {
	store := newTestStore(t)
	good := newTestService(t, store)
	ctx := context.Background()

	if _, err := good.IngestDocument(ctx, &models.IngestInput{Name: "a.txt", Text: "good old version"}, nil); err != nil {
		t.Fatalf("seed ingest: %v", err)
	}

	failing := NewService(store,
		retrieval.NewOrchestrator(chunker.NewChunker(512, 50),
			&failOnCall{inner: embedding.NewMockEmbedder(32), failAt: 1}, nil),
		Defaults{MaxResults: 5}, nil)

	_, err := failing.IngestDocument(ctx, &models.IngestInput{Name: "a.txt", Text: "replacement that fails"}, nil)
	if err == nil {
		t.Fatal("expected embedding failure")
	}
	var embErr *embedding.EmbeddingError
	if !errors.As(err, &embErr) {
		t.Errorf("expected *embedding.EmbeddingError, got %T", err)
	}

	// The old version and its chunks are intact.
	current, err := store.FindDocumentByName(ctx, "a.txt")
	if err != nil || current == nil {
		t.Fatalf("FindDocumentByName: %v %v", current, err)
	}
	if current.Content != "good old version" {
		t.Errorf("old version lost: %q", current.Content)
	}
	if docs, _ := store.CountDocuments(ctx); docs != 1 {
		t.Errorf("CountDocuments = %d, want 1", docs)
	}
	if chunks, _ := store.CountChunks(ctx); chunks != 1 {
		t.Errorf("CountChunks = %d, want 1", chunks)
	}
}

func TestService_IngestBytes(t *testing.T) {
	store := newTestStore(t)
	svc := newTestService(t, store)

	content := []byte("# Heading\n\nMarkdown body text.")
	doc, err := svc.IngestBytes(context.Background(), "readme.md", content, nil)
	if err != nil {
		t.Fatalf("IngestBytes: %v", err)
	}
	if doc.ContentType != "text/markdown" {
		t.Errorf("ContentType = %q", doc.ContentType)
	}
	if doc.SizeBytes != int64(len(content)) {
		t.Errorf("SizeBytes = %d, want %d", doc.SizeBytes, len(content))
	}
	if doc.Content != string(content) {
		t.Errorf("Content = %q", doc.Content)
	}
}

func TestService_IngestBytesUnreadable(t *testing.T) {
	svc := newTestService(t, newTestStore(t))
	_, err := svc.IngestBytes(context.Background(), "broken.pdf", []byte("not a pdf"), nil)
	if !errors.Is(err, extract.ErrUnreadableFile) {
		t.Fatalf("got %v, want ErrUnreadableFile", err)
	}
}

func TestService_IngestFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	if err := os.WriteFile(path, []byte("Quarterly report contents."), 0600); err != nil {
		t.Fatal(err)
	}

	store := newTestStore(t)
	svc := newTestService(t, store)
	doc, err := svc.IngestFile(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	if doc.Name != "report.txt" {
		t.Errorf("Name = %q, want base name", doc.Name)
	}
}

func TestService_RetrieveContext(t *testing.T) {
	store := newTestStore(t)
	svc := newTestService(t, store)
	ctx := context.Background()

	texts := map[string]string{
		"go.txt":     "Go is a statically typed compiled language.",
		"python.txt": "Python is a dynamically typed interpreted language.",
		"cheese.txt": "Gouda is a mild Dutch cheese.",
	}
	for name, text := range texts {
		if _, err := svc.IngestDocument(ctx, &models.IngestInput{Name: name, Text: text}, nil); err != nil {
			t.Fatalf("ingest %s: %v", name, err)
		}
	}

	// With the deterministic embedder, the exact stored text embeds to the
	// same vector, so its chunk must rank first with similarity ~1.
	resp, err := svc.RetrieveContext(ctx, &models.RetrieveRequest{
		Query: "Gouda is a mild Dutch cheese.",
	})
	if err != nil {
		t.Fatalf("RetrieveContext: %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatal("no results")
	}
	top := resp.Results[0]
	if top.Chunk.Content != texts["cheese.txt"] {
		t.Errorf("top result %q", top.Chunk.Content)
	}
	if top.Similarity < 0.999 {
		t.Errorf("top similarity = %f, want ~1", top.Similarity)
	}
	if top.Rank != 1 {
		t.Errorf("top rank = %d, want 1", top.Rank)
	}
	if !strings.Contains(resp.Context, retrieval.ContextHeader) ||
		!strings.Contains(resp.Context, texts["cheese.txt"]) {
		t.Errorf("context block: %q", resp.Context)
	}
	if resp.QueryTime < 0 {
		t.Errorf("QueryTime = %d", resp.QueryTime)
	}
}

func TestService_RetrieveContextEmptyStore(t *testing.T) {
	svc := newTestService(t, newTestStore(t))
	resp, err := svc.RetrieveContext(context.Background(), &models.RetrieveRequest{Query: "anything"})
	if err != nil {
		t.Fatalf("RetrieveContext: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("got %d results, want 0", len(resp.Results))
	}
	if resp.Context != "" {
		t.Errorf("Context = %q, want empty", resp.Context)
	}
}

func TestService_RetrieveContextValidatesQuery(t *testing.T) {
	svc := newTestService(t, newTestStore(t))
	_, err := svc.RetrieveContext(context.Background(), &models.RetrieveRequest{Query: ""})
	if err == nil {
		t.Fatal("expected validation error for empty query")
	}
}

func TestService_DeleteDocument(t *testing.T) {
	store := newTestStore(t)
	svc := newTestService(t, store)
	ctx := context.Background()

	doc, err := svc.IngestDocument(ctx, &models.IngestInput{Name: "a.txt", Text: "content"}, nil)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if err := svc.DeleteDocument(ctx, doc.ID); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if docs, _ := store.CountDocuments(ctx); docs != 0 {
		t.Errorf("CountDocuments = %d", docs)
	}
	if chunks, _ := store.CountChunks(ctx); chunks != 0 {
		t.Errorf("CountChunks = %d", chunks)
	}
	// Idempotent.
	if err := svc.DeleteDocument(ctx, doc.ID); err != nil {
		t.Errorf("repeated delete: %v", err)
	}
}

func TestService_DeleteDocumentByName(t *testing.T) {
	store := newTestStore(t)
	svc := newTestService(t, store)
	ctx := context.Background()

	if _, err := svc.IngestDocument(ctx, &models.IngestInput{Name: "a.txt", Text: "content"}, nil); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if err := svc.DeleteDocumentByName(ctx, "a.txt"); err != nil {
		t.Fatalf("DeleteDocumentByName: %v", err)
	}
	if n, _ := store.CountDocuments(ctx); n != 0 {
		t.Errorf("CountDocuments = %d", n)
	}
	// Unknown name is a no-op.
	if err := svc.DeleteDocumentByName(ctx, "missing.txt"); err != nil {
		t.Errorf("unknown name: %v", err)
	}
}

func TestService_ClearAllAndStatus(t *testing.T) {
	store := newTestStore(t)
	svc := newTestService(t, store)
	ctx := context.Background()

	for _, name := range []string{"a.txt", "b.txt"} {
		if _, err := svc.IngestDocument(ctx, &models.IngestInput{Name: name, Text: "content of " + name}, nil); err != nil {
			t.Fatalf("ingest %s: %v", name, err)
		}
	}

	stats, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if stats.Documents != 2 || stats.Chunks != 2 {
		t.Errorf("stats = %+v, want 2 documents / 2 chunks", stats)
	}

	if err := svc.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	stats, err = svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status after clear: %v", err)
	}
	if stats.Documents != 0 || stats.Chunks != 0 {
		t.Errorf("stats after clear = %+v", stats)
	}
}

func TestContentTypeForExt(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".txt", "text/plain"},
		{"", "text/plain"},
		{".md", "text/markdown"},
		{".pdf", "application/pdf"},
		{".docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	}
	for _, tt := range tests {
		if got := contentTypeForExt(tt.ext); got != tt.want {
			t.Errorf("contentTypeForExt(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}
