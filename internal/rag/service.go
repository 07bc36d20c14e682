// Package rag composes storage, text extraction, and the retrieval
// pipelines into the document service backing the HTTP server, CLI, and
// inbox watcher.
package rag

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ragmill/ragmill/internal/extract"
	"github.com/ragmill/ragmill/internal/models"
	"github.com/ragmill/ragmill/internal/retrieval"
	"github.com/ragmill/ragmill/internal/storage"
)

// Defaults are the retrieval parameters applied when a request leaves them
// unset.
type Defaults struct {
	MaxResults          int
	SimilarityThreshold float64
}

// Service owns the document lifecycle: ingestion (extract, chunk, embed,
// persist), deletion, and context retrieval.
type Service struct {
	store     storage.Storage
	orch      *retrieval.Orchestrator
	extractor *extract.Extractor
	defaults  Defaults
	logger    *zap.Logger
}

// NewService creates the document service. A nil logger disables logging.
func NewService(store storage.Storage, orch *retrieval.Orchestrator, defaults Defaults, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		orch:      orch,
		extractor: extract.NewExtractor(),
		defaults:  defaults,
		logger:    logger,
	}
}

// IngestDocument ingests pre-extracted text as a named document: chunk,
// embed, then persist. Nothing is written until every chunk has embedded,
// so a failed ingest leaves the store unchanged. A successful ingest
// replaces any previous document with the same name. Whitespace-only text
// fails with extract.ErrUnreadableFile.
func (s *Service) IngestDocument(ctx context.Context, input *models.IngestInput, onProgress retrieval.ProgressFunc) (*models.Document, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("document name required")
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("ingest %s: %w", name, extract.ErrUnreadableFile)
	}

	doc := &models.Document{
		ID:          uuid.New().String(),
		Name:        name,
		ContentType: input.ContentType,
		SizeBytes:   input.SizeBytes,
		Content:     input.Text,
		UploadedAt:  time.Now().UTC(),
	}
	if doc.ContentType == "" {
		doc.ContentType = "text/plain"
	}
	if doc.SizeBytes == 0 {
		doc.SizeBytes = int64(len(input.Text))
	}

	chunks, err := s.orch.Ingest(ctx, doc, onProgress)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", name, err)
	}

	// Replace a previous document with the same name only once the new
	// content has embedded successfully, so a failed re-ingest keeps the
	// old version.
	existing, err := s.store.FindDocumentByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("ingest %s: %w", name, err)
	}
	if existing != nil {
		if err := s.store.DeleteDocument(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("replace %s: %w", name, err)
		}
		s.logger.Info("replacing document",
			zap.String("name", name),
			zap.String("previous_id", existing.ID))
	}

	if err := s.store.AddDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("ingest %s: %w", name, err)
	}
	if err := s.store.AddChunks(ctx, chunks); err != nil {
		s.rollback(ctx, doc.ID)
		return nil, fmt.Errorf("ingest %s: %w", name, err)
	}
	if err := s.store.SetDocumentChunkCount(ctx, doc.ID, len(chunks)); err != nil {
		s.rollback(ctx, doc.ID)
		return nil, fmt.Errorf("ingest %s: %w", name, err)
	}
	doc.ChunkCount = len(chunks)

	s.logger.Info("ingested document",
		zap.String("document_id", doc.ID),
		zap.String("name", name),
		zap.Int("chunks", len(chunks)),
		zap.Int64("size_bytes", doc.SizeBytes))
	return doc, nil
}

// rollback removes a partially persisted document so a failed ingest leaves
// no trace.
func (s *Service) rollback(ctx context.Context, docID string) {
	if err := s.store.DeleteDocument(ctx, docID); err != nil {
		s.logger.Error("rollback of partial ingest failed",
			zap.String("document_id", docID),
			zap.Error(err))
	}
}

// IngestBytes extracts text from raw file bytes (format chosen by the name's
// extension) and ingests the result under that name.
func (s *Service) IngestBytes(ctx context.Context, name string, content []byte, onProgress retrieval.ProgressFunc) (*models.Document, error) {
	ext := strings.ToLower(filepath.Ext(name))
	text, err := s.extractor.ExtractBytes(content, ext)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", name, err)
	}
	return s.IngestDocument(ctx, &models.IngestInput{
		Name:        name,
		ContentType: contentTypeForExt(ext),
		SizeBytes:   int64(len(content)),
		Text:        text,
	}, onProgress)
}

// IngestFile reads and ingests the file at path under its base name.
func (s *Service) IngestFile(ctx context.Context, path string, onProgress retrieval.ProgressFunc) (*models.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return s.IngestBytes(ctx, filepath.Base(path), content, onProgress)
}

// RetrieveContext answers a retrieval query: load all chunks, rank them
// against the query, and serialize the survivors into a context block. An
// empty store returns an empty result without touching the embedder.
func (s *Service) RetrieveContext(ctx context.Context, req *models.RetrieveRequest) (*models.RetrievedContext, error) {
	if req.MaxResults == 0 {
		req.MaxResults = s.defaults.MaxResults
	}
	if req.SimilarityThreshold == 0 {
		req.SimilarityThreshold = s.defaults.SimilarityThreshold
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	chunks, err := s.store.ListAllChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	results, err := s.orch.Query(ctx, req.Query, chunks, req.MaxResults, req.SimilarityThreshold)
	if err != nil {
		return nil, err
	}

	resp := &models.RetrievedContext{
		Query:     req.Query,
		Results:   results,
		Context:   retrieval.FormatContext(results),
		QueryTime: time.Since(start).Milliseconds(),
	}
	s.logger.Debug("retrieved context",
		zap.String("query", req.Query),
		zap.Int("candidates", len(chunks)),
		zap.Int("results", len(results)),
		zap.Int64("query_time_ms", resp.QueryTime))
	return resp, nil
}

// Document returns a document by ID, or (nil, nil) when absent.
func (s *Service) Document(ctx context.Context, id string) (*models.Document, error) {
	return s.store.GetDocument(ctx, id)
}

// ListDocuments returns all documents, most recently uploaded first.
func (s *Service) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	return s.store.ListDocuments(ctx)
}

// DeleteDocument removes a document and its chunks. Deleting an unknown ID
// is a no-op.
func (s *Service) DeleteDocument(ctx context.Context, id string) error {
	if err := s.store.DeleteDocument(ctx, id); err != nil {
		return err
	}
	s.logger.Info("deleted document", zap.String("document_id", id))
	return nil
}

// DeleteDocumentByName removes the document with the given name, if any.
func (s *Service) DeleteDocumentByName(ctx context.Context, name string) error {
	doc, err := s.store.FindDocumentByName(ctx, name)
	if err != nil {
		return err
	}
	if doc == nil {
		return nil
	}
	return s.DeleteDocument(ctx, doc.ID)
}

// ClearAll removes every document and chunk.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.store.ClearAll(ctx); err != nil {
		return err
	}
	s.logger.Info("cleared all documents")
	return nil
}

// Status reports store counts.
func (s *Service) Status(ctx context.Context) (*models.Stats, error) {
	docs, err := s.store.CountDocuments(ctx)
	if err != nil {
		return nil, err
	}
	chunks, err := s.store.CountChunks(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Stats{Documents: int(docs), Chunks: int(chunks)}, nil
}

// contentTypeForExt maps known extensions to MIME types, falling back to
// the platform registry and then application/octet-stream.
func contentTypeForExt(ext string) string {
	switch ext {
	case ".txt", "":
		return "text/plain"
	case ".md":
		return "text/markdown"
	case ".rst":
		return "text/x-rst"
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
