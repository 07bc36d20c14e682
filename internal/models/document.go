// Package models defines core data structures for documents, chunks, and retrieval results.
package models

import "time"

// Document represents an ingested document with metadata.
// Content holds the full extracted text; ChunkCount is set once
// after the document's chunks have been persisted.
type Document struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	ContentType string    `json:"content_type" db:"content_type"`
	SizeBytes   int64     `json:"size_bytes" db:"size_bytes"`
	Content     string    `json:"content" db:"content"`
	ChunkCount  int       `json:"chunk_count" db:"chunk_count"`
	UploadedAt  time.Time `json:"uploaded_at" db:"uploaded_at"`
}

// Chunk is a bounded, possibly overlapping segment of a document's text,
// the atomic unit of embedding and retrieval. StartIndex and EndIndex are
// rune offsets into the parent document's content. A chunk never outlives
// its owning document.
type Chunk struct {
	ID          string    `json:"id" db:"id"`
	DocumentID  string    `json:"document_id" db:"document_id"`
	Content     string    `json:"content" db:"content"`
	Embedding   []float32 `json:"-" db:"embedding"`
	StartIndex  int       `json:"start_index" db:"start_index"`
	EndIndex    int       `json:"end_index" db:"end_index"`
	ContentType string    `json:"content_type,omitempty" db:"content_type"`
}

// IngestInput is the input for ingesting a document whose text has
// already been extracted.
type IngestInput struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	Text        string `json:"text"`
}
