// Package storage defines the persistence interface for documents and chunks.
package storage

import (
	"context"
	"errors"

	"github.com/ragmill/ragmill/internal/models"
)

// ErrDuplicateKey reports an insert whose primary key already exists.
var ErrDuplicateKey = errors.New("duplicate key")

// Storage defines document and chunk persistence operations.
//
// Single-row reads of absent records return (nil, nil) so callers can
// distinguish "not found" from infrastructure failures.
type Storage interface {
	// Document operations
	AddDocument(ctx context.Context, doc *models.Document) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	FindDocumentByName(ctx context.Context, name string) (*models.Document, error)
	ListDocuments(ctx context.Context) ([]*models.Document, error)
	SetDocumentChunkCount(ctx context.Context, id string, count int) error
	DeleteDocument(ctx context.Context, id string) error

	// Chunk operations
	AddChunks(ctx context.Context, chunks []*models.Chunk) error
	GetChunksForDocument(ctx context.Context, docID string) ([]*models.Chunk, error)
	ListAllChunks(ctx context.Context) ([]*models.Chunk, error)

	// Maintenance and stats
	ClearAll(ctx context.Context) error
	CountDocuments(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)

	Close() error
}
