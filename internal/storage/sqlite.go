package storage

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/ragmill/ragmill/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and
// initializes the schema. Parent directories are created if they do not
// exist. WAL mode, a 5s busy timeout, and foreign key enforcement are set
// via DSN parameters so every pooled connection behaves the same.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		content_type TEXT NOT NULL,
		size_bytes INTEGER NOT NULL,
		content TEXT NOT NULL,
		chunk_count INTEGER NOT NULL DEFAULT 0,
		uploaded_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_name ON documents(name);
	CREATE INDEX IF NOT EXISTS idx_documents_uploaded_at ON documents(uploaded_at);

	CREATE TABLE IF NOT EXISTS chunks (
		id TEXT PRIMARY KEY,
		document_id TEXT NOT NULL,
		content TEXT NOT NULL,
		embedding BLOB NOT NULL,
		start_index INTEGER NOT NULL,
		end_index INTEGER NOT NULL,
		content_type TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (document_id) REFERENCES documents(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON chunks(document_id);
	`
	_, err := db.Exec(schema)
	return err
}

// mapConstraintError converts driver constraint violations on unique keys
// into ErrDuplicateKey; everything else is wrapped as-is.
func mapConstraintError(err error, op string) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) &&
		(serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || serr.ExtendedCode == sqlite3.ErrConstraintUnique) {
		return fmt.Errorf("%s: %w", op, ErrDuplicateKey)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// AddDocument inserts a document. Re-inserting an existing ID returns
// ErrDuplicateKey. A zero UploadedAt is stamped with the current time.
func (s *SQLiteStorage) AddDocument(ctx context.Context, doc *models.Document) error {
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, name, content_type, size_bytes, content, chunk_count, uploaded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, doc.Name, doc.ContentType, doc.SizeBytes, doc.Content, doc.ChunkCount, doc.UploadedAt,
	)
	if err != nil {
		return mapConstraintError(err, fmt.Sprintf("add document %s", doc.ID))
	}
	return nil
}

// GetDocument returns a document by ID, or (nil, nil) when absent.
func (s *SQLiteStorage) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, content_type, size_bytes, content, chunk_count, uploaded_at
		 FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

// FindDocumentByName returns the most recently uploaded document with the
// given name, or (nil, nil) when none exists.
func (s *SQLiteStorage) FindDocumentByName(ctx context.Context, name string) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, content_type, size_bytes, content, chunk_count, uploaded_at
		 FROM documents WHERE name = ? ORDER BY uploaded_at DESC LIMIT 1`, name)
	return scanDocument(row)
}

func scanDocument(row *sql.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(&doc.ID, &doc.Name, &doc.ContentType, &doc.SizeBytes,
		&doc.Content, &doc.ChunkCount, &doc.UploadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListDocuments returns all documents, most recently uploaded first.
func (s *SQLiteStorage) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, content_type, size_bytes, content, chunk_count, uploaded_at
		 FROM documents ORDER BY uploaded_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var doc models.Document
		if err := rows.Scan(&doc.ID, &doc.Name, &doc.ContentType, &doc.SizeBytes,
			&doc.Content, &doc.ChunkCount, &doc.UploadedAt); err != nil {
			return nil, err
		}
		docs = append(docs, &doc)
	}
	return docs, rows.Err()
}

// SetDocumentChunkCount records how many chunks a document produced.
func (s *SQLiteStorage) SetDocumentChunkCount(ctx context.Context, id string, count int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET chunk_count = ? WHERE id = ?`, count, id)
	if err != nil {
		return fmt.Errorf("set chunk count: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set chunk count: document not found: %s", id)
	}
	return nil
}

// DeleteDocument removes a document and all of its chunks in a single
// transaction. Deleting an absent ID is a no-op.
func (s *SQLiteStorage) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE document_id = ?`, id); err != nil {
		return fmt.Errorf("delete chunks for %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return tx.Commit()
}

// AddChunks inserts chunks in a single transaction: either every row lands
// or none do. Duplicate chunk IDs return ErrDuplicateKey.
func (s *SQLiteStorage) AddChunks(ctx context.Context, chunks []*models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO chunks (id, document_id, content, embedding, start_index, end_index, content_type)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		_, err := stmt.ExecContext(ctx,
			chunk.ID, chunk.DocumentID, chunk.Content, encodeEmbedding(chunk.Embedding),
			chunk.StartIndex, chunk.EndIndex, chunk.ContentType)
		if err != nil {
			return mapConstraintError(err, fmt.Sprintf("add chunk %s", chunk.ID))
		}
	}
	return tx.Commit()
}

// GetChunksForDocument returns a document's chunks ordered by their start
// offset.
func (s *SQLiteStorage) GetChunksForDocument(ctx context.Context, docID string) ([]*models.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, content, embedding, start_index, end_index, content_type
		 FROM chunks WHERE document_id = ? ORDER BY start_index`, docID)
	if err != nil {
		return nil, err
	}
	return scanChunks(rows)
}

// ListAllChunks returns every stored chunk in a stable order (by document,
// then start offset), so ranking over the corpus is reproducible.
func (s *SQLiteStorage) ListAllChunks(ctx context.Context) ([]*models.Chunk, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, document_id, content, embedding, start_index, end_index, content_type
		 FROM chunks ORDER BY document_id, start_index`)
	if err != nil {
		return nil, err
	}
	return scanChunks(rows)
}

func scanChunks(rows *sql.Rows) ([]*models.Chunk, error) {
	defer rows.Close()
	var chunks []*models.Chunk
	for rows.Next() {
		var c models.Chunk
		var blob []byte
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Content, &blob,
			&c.StartIndex, &c.EndIndex, &c.ContentType); err != nil {
			return nil, err
		}
		c.Embedding = decodeEmbedding(blob)
		chunks = append(chunks, &c)
	}
	return chunks, rows.Err()
}

// ClearAll deletes every chunk and document in a single transaction.
func (s *SQLiteStorage) ClearAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM chunks`); err != nil {
		return fmt.Errorf("clear chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}
	return tx.Commit()
}

// CountDocuments returns the total number of documents.
func (s *SQLiteStorage) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// CountChunks returns the total number of chunks.
func (s *SQLiteStorage) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Embeddings are stored as little-endian float32 blobs, 4 bytes per
// component with no header; dimensionality is recovered from blob length.

func encodeEmbedding(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeEmbedding(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}
