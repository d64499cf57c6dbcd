package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks georag/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// DocumentStore defines the interface for document text storage.
type DocumentStore interface {
	// Upsert inserts a document or replaces the stored text of an existing one.
	// doc.PointID must be set before calling this method.
	Upsert(ctx context.Context, doc *DocumentRecord) error
	// GetBySourceAndDocID gets a document by source and corpus id. Returns ErrNotFound if not found.
	GetBySourceAndDocID(ctx context.Context, sourceID int, docID string) (*DocumentRecord, error)
	// GetByPointIDs returns the documents for the given point ids, keyed by point id.
	// Missing ids are absent from the map.
	GetByPointIDs(ctx context.Context, pointIDs []string) (map[string]*DocumentRecord, error)
	// ListBySource returns every document of a source ordered by position.
	ListBySource(ctx context.Context, sourceID int) ([]*DocumentRecord, error)
	// DeleteByPointIDs removes the given documents. Unknown ids are ignored.
	DeleteByPointIDs(ctx context.Context, pointIDs []string) error
	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
}

// DocumentRepo provides methods for document operations.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Upsert inserts a document or replaces the stored text of an existing one.
func (r *DocumentRepo) Upsert(ctx context.Context, doc *DocumentRecord) error {
	if doc.PointID == "" {
		return fmt.Errorf("point id is required")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (point_id, source_id, doc_id, position, text, hash)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(point_id) DO UPDATE SET
			source_id = excluded.source_id,
			doc_id = excluded.doc_id,
			position = excluded.position,
			text = excluded.text,
			hash = excluded.hash,
			indexed_at = CURRENT_TIMESTAMP`,
		doc.PointID, doc.SourceID, doc.DocID, doc.Position, doc.Text, doc.Hash,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}

// GetBySourceAndDocID gets a document by source and corpus id. Returns ErrNotFound if not found.
func (r *DocumentRepo) GetBySourceAndDocID(ctx context.Context, sourceID int, docID string) (*DocumentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT point_id, source_id, doc_id, position, text, hash, indexed_at FROM documents WHERE source_id = ? AND doc_id = ?",
		sourceID, docID,
	)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return doc, nil
}

// GetByPointIDs returns the documents for the given point ids, keyed by point id.
func (r *DocumentRepo) GetByPointIDs(ctx context.Context, pointIDs []string) (map[string]*DocumentRecord, error) {
	out := make(map[string]*DocumentRecord, len(pointIDs))
	if len(pointIDs) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(pointIDs)), ",")
	args := make([]any, len(pointIDs))
	for i, id := range pointIDs {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT point_id, source_id, doc_id, position, text, hash, indexed_at FROM documents WHERE point_id IN ("+placeholders+")",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		out[doc.PointID] = doc
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return out, nil
}

// ListBySource returns every document of a source ordered by position.
func (r *DocumentRepo) ListBySource(ctx context.Context, sourceID int) ([]*DocumentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT point_id, source_id, doc_id, position, text, hash, indexed_at FROM documents WHERE source_id = ? ORDER BY position",
		sourceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var docs []*DocumentRecord
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return docs, nil
}

// DeleteByPointIDs removes the given documents in one transaction.
func (r *DocumentRepo) DeleteByPointIDs(ctx context.Context, pointIDs []string) error {
	if len(pointIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM documents WHERE point_id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare delete: %w", err)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, id := range pointIDs {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("failed to delete document %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// Count returns the number of stored documents.
func (r *DocumentRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (*DocumentRecord, error) {
	var doc DocumentRecord
	var indexedAt string
	if err := s.Scan(&doc.PointID, &doc.SourceID, &doc.DocID, &doc.Position, &doc.Text, &doc.Hash, &indexedAt); err != nil {
		return nil, err
	}
	t, err := parseTimestamp(indexedAt)
	if err != nil {
		return nil, err
	}
	doc.IndexedAt = t
	return &doc, nil
}
