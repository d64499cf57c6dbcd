package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SourceRepo provides methods for corpus source operations.
type SourceRepo struct {
	db *sql.DB
}

// NewSourceRepo creates a new SourceRepo.
func NewSourceRepo(db *sql.DB) *SourceRepo {
	return &SourceRepo{db: db}
}

// GetOrCreateByName gets an existing source by name, or creates it if it doesn't exist.
func (r *SourceRepo) GetOrCreateByName(ctx context.Context, name, path string) (Source, error) {
	source, err := r.getByName(ctx, name)
	if err == nil {
		return source, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Source{}, err
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO sources (name, path) VALUES (?, ?) ON CONFLICT(name) DO NOTHING",
		name, path,
	)
	if err != nil {
		return Source{}, fmt.Errorf("failed to insert source: %w", err)
	}

	return r.getByName(ctx, name)
}

// ListAll returns all sources ordered by name.
func (r *SourceRepo) ListAll(ctx context.Context) ([]Source, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, path, created_at FROM sources ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var sources []Source
	for rows.Next() {
		var source Source
		var createdAt string
		if err := rows.Scan(&source.ID, &source.Name, &source.Path, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		if source.CreatedAt, err = parseTimestamp(createdAt); err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sources, nil
}

func (r *SourceRepo) getByName(ctx context.Context, name string) (Source, error) {
	var source Source
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, path, created_at FROM sources WHERE name = ?",
		name,
	).Scan(&source.ID, &source.Name, &source.Path, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Source{}, ErrNotFound
	}
	if err != nil {
		return Source{}, fmt.Errorf("failed to query source: %w", err)
	}

	if source.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return Source{}, err
	}
	return source, nil
}

// parseTimestamp reads a SQLite DATETIME column, which may come back in either layout.
func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}
