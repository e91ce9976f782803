// Package files records and lists metadata about uploaded files.
package files

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/filedrop/service/internal/errdefs"
)

// FileRecord is one uploaded file. Rows are insert-only.
type FileRecord struct {
	ID        int64     `json:"id"         example:"42"`
	FileName  string    `json:"file_name"  example:"report.pdf"`
	FileURL   string    `json:"file_url"   example:"http://localhost:9000/files/uploads/1760700000000-report.pdf"`
	FileSize  *int64    `json:"file_size"  example:"52133"`
	CreatedAt time.Time `json:"created_at" example:"2026-10-17T14:48:34Z"`
}

// DBTX is the query surface of *pgxpool.Pool used by the repository.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository handles all file_upload database operations.
type Repository struct {
	db DBTX
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// Create inserts a new row and returns it with the store-assigned id and timestamp.
func (r *Repository) Create(ctx context.Context, name, url string, size *int64) (*FileRecord, error) {
	f := &FileRecord{}
	err := r.db.QueryRow(ctx,
		`INSERT INTO file_upload (file_name, file_url, file_size)
		 VALUES ($1, $2, $3)
		 RETURNING id, file_name, file_url, file_size, created_at`,
		name, url, size,
	).Scan(&f.ID, &f.FileName, &f.FileURL, &f.FileSize, &f.CreatedAt)
	if err != nil {
		return nil, errdefs.Operation("insert file", err)
	}
	return f, nil
}

// List returns every row, most recent first. An empty table yields an
// empty, non-nil slice.
func (r *Repository) List(ctx context.Context) ([]FileRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, file_name, file_url, file_size, created_at
		 FROM file_upload
		 ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, errdefs.Operation("list files", err)
	}
	defer rows.Close()

	out := []FileRecord{}
	for rows.Next() {
		var f FileRecord
		if err := rows.Scan(&f.ID, &f.FileName, &f.FileURL, &f.FileSize, &f.CreatedAt); err != nil {
			return nil, errdefs.Operation("scan file", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, errdefs.Operation("list files", err)
	}
	return out, nil
}

// GetByID fetches a single row.
func (r *Repository) GetByID(ctx context.Context, id int64) (*FileRecord, error) {
	f := &FileRecord{}
	err := r.db.QueryRow(ctx,
		`SELECT id, file_name, file_url, file_size, created_at
		 FROM file_upload WHERE id = $1`,
		id,
	).Scan(&f.ID, &f.FileName, &f.FileURL, &f.FileSize, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("file %d: %w", id, errdefs.ErrNotFound)
	}
	if err != nil {
		return nil, errdefs.Operation("get file", err)
	}
	return f, nil
}
