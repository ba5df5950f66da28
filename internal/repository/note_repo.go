package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NoteRecord struct {
	ID        int
	Title     string
	CreatedAt time.Time
}

type NoteRepository struct {
	db *pgxpool.Pool
}

func NewNoteRepository(db *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{db: db}
}

// Insert stores a note and returns the new record id.
func (r *NoteRepository) Insert(ctx context.Context, title, content string) (int, error) {
	query := `
        INSERT INTO notes (title, content, created_at)
        VALUES ($1, $2, NOW())
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query, title, content).Scan(&id)
	return id, err
}

// FindByTitleLike returns the first note whose title contains pattern,
// case-insensitive. Returns nil when nothing matches.
func (r *NoteRepository) FindByTitleLike(ctx context.Context, pattern string) (*NoteRecord, error) {
	query := `
        SELECT id, title, created_at
        FROM notes
        WHERE title ILIKE '%' || $1 || '%'
        LIMIT 1
    `
	var n NoteRecord
	err := r.db.QueryRow(ctx, query, pattern).Scan(&n.ID, &n.Title, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}
