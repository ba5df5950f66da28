package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRecord struct {
	ID        int
	Title     string
	CreatedAt time.Time
}

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

// Insert stores a task and returns the new record id.
func (r *TaskRepository) Insert(ctx context.Context, title, description string, dueAt *time.Time) (int, error) {
	query := `
        INSERT INTO tasks (title, description, due_at, created_at)
        VALUES ($1, $2, $3, NOW())
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query, title, description, dueAt).Scan(&id)
	return id, err
}

// FindByTitleLike returns the first task whose title contains pattern,
// case-insensitive. Returns nil when nothing matches.
func (r *TaskRepository) FindByTitleLike(ctx context.Context, pattern string) (*TaskRecord, error) {
	query := `
        SELECT id, title, created_at
        FROM tasks
        WHERE title ILIKE '%' || $1 || '%'
        LIMIT 1
    `
	var t TaskRecord
	err := r.db.QueryRow(ctx, query, pattern).Scan(&t.ID, &t.Title, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a task by id.
func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	query := `
        DELETE FROM tasks
        WHERE id = $1
    `
	_, err := r.db.Exec(ctx, query, id)
	return err
}
