package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"postboard/internal/models"

	"github.com/google/uuid"
)

type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

var _ Posts = (*PostRepository)(nil)

const (
	insertPostSQL = `INSERT INTO posts (id, user_id, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`

	selectPostColumns = `SELECT id, user_id, content, created_at, updated_at FROM posts`
	selectPostByIDSQL = selectPostColumns + ` WHERE id = ?`
	selectPostsSQL    = selectPostColumns + ` ORDER BY created_at ASC, id ASC`
	selectPostsByUser = selectPostColumns + ` WHERE user_id = ? ORDER BY created_at ASC, id ASC`
	updatePostContent = `UPDATE posts SET content = ?, updated_at = ? WHERE id = ?`
	deletePostByIDSQL = `DELETE FROM posts WHERE id = ?`
)

// Create inserts a post owned by p.UserID and returns it with ID and timestamps set.
func (r *PostRepository) Create(ctx context.Context, p models.Post) (models.Post, error) {
	now := time.Now().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := r.db.ExecContext(ctx, insertPostSQL, p.ID, p.UserID, p.Content, p.CreatedAt, p.UpdatedAt); err != nil {
		return models.Post{}, fmt.Errorf("insert post: %w", err)
	}
	return p, nil
}

// GetByID fetches a post. Returns (nil, nil) if not found.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	err := r.db.QueryRowContext(ctx, selectPostByIDSQL, id).
		Scan(&p.ID, &p.UserID, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select post %q: %w", id, err)
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}

// List returns every post, oldest first.
func (r *PostRepository) List(ctx context.Context) ([]models.Post, error) {
	return r.query(ctx, selectPostsSQL)
}

// ListByUser returns the posts owned by userID, oldest first.
func (r *PostRepository) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	return r.query(ctx, selectPostsByUser, userID)
}

// UpdateContent replaces the content of a post. ErrNotFound if no row matched.
func (r *PostRepository) UpdateContent(ctx context.Context, id, content string) error {
	res, err := r.db.ExecContext(ctx, updatePostContent, content, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update post %q: %w", id, err)
	}
	return expectAffected(res, id)
}

// Delete removes a post. ErrNotFound if no row matched.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deletePostByIDSQL, id)
	if err != nil {
		return fmt.Errorf("delete post %q: %w", id, err)
	}
	return expectAffected(res, id)
}

func (r *PostRepository) query(ctx context.Context, q string, args ...any) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select posts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Post, 0, 16)
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Content, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		p.UpdatedAt = p.UpdatedAt.UTC()
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return out, nil
}

func expectAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for post %q: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
