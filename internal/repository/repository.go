package repository

import (
	"context"
	"database/sql"
	"time"

	"postboard/internal/models"
)

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type Posts interface {
	Create(ctx context.Context, p models.Post) (models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	ListByUser(ctx context.Context, userID string) ([]models.Post, error)
	UpdateContent(ctx context.Context, id, content string) error
	Delete(ctx context.Context, id string) error
}

// EventFilter narrows an activity listing.
type EventFilter struct {
	UserID string
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	Type   string
}

type EventRepo interface {
	Append(ctx context.Context, e models.PostEvent) error
	List(ctx context.Context, f EventFilter) ([]models.PostEvent, error)
}

type Repository struct {
	Users  Users
	Posts  Posts
	Events EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Users:  NewUserRepository(db),
		Posts:  NewPostRepository(db),
		Events: NewEventSQLite(db),
	}
}
