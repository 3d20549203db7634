package service

import (
	"context"

	"postboard/internal/models"
	"postboard/internal/repository"
)

// Authorization covers registration and login.
type Authorization interface {
	Register(ctx context.Context, p RegisterParams) (models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
}

// Identity resolves the caller behind a token.
type Identity interface {
	Resolve(ctx context.Context, token string) *models.User
}

// Posts exposes post CRUD.
type Posts interface {
	Create(ctx context.Context, actor Actor, content string) (AuthoredPost, error)
	Get(ctx context.Context, id string) (AuthoredPost, error)
	List(ctx context.Context) ([]AuthoredPost, error)
	ListByUser(ctx context.Context, userID string) ([]AuthoredPost, error)
	Update(ctx context.Context, actor Actor, id, content string) error
	Delete(ctx context.Context, actor Actor, id string) error
}

// Activity exposes the per-user post activity log.
type Activity interface {
	List(ctx context.Context, f LogFilter) ([]models.PostEvent, error)
}

// Deps are the collaborators the services are built from.
type Deps struct {
	Verifier TokenVerifier
	Issuer   TokenIssuer
	Hasher   PasswordHasher
	Policy   OwnershipPolicy
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Identity
	Posts
	Activity
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, deps Deps) *Service {
	guard := NewOwnershipGuard(deps.Policy, deps.Verifier, repos.Posts)
	return &Service{
		Authorization: NewUserService(repos.Users, deps.Hasher, deps.Issuer),
		Identity:      NewIdentityResolver(deps.Verifier, repos.Users),
		Posts:         NewPostService(repos.Posts, repos.Users, repos.Events, guard),
		Activity:      NewActivityService(repos.Events),
	}
}
