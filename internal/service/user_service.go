package service

import (
	"context"
	"fmt"

	"postboard/internal/models"
	"postboard/internal/repository"
)

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer mints a token for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// RegisterParams carries the fields accepted at registration.
type RegisterParams struct {
	Username  string
	Password  string
	Age       *int
	FirstName *string
	LastName  *string
}

// UserService handles registration and login.
type UserService struct {
	users  repository.Users
	hasher PasswordHasher
	issuer TokenIssuer
}

func NewUserService(users repository.Users, hasher PasswordHasher, issuer TokenIssuer) *UserService {
	return &UserService{users: users, hasher: hasher, issuer: issuer}
}

// Register hashes the password and creates a new user.
// A taken username is reported as repository.ErrDuplicate.
func (s *UserService) Register(ctx context.Context, p RegisterParams) (models.User, error) {
	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return models.User{}, err
	}
	return s.users.Create(ctx, models.User{
		Username:     p.Username,
		PasswordHash: hash,
		Age:          p.Age,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
	})
}

// Login checks credentials and returns a signed token.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if u == nil {
		return "", ErrInvalidCredentials
	}

	// a corrupt stored hash is reported the same way as a wrong password
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.issuer.Issue(u.ID)
}
