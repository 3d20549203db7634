package service

import (
	"context"

	"postboard/internal/models"
	"postboard/internal/repository"
)

// TokenVerifier extracts the user id asserted by a token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	User  models.User
	Token string
}

// IdentityResolver turns a token into a store-confirmed user.
type IdentityResolver struct {
	verifier TokenVerifier
	users    repository.Users
}

func NewIdentityResolver(verifier TokenVerifier, users repository.Users) *IdentityResolver {
	return &IdentityResolver{verifier: verifier, users: users}
}

// Resolve returns the user asserted by token, or nil when the token does not
// verify, the user no longer exists, or the lookup fails.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) *models.User {
	if token == "" {
		return nil
	}
	userID, err := r.verifier.Verify(token)
	if err != nil {
		return nil
	}
	u, err := r.users.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil
	}
	return u
}
