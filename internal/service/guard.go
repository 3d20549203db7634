package service

import (
	"context"
	"fmt"

	"postboard/internal/repository"
)

// OwnershipPolicy selects how the guard decides who may mutate a post.
type OwnershipPolicy string

const (
	// PolicyOwner compares the post's stored owner to the acting user.
	PolicyOwner OwnershipPolicy = "owner"
	// PolicyLiteral compares the token-asserted user id to the target id argument.
	PolicyLiteral OwnershipPolicy = "literal"
)

// ParseOwnershipPolicy maps a config value onto a policy; empty means PolicyOwner.
func ParseOwnershipPolicy(s string) (OwnershipPolicy, error) {
	switch OwnershipPolicy(s) {
	case "", PolicyOwner:
		return PolicyOwner, nil
	case PolicyLiteral:
		return PolicyLiteral, nil
	default:
		return "", fmt.Errorf("unknown ownership policy %q", s)
	}
}

// OwnershipGuard authorizes update/delete of a post by id.
type OwnershipGuard struct {
	policy   OwnershipPolicy
	verifier TokenVerifier
	posts    repository.Posts
}

func NewOwnershipGuard(policy OwnershipPolicy, verifier TokenVerifier, posts repository.Posts) *OwnershipGuard {
	return &OwnershipGuard{policy: policy, verifier: verifier, posts: posts}
}

// Authorize returns nil when actor may mutate the post addressed by targetID.
func (g *OwnershipGuard) Authorize(ctx context.Context, actor Actor, targetID string) error {
	if g.policy == PolicyLiteral {
		asserted, err := g.verifier.Verify(actor.Token)
		if err != nil {
			return ErrAuthentication
		}
		if asserted != targetID {
			return ErrNotOwner
		}
		return nil
	}

	p, err := g.posts.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrPostNotFound
	}
	if p.UserID != actor.User.ID {
		return ErrNotOwner
	}
	return nil
}
