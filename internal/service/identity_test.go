package service

import (
	"context"
	"errors"
	"testing"

	"postboard/internal/models"
)

func TestIdentityResolver_Resolve(t *testing.T) {
	users := newMemUsers(models.User{ID: "u1", Username: "alice"})
	r := NewIdentityResolver(fakeVerifier{"good": "u1", "ghost": "u404"}, users)

	if u := r.Resolve(context.Background(), "good"); u == nil || u.Username != "alice" {
		t.Fatalf("expected alice, got %+v", u)
	}

	for _, tok := range []string{"", "garbage", "ghost"} {
		if u := r.Resolve(context.Background(), tok); u != nil {
			t.Fatalf("token %q: expected nil, got %+v", tok, u)
		}
	}
}

func TestIdentityResolver_EmptyTokenSkipsStore(t *testing.T) {
	users := newMemUsers()
	r := NewIdentityResolver(fakeVerifier{"": "u1"}, users)

	if u := r.Resolve(context.Background(), ""); u != nil {
		t.Fatalf("expected nil, got %+v", u)
	}
	if users.getByID != 0 {
		t.Fatalf("store consulted %d times", users.getByID)
	}
}

func TestIdentityResolver_StoreErrorIsAbsent(t *testing.T) {
	users := newMemUsers(models.User{ID: "u1"})
	users.getErr = errors.New("db down")
	r := NewIdentityResolver(fakeVerifier{"good": "u1"}, users)

	if u := r.Resolve(context.Background(), "good"); u != nil {
		t.Fatalf("expected nil, got %+v", u)
	}
}
