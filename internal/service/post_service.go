package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"postboard/internal/models"
	"postboard/internal/repository"

	"github.com/google/uuid"
)

// AuthoredPost is a post with its owner resolved. Author is nil when the
// owner record is gone.
type AuthoredPost struct {
	models.Post
	Author *models.User
}

// PostService implements post CRUD on top of the store. Mutations go through
// the OwnershipGuard and are recorded in the activity log.
type PostService struct {
	posts  repository.Posts
	users  repository.Users
	events repository.EventRepo
	guard  *OwnershipGuard
}

func NewPostService(posts repository.Posts, users repository.Users, events repository.EventRepo, guard *OwnershipGuard) *PostService {
	return &PostService{posts: posts, users: users, events: events, guard: guard}
}

// Create persists a post owned by actor and returns it with the author attached.
func (s *PostService) Create(ctx context.Context, actor Actor, content string) (AuthoredPost, error) {
	p, err := s.posts.Create(ctx, models.Post{UserID: actor.User.ID, Content: content})
	if err != nil {
		return AuthoredPost{}, err
	}
	if err := s.record(ctx, models.EventPostCreated, p.ID, actor.User.ID, "Post created", map[string]any{"length": len(content)}); err != nil {
		return AuthoredPost{}, err
	}
	author := actor.User
	return AuthoredPost{Post: p, Author: &author}, nil
}

// Get fetches one post with its author resolved.
func (s *PostService) Get(ctx context.Context, id string) (AuthoredPost, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return AuthoredPost{}, err
	}
	if p == nil {
		return AuthoredPost{}, ErrPostNotFound
	}
	out, err := s.withAuthors(ctx, []models.Post{*p})
	if err != nil {
		return AuthoredPost{}, err
	}
	return out[0], nil
}

// List returns every post with authors resolved.
func (s *PostService) List(ctx context.Context) ([]AuthoredPost, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.withAuthors(ctx, posts)
}

// ListByUser returns the posts owned by userID with authors resolved.
func (s *PostService) ListByUser(ctx context.Context, userID string) ([]AuthoredPost, error) {
	posts, err := s.posts.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.withAuthors(ctx, posts)
}

// Update replaces the content of a post the actor is allowed to mutate.
func (s *PostService) Update(ctx context.Context, actor Actor, id, content string) error {
	if err := s.guard.Authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := s.posts.UpdateContent(ctx, id, content); err != nil {
		return notFoundAsPost(err)
	}
	return s.record(ctx, models.EventPostUpdated, id, actor.User.ID, "Post content updated", map[string]any{"length": len(content)})
}

// Delete removes a post the actor is allowed to mutate.
func (s *PostService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := s.guard.Authorize(ctx, actor, id); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return notFoundAsPost(err)
	}
	return s.record(ctx, models.EventPostDeleted, id, actor.User.ID, "Post deleted", nil)
}

// withAuthors resolves owners, looking each distinct user up once.
func (s *PostService) withAuthors(ctx context.Context, posts []models.Post) ([]AuthoredPost, error) {
	seen := make(map[string]*models.User, len(posts))
	out := make([]AuthoredPost, 0, len(posts))
	for _, p := range posts {
		author, ok := seen[p.UserID]
		if !ok {
			u, err := s.users.GetByID(ctx, p.UserID)
			if err != nil {
				return nil, err
			}
			author = u
			seen[p.UserID] = u
		}
		out = append(out, AuthoredPost{Post: p, Author: author})
	}
	return out, nil
}

func (s *PostService) record(ctx context.Context, typ, postID, userID, desc string, meta map[string]any) error {
	ev := models.PostEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		PostID:      postID,
		UserID:      userID,
		Description: desc,
	}
	if meta != nil {
		ev.Metadata = meta
	}
	if err := s.events.Append(ctx, ev); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

func notFoundAsPost(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPostNotFound
	}
	return err
}
