package resolver

import (
	"time"

	"postboard/internal/models"
	"postboard/internal/service"
)

// UserResult is the public view of a user. The password hash never leaves the store.
type UserResult struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Age       *int    `json:"age,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// PostResult is a post with its owner embedded, or an error. Content is set
// on every successful result, even when empty.
type PostResult struct {
	ID        string      `json:"id,omitempty"`
	Content   *string     `json:"content,omitempty"`
	User      *UserResult `json:"user,omitempty"`
	CreatedAt *time.Time  `json:"createdAt,omitempty"`
	UpdatedAt *time.Time  `json:"updatedAt,omitempty"`
	Error     string      `json:"error,omitempty"`
}

func (r PostResult) ErrorMessage() string { return r.Error }

type RegistrationResult struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Error    string `json:"error,omitempty"`
}

func (r RegistrationResult) ErrorMessage() string { return r.Error }

type LoginResult struct {
	Token string `json:"token,omitempty"`
	Error string `json:"error,omitempty"`
}

func (r LoginResult) ErrorMessage() string { return r.Error }

// StatusResult acknowledges a mutation.
type StatusResult struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (r StatusResult) ErrorMessage() string { return r.Error }

const statusDone = "done"

func newUserResult(u *models.User) *UserResult {
	if u == nil {
		return nil
	}
	return &UserResult{
		ID:        u.ID,
		Username:  u.Username,
		Age:       u.Age,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

func newPostResult(p service.AuthoredPost) PostResult {
	created, updated, content := p.CreatedAt, p.UpdatedAt, p.Content
	out := PostResult{
		ID:      p.ID,
		Content: &content,
		User:    newUserResult(p.Author),
	}
	if !created.IsZero() {
		out.CreatedAt = &created
	}
	if !updated.IsZero() {
		out.UpdatedAt = &updated
	}
	return out
}

// NewPostResults converts posts to results; the slice is never nil.
func NewPostResults(posts []service.AuthoredPost) []PostResult {
	out := make([]PostResult, 0, len(posts))
	for _, p := range posts {
		out = append(out, newPostResult(p))
	}
	return out
}
