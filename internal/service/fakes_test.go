package service

import (
	"context"
	"errors"
	"sync"

	"postboard/internal/models"
	"postboard/internal/repository"

	"github.com/google/uuid"
)

// memUsers is an in-memory repository.Users.
type memUsers struct {
	mu      sync.Mutex
	byID    map[string]models.User
	getErr  error
	getByID int
}

func newMemUsers(users ...models.User) *memUsers {
	m := &memUsers{byID: map[string]models.User{}}
	for _, u := range users {
		m.byID[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(ctx context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Username == u.Username {
			return models.User{}, repository.ErrDuplicate
		}
	}
	u.ID = uuid.NewString()
	m.byID[u.ID] = u
	return u, nil
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getByID++
	if m.getErr != nil {
		return nil, m.getErr
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.byID {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

// memPosts is an in-memory repository.Posts.
type memPosts struct {
	mu      sync.Mutex
	order   []string
	byID    map[string]models.Post
	err     error
	updates int
	deletes int
}

func newMemPosts(posts ...models.Post) *memPosts {
	m := &memPosts{byID: map[string]models.Post{}}
	for _, p := range posts {
		m.byID[p.ID] = p
		m.order = append(m.order, p.ID)
	}
	return m
}

func (m *memPosts) Create(ctx context.Context, p models.Post) (models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return models.Post{}, m.err
	}
	p.ID = uuid.NewString()
	m.byID[p.ID] = p
	m.order = append(m.order, p.ID)
	return p, nil
}

func (m *memPosts) GetByID(ctx context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memPosts) List(ctx context.Context) ([]models.Post, error) {
	return m.filter(func(models.Post) bool { return true })
}

func (m *memPosts) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	return m.filter(func(p models.Post) bool { return p.UserID == userID })
}

func (m *memPosts) filter(keep func(models.Post) bool) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []models.Post{}
	for _, id := range m.order {
		if p, ok := m.byID[id]; ok && keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPosts) UpdateContent(ctx context.Context, id, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates++
	p, ok := m.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Content = content
	m.byID[id] = p
	return nil
}

func (m *memPosts) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes++
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// fakeEventRepo is a minimal stub that satisfies the repository.EventRepo interface.
type fakeEventRepo struct {
	// captured inputs
	got      repository.EventFilter
	appended []models.PostEvent

	// configured outputs
	events    []models.PostEvent
	err       error
	appendErr error

	calls int
}

func (f *fakeEventRepo) List(ctx context.Context, filter repository.EventFilter) ([]models.PostEvent, error) {
	f.calls++
	f.got = filter
	return f.events, f.err
}

func (f *fakeEventRepo) Append(ctx context.Context, e models.PostEvent) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended = append(f.appended, e)
	return nil
}

// fakeVerifier maps known tokens to user ids.
type fakeVerifier map[string]string

func (f fakeVerifier) Verify(token string) (string, error) {
	if id, ok := f[token]; ok {
		return id, nil
	}
	return "", errors.New("invalid token")
}

// plainHasher stores passwords with a visible prefix.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	return "hashed:" + password, nil
}

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// echoIssuer mints "token-<id>".
type echoIssuer struct{ err error }

func (i echoIssuer) Issue(userID string) (string, error) {
	if i.err != nil {
		return "", i.err
	}
	return "token-" + userID, nil
}
