package handlers

import (
	"context"
	"net/url"
	"time"

	"postboard/internal/dispatch"
	"postboard/internal/models"
	"postboard/internal/resolver"
	"postboard/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser models.User
	registerErr  error
	loginToken   string
	loginErr     error

	lastUsername string
	lastPassword string
}

func (m *mockAuth) Register(ctx context.Context, p service.RegisterParams) (models.User, error) {
	m.lastUsername = p.Username
	m.lastPassword = p.Password
	return m.registerUser, m.registerErr
}

func (m *mockAuth) Login(ctx context.Context, username, password string) (string, error) {
	m.lastUsername = username
	m.lastPassword = password
	return m.loginToken, m.loginErr
}

// mockIdentity resolves tokens from a fixed table.
type mockIdentity struct {
	users     map[string]models.User
	lastToken string
}

func (m *mockIdentity) Resolve(ctx context.Context, token string) *models.User {
	m.lastToken = token
	u, ok := m.users[token]
	if !ok {
		return nil
	}
	return &u
}

type mockPosts struct {
	list    []service.AuthoredPost
	listErr error
	created service.AuthoredPost
	err     error

	lastActor   service.Actor
	lastID      string
	lastContent string
}

func (m *mockPosts) Create(ctx context.Context, actor service.Actor, content string) (service.AuthoredPost, error) {
	m.lastActor, m.lastContent = actor, content
	return m.created, m.err
}

func (m *mockPosts) Get(ctx context.Context, id string) (service.AuthoredPost, error) {
	m.lastID = id
	for _, p := range m.list {
		if p.ID == id {
			return p, nil
		}
	}
	return service.AuthoredPost{}, service.ErrPostNotFound
}

func (m *mockPosts) List(ctx context.Context) ([]service.AuthoredPost, error) {
	return m.list, m.listErr
}

func (m *mockPosts) ListByUser(ctx context.Context, userID string) ([]service.AuthoredPost, error) {
	m.lastID = userID
	return m.list, m.listErr
}

func (m *mockPosts) Update(ctx context.Context, actor service.Actor, id, content string) error {
	m.lastActor, m.lastID, m.lastContent = actor, id, content
	return m.err
}

func (m *mockPosts) Delete(ctx context.Context, actor service.Actor, id string) error {
	m.lastActor, m.lastID = actor, id
	return m.err
}

type mockActivity struct {
	resp []models.PostEvent
	err  error
	last service.LogFilter
}

func (m *mockActivity) List(ctx context.Context, f service.LogFilter) ([]models.PostEvent, error) {
	m.last = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestHandler(s *service.Service, opts ...Option) *Handler {
	gin.SetMode(gin.TestMode)
	d := dispatch.New()
	resolver.New(s).Register(d)
	return NewHandler(s, d, nil, opts...)
}

func newTestRouter(s *service.Service, opts ...Option) *gin.Engine {
	return newTestHandler(s, opts...).InitRoutes()
}

func logsURL(token string, params map[string]string) string {
	q := url.Values{}
	if token != "" {
		q.Set("token", token)
	}
	for k, v := range params {
		q.Set(k, v)
	}
	return "/api/v1/logs?" + q.Encode()
}

func alice() models.User {
	return models.User{ID: "u-alice", Username: "alice", CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}
