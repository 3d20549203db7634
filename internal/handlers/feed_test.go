package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"postboard/internal/models"
	"postboard/internal/resolver"
	"postboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func TestFeedTick(t *testing.T) {
	h := newTestHandler(&service.Service{})

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, tc.u, nil)
			if got := h.feedTick(c); got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

func TestFeedTick_ConfiguredDefault(t *testing.T) {
	h := newTestHandler(&service.Service{}, WithFeedInterval(3*time.Second))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/ws", nil)
	if got := h.feedTick(c); got != 3*time.Second {
		t.Fatalf("got %v", got)
	}
}

func dialFeed(t *testing.T, s *service.Service, query url.Values) *websocket.Conn {
	t.Helper()
	r := gin.New()
	h := newTestHandler(s)
	r.GET("/ws", h.postFeed)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query.Encode()

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestWebSocket_PostStream_InitialAndPeriodic(t *testing.T) {
	a := alice()
	posts := &mockPosts{list: []service.AuthoredPost{
		{Post: models.Post{ID: "p1", UserID: a.ID, Content: "hello"}, Author: &a},
	}}
	conn := dialFeed(t, &service.Service{Posts: posts}, url.Values{"interval_ms": {"20"}})

	type envelope struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Error string          `json:"error"`
	}

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "posts" {
		t.Fatalf("bad envelope: %+v", env)
	}
	var got []resolver.PostResult
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("unmarshal posts: %v", err)
	}
	if len(got) != 1 || got[0].Content == nil || *got[0].Content != "hello" || got[0].User == nil || got[0].User.Username != "alice" {
		t.Fatalf("unexpected posts: %+v", got)
	}

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "posts" {
		t.Fatalf("expected type=posts, got %+v", env)
	}
}

func TestWebSocket_EmptyFeedSendsArray(t *testing.T) {
	conn := dialFeed(t, &service.Service{Posts: &mockPosts{}}, nil)

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != "{\"type\":\"posts\",\"data\":[]}\n" {
		t.Fatalf("message = %q", msg)
	}
}

func TestWebSocket_ListError_ReportsAndCloses(t *testing.T) {
	conn := dialFeed(t, &service.Service{Posts: &mockPosts{listErr: errors.New("boom")}}, nil)

	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(msg) != "{\"type\":\"error\",\"data\":null,\"error\":\"boom\"}\n" {
		t.Fatalf("message = %q", msg)
	}

	// the server closes after reporting the failure
	_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	if _, raw, err := conn.ReadMessage(); err == nil {
		t.Fatalf("expected read error (closed), got message: %s", raw)
	}
}
