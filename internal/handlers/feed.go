package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"postboard/internal/resolver"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	feedWriteTimeout = 10 * time.Second
	feedPongTimeout  = 60 * time.Second
	feedPingEvery    = feedPongTimeout * 9 / 10
	feedReadLimit    = 4 << 10
	defaultFeedTick  = time.Second
	maxFeedTick      = 10 * time.Second
)

// feedMessage is one frame of the post feed: a "posts" snapshot or an "error".
type feedMessage struct {
	Type  string `json:"type"`
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// TODO: restrict origins once the frontend host is fixed in config
var feedUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// @Summary      Live post feed
// @Description  Upgrades to a websocket and pushes {"type":"posts","data":[...]} snapshots, first immediately and then on every tick. A failed snapshot is reported as {"type":"error","error":msg} before the server closes.
// @Tags         feed
// @Param        interval     query  string  false  "Tick as a Go duration, at most 10s"  example(2s)
// @Param        interval_ms  query  int     false  "Tick in milliseconds, at most 10000"
// @Success      101
// @Router       /ws [get]
func (h *Handler) postFeed(c *gin.Context) {
	tick := h.feedTick(c)

	conn, err := feedUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("feed_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(feedReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(feedPongTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(feedPongTimeout))
	})

	closed := make(chan struct{})
	go h.awaitClose(conn, closed)

	h.streamPosts(c.Request.Context(), conn, tick, closed)
}

// streamPosts writes a snapshot now and one per tick until the client goes
// away or a write fails.
func (h *Handler) streamPosts(ctx context.Context, conn *websocket.Conn, tick time.Duration, closed <-chan struct{}) {
	snapshots := time.NewTicker(tick)
	defer snapshots.Stop()
	pings := time.NewTicker(feedPingEvery)
	defer pings.Stop()

	if !h.pushPosts(ctx, conn) {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-pings.C:
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("feed_ping_failed", "err", err)
				}
				return
			}
		case <-snapshots.C:
			if !h.pushPosts(ctx, conn) {
				return
			}
		}
	}
}

// pushPosts sends the current post list. It reports false when the feed
// should stop: the write failed, or the list could not be read and the
// client has been told why.
func (h *Handler) pushPosts(ctx context.Context, conn *websocket.Conn) bool {
	msg := feedMessage{Type: "posts"}
	posts, err := h.services.Posts.List(ctx)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("feed_list_posts_failed", "err", err)
		}
		msg = feedMessage{Type: "error", Error: err.Error()}
	} else {
		msg.Data = resolver.NewPostResults(posts)
	}

	_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
	if werr := conn.WriteJSON(msg); werr != nil {
		if h.log != nil {
			h.log.Infow("feed_write_failed", "err", werr)
		}
		return false
	}
	return err == nil
}

// awaitClose reads until the client disconnects. Pongs are only processed
// while a read is pending, so this must run for the life of the feed.
func (h *Handler) awaitClose(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("feed_client_gone", "err", err)
			}
			return
		}
	}
}

// feedTick reads ?interval=2s, then ?interval_ms=2000. Out-of-range or
// unparsable values fall back to the handler's configured tick.
func (h *Handler) feedTick(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxFeedTick {
			return d
		}
	}
	if s := c.Query("interval_ms"); s != "" {
		if ms, err := strconv.Atoi(s); err == nil && ms > 0 && time.Duration(ms)*time.Millisecond <= maxFeedTick {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return h.feedInterval
}
