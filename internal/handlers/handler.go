package handlers

import (
	"net/http"
	"time"

	"postboard/internal/dispatch"
	"postboard/internal/logger"
	"postboard/internal/service"

	"github.com/gin-gonic/gin"

	_ "postboard/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires the HTTP layer to the dispatcher and services.
type Handler struct {
	services   *service.Service
	dispatcher *dispatch.Dispatcher
	log        *logger.Logger

	metrics      http.Handler
	observer     dispatch.Observer
	limiter      *ipLimiter
	feedInterval time.Duration
}

// Option customizes a Handler.
type Option func(*Handler)

// WithMetrics mounts h at /metrics and reports rate-limited requests to obs.
func WithMetrics(h http.Handler, obs dispatch.Observer) Option {
	return func(hd *Handler) {
		hd.metrics = h
		hd.observer = obs
	}
}

// WithRateLimit limits the operation endpoint per client IP; rps <= 0 disables it.
func WithRateLimit(rps float64, burst int) Option {
	return func(hd *Handler) {
		hd.limiter = newIPLimiter(rps, burst)
	}
}

// WithFeedInterval sets the websocket feed tick used when the client gives none.
func WithFeedInterval(d time.Duration) Option {
	return func(hd *Handler) {
		if d > 0 && d <= maxFeedTick {
			hd.feedInterval = d
		}
	}
}

// NewHandler constructs a new HTTP handler with dependencies. log may be nil.
func NewHandler(services *service.Service, d *dispatch.Dispatcher, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services:     services,
		dispatcher:   d,
		log:          log,
		feedInterval: defaultFeedTick,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAPIRoutes(router)

	// live post feed, same port
	router.GET("/ws", h.postFeed)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.POST("/operations", h.rateLimit, h.runOperation)
		api.GET("/logs", h.tokenMiddleware, h.getLogs)
	}
}

// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
