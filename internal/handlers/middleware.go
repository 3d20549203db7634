package handlers

import (
	"net/http"

	"postboard/internal/service"

	"github.com/gin-gonic/gin"
)

const ctxUserKey = "user"

// tokenMiddleware resolves the explicit ?token= argument into a user.
func (h *Handler) tokenMiddleware(c *gin.Context) {
	token := c.Query("token")
	u := h.services.Identity.Resolve(c.Request.Context(), token)
	if u == nil {
		if h.log != nil && token != "" {
			h.log.Infow("auth_token_rejected", "path", c.FullPath())
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": service.ErrAuthentication.Error(),
		})
		return
	}

	c.Set(ctxUserKey, *u)
	c.Next()
}
