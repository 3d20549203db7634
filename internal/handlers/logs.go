package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"postboard/internal/models"
	"postboard/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"
	errTypeInvalid = "invalid 'type'; use CREATED, UPDATED or DELETED"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// logsResponse is the body of GET /api/v1/logs.
type logsResponse struct {
	Count  int                `json:"count"`
	Events []models.PostEvent `json:"events"`
}

func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List post activity
// @Description  Lists the caller's own create/update/delete events. Dates accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'; a date-only 'to' covers the whole day.
// @Tags         logs
// @Produce      json
// @Param        token  query     string  true   "Session token from loginUser"
// @Param        from   query     string  false  "Start of range"  example(2025-08-01)
// @Param        to     query     string  false  "End of range, inclusive"  example(2025-08-31)
// @Param        type   query     string  false  "Event type"  Enums(CREATED,UPDATED,DELETED)
// @Success      200    {object}  logsResponse
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Failure      500    {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	user := c.MustGet(ctxUserKey).(models.User)

	var (
		from, to  time.Time
		eventType = strings.ToUpper(strings.TrimSpace(c.Query("type")))
		err       error
	)
	if qs := c.Query("from"); qs != "" {
		if from, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		if to, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	switch eventType {
	case "", models.EventPostCreated, models.EventPostUpdated, models.EventPostDeleted:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": errTypeInvalid})
		return
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}

	events, err := h.services.Activity.List(c.Request.Context(), service.LogFilter{
		UserID: user.ID,
		From:   from,
		To:     to,
		Type:   eventType,
	})
	if err != nil {
		if h.log != nil {
			h.log.Errorw("logs_list_failed", "err", err, "user_id", user.ID, "from", from, "to", to, "type", eventType)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load activity"})
		return
	}
	if events == nil {
		events = []models.PostEvent{}
	}
	c.JSON(http.StatusOK, logsResponse{Count: len(events), Events: events})
}

var errBadTime = errors.New("invalid time format")

// parseQueryTime accepts RFC3339, 'YYYY-MM-DD HH:MM:SS' and 'YYYY-MM-DD', returning UTC.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w %q", errBadTime, s)
}
