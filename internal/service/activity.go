package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"postboard/internal/models"
	"postboard/internal/repository"
)

// LogFilter supports activity filtering by time range and type for one user.
type LogFilter struct {
	UserID string
	From   time.Time // inclusive; zero means no lower bound
	To     time.Time // inclusive; zero means no upper bound
	Type   string    // "", "CREATED", "UPDATED", "DELETED"
}

type ActivityService struct {
	eventRepo repository.EventRepo
}

func NewActivityService(eventRepo repository.EventRepo) *ActivityService {
	return &ActivityService{eventRepo: eventRepo}
}

var (
	errInvalidTimeRange = errors.New("invalid time range: From must be <= To")
	errMissingUser      = errors.New("activity listing requires a user")
	errUnknownEventType = errors.New("unknown event type: must be CREATED, UPDATED or DELETED")
)

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates them.
func normalizeAndValidateFilter(f LogFilter) (repository.EventFilter, error) {
	if f.UserID == "" {
		return repository.EventFilter{}, errMissingUser
	}
	from := normalizeToUTC(f.From)
	to := normalizeToUTC(f.To)
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return repository.EventFilter{}, errInvalidTimeRange
	}

	typ := normalizeEventType(f.Type)
	switch typ {
	case "", models.EventPostCreated, models.EventPostUpdated, models.EventPostDeleted:
	default:
		return repository.EventFilter{}, errUnknownEventType
	}

	return repository.EventFilter{UserID: f.UserID, From: from, To: to, Type: typ}, nil
}

// List returns the user's activity matching f.
func (s *ActivityService) List(ctx context.Context, f LogFilter) ([]models.PostEvent, error) {
	filter, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.List(ctx, filter)
}
