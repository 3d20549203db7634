package models

import "time"

// Post activity event types.
const (
	EventPostCreated = "CREATED"
	EventPostUpdated = "UPDATED"
	EventPostDeleted = "DELETED"
)

// PostEvent is a single activity log entry.
type PostEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"` // CREATED | UPDATED | DELETED
	PostID      string    `json:"post_id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
