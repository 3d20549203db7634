package models

import "time"

// Post is a short text owned by exactly one user.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"` // owner, relational link only
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
