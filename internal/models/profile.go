package models

import (
	"time"
)

// UserProfile holds the dashboard user's identity and delivery settings.
type UserProfile struct {
	UserID        int       `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	Email         string    `json:"email"`
	EmailSummary  bool      `json:"email_summary"` // receive the daily email
	DefaultTone   Tone      `json:"default_tone"`
	DefaultFilter Filter    `json:"default_filter"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
