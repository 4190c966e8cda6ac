package models

import (
	"time"
)

// User is a login account. Profile preferences live separately in
// UserProfile, keyed by the same ID.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
