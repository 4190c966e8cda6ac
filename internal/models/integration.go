package models

import (
	"time"
)

// Integration represents a user's connected third-party account.
// Connect/disconnect and token refresh are owned by the OAuth layer;
// the summary pipeline only reads Provider and IsConnected to decide
// which adapters to invoke.
type Integration struct {
	ID               string                 `json:"id"`
	UserID           int                    `json:"user_id"`
	Provider         Provider               `json:"provider"`
	IsConnected      bool                   `json:"is_connected"`
	AccessToken      string                 `json:"-"`
	RefreshToken     string                 `json:"-"`
	ProviderUsername string                 `json:"provider_username,omitempty"`
	LastSyncAt       *time.Time             `json:"last_sync_at,omitempty"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}
