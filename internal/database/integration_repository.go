package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/autobrief/autobrief/internal/models"
)

// PostgresIntegrationRepository implements store.IntegrationRepository using
// PostgreSQL.
type PostgresIntegrationRepository struct {
	db *sql.DB
}

// NewPostgresIntegrationRepository creates a new PostgreSQL integration
// repository.
func NewPostgresIntegrationRepository(db *sql.DB) *PostgresIntegrationRepository {
	return &PostgresIntegrationRepository{db: db}
}

// Upsert creates or updates an integration by (userID, provider).
func (r *PostgresIntegrationRepository) Upsert(ctx context.Context, integration *models.Integration) error {
	if integration.ID == "" {
		integration.ID = uuid.NewString()
	}
	now := time.Now()
	if integration.CreatedAt.IsZero() {
		integration.CreatedAt = now
	}
	integration.UpdatedAt = now

	metadataJSON, err := json.Marshal(integration.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO integrations (
			id, user_id, provider, is_connected, access_token, refresh_token,
			provider_username, last_sync_at, metadata, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, provider) DO UPDATE SET
			is_connected = EXCLUDED.is_connected,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			provider_username = EXCLUDED.provider_username,
			metadata = EXCLUDED.metadata,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	err = r.db.QueryRowContext(ctx, query,
		integration.ID,
		integration.UserID,
		integration.Provider,
		integration.IsConnected,
		integration.AccessToken,
		integration.RefreshToken,
		integration.ProviderUsername,
		integration.LastSyncAt,
		metadataJSON,
		integration.CreatedAt,
		integration.UpdatedAt,
	).Scan(&integration.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert integration: %w", err)
	}
	return nil
}

// ListByUser retrieves all of a user's integrations.
func (r *PostgresIntegrationRepository) ListByUser(ctx context.Context, userID int) ([]models.Integration, error) {
	query := `
		SELECT id, user_id, provider, is_connected, access_token, refresh_token,
		       provider_username, last_sync_at, metadata, created_at, updated_at
		FROM integrations
		WHERE user_id = $1
		ORDER BY provider
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query integrations: %w", err)
	}
	defer rows.Close()

	var integrations []models.Integration
	for rows.Next() {
		var integration models.Integration
		var username sql.NullString
		var lastSync sql.NullTime
		var metadataJSON []byte

		err := rows.Scan(
			&integration.ID,
			&integration.UserID,
			&integration.Provider,
			&integration.IsConnected,
			&integration.AccessToken,
			&integration.RefreshToken,
			&username,
			&lastSync,
			&metadataJSON,
			&integration.CreatedAt,
			&integration.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan integration: %w", err)
		}

		integration.ProviderUsername = username.String
		if lastSync.Valid {
			t := lastSync.Time
			integration.LastSyncAt = &t
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &integration.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}
		integrations = append(integrations, integration)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read integrations: %w", err)
	}
	return integrations, nil
}

// ListConnectedUserIDs returns users with at least one connected integration.
func (r *PostgresIntegrationRepository) ListConnectedUserIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT user_id FROM integrations
		WHERE is_connected = true
		ORDER BY user_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query connected users: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read connected users: %w", err)
	}
	return ids, nil
}

// UpdateLastSync records a successful sync time.
func (r *PostgresIntegrationRepository) UpdateLastSync(ctx context.Context, integrationID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE integrations SET last_sync_at = $2, updated_at = $2 WHERE id = $1
	`, integrationID, at)
	if err != nil {
		return fmt.Errorf("failed to update last sync: %w", err)
	}
	return nil
}
