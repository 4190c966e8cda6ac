package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/autobrief/autobrief/internal/models"
)

// PostgresProfileRepository implements store.ProfileRepository using
// PostgreSQL.
type PostgresProfileRepository struct {
	db *sql.DB
}

// NewPostgresProfileRepository creates a new PostgreSQL profile repository.
func NewPostgresProfileRepository(db *sql.DB) *PostgresProfileRepository {
	return &PostgresProfileRepository{db: db}
}

// Get retrieves a profile by user ID, or nil.
func (r *PostgresProfileRepository) Get(ctx context.Context, userID int) (*models.UserProfile, error) {
	query := `
		SELECT user_id, display_name, email, email_summary, default_tone,
		       default_filter, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	var profile models.UserProfile
	var tone, filter sql.NullString
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.Email,
		&profile.EmailSummary,
		&tone,
		&filter,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile.DefaultTone = models.Tone(tone.String)
	profile.DefaultFilter = models.Filter(filter.String)
	return &profile, nil
}

// Upsert creates or updates a profile.
func (r *PostgresProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	query := `
		INSERT INTO user_profiles (
			user_id, display_name, email, email_summary, default_tone,
			default_filter, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			email = EXCLUDED.email,
			email_summary = EXCLUDED.email_summary,
			default_tone = EXCLUDED.default_tone,
			default_filter = EXCLUDED.default_filter,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query,
		profile.UserID,
		profile.DisplayName,
		profile.Email,
		profile.EmailSummary,
		string(profile.DefaultTone),
		string(profile.DefaultFilter),
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}
	return nil
}
