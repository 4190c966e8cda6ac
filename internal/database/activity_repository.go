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

// PostgresActivityRepository implements store.ActivityRepository using
// PostgreSQL.
type PostgresActivityRepository struct {
	db *sql.DB
}

// NewPostgresActivityRepository creates a new PostgreSQL activity repository.
func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

const activityColumns = `id, user_id, integration_id, provider, activity_type,
	title, description, external_id, metadata, timestamp, created_at`

// Create inserts a single activity record.
func (r *PostgresActivityRepository) Create(ctx context.Context, record models.ActivityRecord) error {
	return r.insert(ctx, r.db, record)
}

// CreateBatch inserts multiple activity records in one transaction.
func (r *PostgresActivityRepository) CreateBatch(ctx context.Context, records []models.ActivityRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, record := range records {
		if err := r.insert(ctx, tx, record); err != nil {
			return err
		}
	}

	return tx.Commit()
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (r *PostgresActivityRepository) insert(ctx context.Context, ex execer, record models.ActivityRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO activities (
			id, user_id, integration_id, provider, activity_type,
			title, description, external_id, metadata, timestamp, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err = ex.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		record.IntegrationID,
		record.Provider,
		record.ActivityType,
		record.Title,
		record.Description,
		record.ExternalID,
		metadataJSON,
		record.Timestamp,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// GetByDateRange retrieves activities within [start, end], newest first.
func (r *PostgresActivityRepository) GetByDateRange(ctx context.Context, userID int, start, end time.Time) ([]models.ActivityRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM activities
		WHERE user_id = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp DESC
	`, activityColumns)

	rows, err := r.db.QueryContext(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ListRecent retrieves the user's most recent activities, newest first.
func (r *PostgresActivityRepository) ListRecent(ctx context.Context, userID int, limit int) ([]models.ActivityRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM activities
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`, activityColumns)

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent activities: %w", err)
	}
	defer rows.Close()

	return scanActivities(rows)
}

// ExistsExternal checks for a record with the given identity tuple.
func (r *PostgresActivityRepository) ExistsExternal(ctx context.Context, userID int, activityType models.ActivityType, externalID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM activities
			WHERE user_id = $1 AND activity_type = $2 AND external_id = $3
		)
	`, userID, activityType, externalID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check activity existence: %w", err)
	}
	return exists, nil
}

// DeleteByIntegration removes all records for one integration.
func (r *PostgresActivityRepository) DeleteByIntegration(ctx context.Context, integrationID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM activities WHERE integration_id = $1", integrationID)
	if err != nil {
		return fmt.Errorf("failed to delete activities: %w", err)
	}
	return nil
}

// Count returns the number of records for a user.
func (r *PostgresActivityRepository) Count(ctx context.Context, userID int) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activities WHERE user_id = $1", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}

func scanActivities(rows *sql.Rows) ([]models.ActivityRecord, error) {
	var records []models.ActivityRecord
	for rows.Next() {
		var record models.ActivityRecord
		var metadataJSON []byte
		var description sql.NullString

		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.IntegrationID,
			&record.Provider,
			&record.ActivityType,
			&record.Title,
			&description,
			&record.ExternalID,
			&metadataJSON,
			&record.Timestamp,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}

		record.Description = description.String
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activities: %w", err)
	}
	return records, nil
}
