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

// PostgresSummaryRepository implements store.SummaryRepository using
// PostgreSQL.
type PostgresSummaryRepository struct {
	db *sql.DB
}

// NewPostgresSummaryRepository creates a new PostgreSQL summary repository.
func NewPostgresSummaryRepository(db *sql.DB) *PostgresSummaryRepository {
	return &PostgresSummaryRepository{db: db}
}

// Upsert creates or replaces the summary for (userID, date).
func (r *PostgresSummaryRepository) Upsert(ctx context.Context, summary *models.DailySummary) error {
	if summary.ID == "" {
		summary.ID = uuid.NewString()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}

	metadataJSON, err := json.Marshal(summary.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `
		INSERT INTO daily_summaries (
			id, user_id, date, summary, tasks_completed, meetings_attended,
			code_commits, blockers, metadata, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, date) DO UPDATE SET
			summary = EXCLUDED.summary,
			tasks_completed = EXCLUDED.tasks_completed,
			meetings_attended = EXCLUDED.meetings_attended,
			code_commits = EXCLUDED.code_commits,
			blockers = EXCLUDED.blockers,
			metadata = EXCLUDED.metadata,
			created_at = EXCLUDED.created_at
		RETURNING id
	`

	err = r.db.QueryRowContext(ctx, query,
		summary.ID,
		summary.UserID,
		summary.Date,
		summary.Summary,
		summary.TasksCompleted,
		summary.MeetingsAttended,
		summary.CodeCommits,
		summary.Blockers,
		metadataJSON,
		summary.CreatedAt,
	).Scan(&summary.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert summary: %w", err)
	}
	return nil
}

// GetByDate retrieves the summary for one user and date, or nil.
func (r *PostgresSummaryRepository) GetByDate(ctx context.Context, userID int, date string) (*models.DailySummary, error) {
	query := `
		SELECT id, user_id, date, summary, tasks_completed, meetings_attended,
		       code_commits, blockers, metadata, created_at
		FROM daily_summaries
		WHERE user_id = $1 AND date = $2
	`

	summary, err := scanSummary(r.db.QueryRowContext(ctx, query, userID, date))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	return summary, nil
}

// ListByUser retrieves summaries for a user, newest date first.
func (r *PostgresSummaryRepository) ListByUser(ctx context.Context, userID int, limit int) ([]models.DailySummary, error) {
	query := `
		SELECT id, user_id, date, summary, tasks_completed, meetings_attended,
		       code_commits, blockers, metadata, created_at
		FROM daily_summaries
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []models.DailySummary
	for rows.Next() {
		summary, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		summaries = append(summaries, *summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read summaries: %w", err)
	}
	return summaries, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSummary(row rowScanner) (*models.DailySummary, error) {
	var summary models.DailySummary
	var metadataJSON []byte

	err := row.Scan(
		&summary.ID,
		&summary.UserID,
		&summary.Date,
		&summary.Summary,
		&summary.TasksCompleted,
		&summary.MeetingsAttended,
		&summary.CodeCommits,
		&summary.Blockers,
		&metadataJSON,
		&summary.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &summary.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return &summary, nil
}
