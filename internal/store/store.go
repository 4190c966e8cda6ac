package store

import (
	"context"
	"time"

	"github.com/autobrief/autobrief/internal/models"
)

// ActivityRepository defines the interface for storing and retrieving
// normalized activity records.
type ActivityRepository interface {
	// Create stores a single activity record.
	Create(ctx context.Context, record models.ActivityRecord) error

	// CreateBatch stores multiple activity records in a single operation.
	CreateBatch(ctx context.Context, records []models.ActivityRecord) error

	// GetByDateRange retrieves a user's activities with timestamps in
	// [start, end], sorted by timestamp descending.
	GetByDateRange(ctx context.Context, userID int, start, end time.Time) ([]models.ActivityRecord, error)

	// ListRecent retrieves a user's most recent activities, sorted by
	// timestamp descending, capped at limit.
	ListRecent(ctx context.Context, userID int, limit int) ([]models.ActivityRecord, error)

	// ExistsExternal checks whether a record with the given identity tuple
	// already exists. Adapters use this to honor the dedup precondition;
	// the aggregation engine never calls it.
	ExistsExternal(ctx context.Context, userID int, activityType models.ActivityType, externalID string) (bool, error)

	// DeleteByIntegration removes all records produced by one integration.
	// Adapters may delete-and-recreate on a full re-sync.
	DeleteByIntegration(ctx context.Context, integrationID string) error

	// Count returns the total number of records for a user.
	Count(ctx context.Context, userID int) (int, error)
}

// IntegrationRepository defines the interface for connected-account records.
type IntegrationRepository interface {
	// Upsert creates or updates an integration by (userID, provider).
	Upsert(ctx context.Context, integration *models.Integration) error

	// ListByUser retrieves all of a user's integrations.
	ListByUser(ctx context.Context, userID int) ([]models.Integration, error)

	// ListConnectedUserIDs returns the IDs of every user with at least one
	// connected integration. The daily batch iterates this set.
	ListConnectedUserIDs(ctx context.Context) ([]int, error)

	// UpdateLastSync records a successful adapter sync.
	UpdateLastSync(ctx context.Context, integrationID string, at time.Time) error
}

// SummaryRepository defines the interface for persisted daily summaries.
type SummaryRepository interface {
	// Upsert creates or replaces the summary for (userID, date).
	Upsert(ctx context.Context, summary *models.DailySummary) error

	// GetByDate retrieves the summary for one user and calendar date.
	// Returns nil when no summary exists.
	GetByDate(ctx context.Context, userID int, date string) (*models.DailySummary, error)

	// ListByUser retrieves a user's summaries, newest date first.
	ListByUser(ctx context.Context, userID int, limit int) ([]models.DailySummary, error)
}

// UserRepository defines the interface for login accounts.
type UserRepository interface {
	// Create stores a new user. The repository assigns the ID.
	Create(ctx context.Context, user *models.User) error

	// GetByEmail retrieves a user by email. Returns nil when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// ProfileRepository defines the interface for user profiles.
type ProfileRepository interface {
	// Get retrieves a profile by user ID. Returns nil when absent.
	Get(ctx context.Context, userID int) (*models.UserProfile, error)

	// Upsert creates or updates a profile.
	Upsert(ctx context.Context, profile *models.UserProfile) error
}
