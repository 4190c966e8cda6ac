package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/autobrief/autobrief/internal/models"
	"github.com/google/uuid"
)

// MemoryActivityRepository implements an in-memory activity repository for
// testing/development.
type MemoryActivityRepository struct {
	mu      sync.RWMutex
	records []models.ActivityRecord
}

// NewMemoryActivityRepository creates a new in-memory activity repository.
func NewMemoryActivityRepository() *MemoryActivityRepository {
	return &MemoryActivityRepository{}
}

// Create stores a single activity record.
func (r *MemoryActivityRepository) Create(ctx context.Context, record models.ActivityRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, record)
	return nil
}

// CreateBatch stores multiple activity records.
func (r *MemoryActivityRepository) CreateBatch(ctx context.Context, records []models.ActivityRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, records...)
	return nil
}

// GetByDateRange retrieves activities within [start, end], newest first.
func (r *MemoryActivityRepository) GetByDateRange(ctx context.Context, userID int, start, end time.Time) ([]models.ActivityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.ActivityRecord
	for _, rec := range r.records {
		if rec.UserID != userID {
			continue
		}
		if rec.Timestamp.Before(start) || rec.Timestamp.After(end) {
			continue
		}
		matched = append(matched, rec)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	return matched, nil
}

// ListRecent retrieves the user's most recent activities, newest first.
func (r *MemoryActivityRepository) ListRecent(ctx context.Context, userID int, limit int) ([]models.ActivityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.ActivityRecord
	for _, rec := range r.records {
		if rec.UserID == userID {
			matched = append(matched, rec)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// ExistsExternal checks for a record with the given identity tuple.
func (r *MemoryActivityRepository) ExistsExternal(ctx context.Context, userID int, activityType models.ActivityType, externalID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.records {
		if rec.UserID == userID && rec.ActivityType == activityType && rec.ExternalID == externalID {
			return true, nil
		}
	}
	return false, nil
}

// DeleteByIntegration removes all records for one integration.
func (r *MemoryActivityRepository) DeleteByIntegration(ctx context.Context, integrationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.records[:0]
	for _, rec := range r.records {
		if rec.IntegrationID != integrationID {
			kept = append(kept, rec)
		}
	}
	r.records = kept
	return nil
}

// Count returns the number of records for a user.
func (r *MemoryActivityRepository) Count(ctx context.Context, userID int) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, rec := range r.records {
		if rec.UserID == userID {
			count++
		}
	}
	return count, nil
}

// MemoryIntegrationRepository implements an in-memory integration repository
// for testing/development.
type MemoryIntegrationRepository struct {
	mu           sync.RWMutex
	integrations map[string]models.Integration
}

// NewMemoryIntegrationRepository creates a new in-memory integration repository.
func NewMemoryIntegrationRepository() *MemoryIntegrationRepository {
	return &MemoryIntegrationRepository{
		integrations: make(map[string]models.Integration),
	}
}

// Upsert creates or updates an integration by (userID, provider).
func (r *MemoryIntegrationRepository) Upsert(ctx context.Context, integration *models.Integration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, existing := range r.integrations {
		if existing.UserID == integration.UserID && existing.Provider == integration.Provider {
			integration.ID = id
			r.integrations[id] = *integration
			return nil
		}
	}
	if integration.ID == "" {
		integration.ID = uuid.NewString()
	}
	r.integrations[integration.ID] = *integration
	return nil
}

// ListByUser retrieves all of a user's integrations.
func (r *MemoryIntegrationRepository) ListByUser(ctx context.Context, userID int) ([]models.Integration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Integration
	for _, integration := range r.integrations {
		if integration.UserID == userID {
			matched = append(matched, integration)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Provider < matched[j].Provider
	})
	return matched, nil
}

// ListConnectedUserIDs returns users with at least one connected integration.
func (r *MemoryIntegrationRepository) ListConnectedUserIDs(ctx context.Context) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[int]bool)
	var ids []int
	for _, integration := range r.integrations {
		if integration.IsConnected && !seen[integration.UserID] {
			seen[integration.UserID] = true
			ids = append(ids, integration.UserID)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

// UpdateLastSync records a successful sync time.
func (r *MemoryIntegrationRepository) UpdateLastSync(ctx context.Context, integrationID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	integration, ok := r.integrations[integrationID]
	if !ok {
		return nil
	}
	integration.LastSyncAt = &at
	integration.UpdatedAt = at
	r.integrations[integrationID] = integration
	return nil
}

// MemorySummaryRepository implements an in-memory summary repository for
// testing/development. Upsert keys on (userID, date).
type MemorySummaryRepository struct {
	mu        sync.RWMutex
	summaries map[int]map[string]models.DailySummary
}

// NewMemorySummaryRepository creates a new in-memory summary repository.
func NewMemorySummaryRepository() *MemorySummaryRepository {
	return &MemorySummaryRepository{
		summaries: make(map[int]map[string]models.DailySummary),
	}
}

// Upsert creates or replaces the summary for (userID, date).
func (r *MemorySummaryRepository) Upsert(ctx context.Context, summary *models.DailySummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	byDate, ok := r.summaries[summary.UserID]
	if !ok {
		byDate = make(map[string]models.DailySummary)
		r.summaries[summary.UserID] = byDate
	}
	byDate[summary.Date] = *summary
	return nil
}

// GetByDate retrieves the summary for one user and date, or nil.
func (r *MemorySummaryRepository) GetByDate(ctx context.Context, userID int, date string) (*models.DailySummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary, ok := r.summaries[userID][date]
	if !ok {
		return nil, nil
	}
	return &summary, nil
}

// ListByUser retrieves summaries for a user, newest date first.
func (r *MemorySummaryRepository) ListByUser(ctx context.Context, userID int, limit int) ([]models.DailySummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.DailySummary
	for _, summary := range r.summaries[userID] {
		matched = append(matched, summary)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Date > matched[j].Date
	})
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

// MemoryUserRepository implements an in-memory user repository for
// testing/development.
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[int]models.User
	nextID int
}

// NewMemoryUserRepository creates a new in-memory user repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[int]models.User),
		nextID: 1,
	}
}

// Create stores a new user, assigning the next ID.
func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = *user
	return nil
}

// GetByEmail retrieves a user by email, or nil.
func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, nil
}

// MemoryProfileRepository implements an in-memory profile repository for
// testing/development.
type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[int]models.UserProfile
}

// NewMemoryProfileRepository creates a new in-memory profile repository.
func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{
		profiles: make(map[int]models.UserProfile),
	}
}

// Get retrieves a profile by user ID, or nil.
func (r *MemoryProfileRepository) Get(ctx context.Context, userID int) (*models.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}

// Upsert creates or updates a profile.
func (r *MemoryProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[profile.UserID] = *profile
	return nil
}
