package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/autobrief/autobrief/internal/models"
	"github.com/autobrief/autobrief/internal/store"
)

// defaultLookback bounds the first sync of an integration that has never
// synced before.
const defaultLookback = 24 * time.Hour

// Syncer re-syncs a user's connected integrations through their provider
// adapters and stores the resulting activity records. Deduplication by
// (userID, activityType, externalID) happens here, before storage: the
// aggregation engine downstream never deduplicates.
type Syncer struct {
	adapters     map[models.Provider]Adapter
	activities   store.ActivityRepository
	integrations store.IntegrationRepository
	policy       RetryPolicy
	logger       *slog.Logger
}

// NewSyncer creates a syncer over the given adapters.
func NewSyncer(
	adapters []Adapter,
	activities store.ActivityRepository,
	integrations store.IntegrationRepository,
	logger *slog.Logger,
) *Syncer {
	byProvider := make(map[models.Provider]Adapter, len(adapters))
	for _, adapter := range adapters {
		byProvider[adapter.Provider()] = adapter
	}
	return &Syncer{
		adapters:     byProvider,
		activities:   activities,
		integrations: integrations,
		policy:       DefaultRetryPolicy(),
		logger:       logger,
	}
}

// SyncUser fetches fresh activity for every connected integration the user
// has. A failing integration is logged and skipped so its siblings still
// sync; the joined error is returned for the caller's per-user boundary.
func (s *Syncer) SyncUser(ctx context.Context, userID int) error {
	integrations, err := s.integrations.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list integrations: %w", err)
	}

	var failures []error
	for _, integration := range integrations {
		if !integration.IsConnected {
			continue
		}
		adapter, ok := s.adapters[integration.Provider]
		if !ok {
			s.logger.Warn("no adapter registered for provider",
				"provider", integration.Provider,
				"user_id", userID)
			continue
		}

		if err := s.syncIntegration(ctx, adapter, integration); err != nil {
			s.logger.Error("integration sync failed",
				"provider", integration.Provider,
				"user_id", userID,
				"error", err)
			failures = append(failures, fmt.Errorf("%s: %w", integration.Provider, err))
		}
	}

	return errors.Join(failures...)
}

func (s *Syncer) syncIntegration(ctx context.Context, adapter Adapter, integration models.Integration) error {
	start := time.Now()

	since := start.Add(-defaultLookback)
	if integration.LastSyncAt != nil {
		since = *integration.LastSyncAt
	}

	var fetched []models.ActivityRecord
	err := Retry(ctx, s.policy, func() error {
		var fetchErr error
		fetched, fetchErr = adapter.Fetch(ctx, integration, since)
		if fetchErr != nil {
			return NewRetryableError(fetchErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	fresh, duplicates, err := s.filterKnown(ctx, integration.UserID, fetched)
	if err != nil {
		return fmt.Errorf("dedup check failed: %w", err)
	}

	if len(fresh) > 0 {
		if err := s.activities.CreateBatch(ctx, fresh); err != nil {
			return fmt.Errorf("failed to store activities: %w", err)
		}
	}

	if err := s.integrations.UpdateLastSync(ctx, integration.ID, start); err != nil {
		s.logger.Warn("failed to record last sync time",
			"integration_id", integration.ID,
			"error", err)
	}

	s.logger.Info("integration synced",
		"provider", integration.Provider,
		"user_id", integration.UserID,
		"fetched", len(fetched),
		"new", len(fresh),
		"duplicates", duplicates,
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}

// filterKnown drops records whose identity tuple already exists in the
// store, honoring the append-only dedup precondition.
func (s *Syncer) filterKnown(ctx context.Context, userID int, records []models.ActivityRecord) ([]models.ActivityRecord, int, error) {
	fresh := make([]models.ActivityRecord, 0, len(records))
	seen := make(map[string]bool, len(records))
	duplicates := 0

	for _, rec := range records {
		if seen[rec.Key()] {
			duplicates++
			continue
		}
		seen[rec.Key()] = true

		exists, err := s.activities.ExistsExternal(ctx, userID, rec.ActivityType, rec.ExternalID)
		if err != nil {
			return nil, 0, err
		}
		if exists {
			duplicates++
			continue
		}
		fresh = append(fresh, rec)
	}

	return fresh, duplicates, nil
}

// HealthCheck probes every registered adapter.
func (s *Syncer) HealthCheck(ctx context.Context) map[models.Provider]error {
	results := make(map[models.Provider]error, len(s.adapters))
	for provider, adapter := range s.adapters {
		results[provider] = adapter.HealthCheck(ctx)
	}
	return results
}
