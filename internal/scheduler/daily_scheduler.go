package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/autobrief/autobrief/internal/briefing"
	"github.com/autobrief/autobrief/internal/delivery"
	"github.com/autobrief/autobrief/internal/metrics"
	"github.com/autobrief/autobrief/internal/models"
	"github.com/autobrief/autobrief/internal/store"
)

// UserSyncer refreshes one user's activity from their connected
// integrations before a summary is generated.
type UserSyncer interface {
	SyncUser(ctx context.Context, userID int) error
}

// DailyScheduler runs the summary batch once per day at a configured
// time of day, checking the clock once a minute.
type DailyScheduler struct {
	syncer       UserSyncer
	generator    *briefing.Generator
	integrations store.IntegrationRepository
	summaries    store.SummaryRepository
	profiles     store.ProfileRepository
	sender       delivery.Sender
	collector    *metrics.Collector
	logger       *slog.Logger

	timeOfDay     string
	checkInterval time.Duration
	stopChan      chan struct{}
	now           func() time.Time

	mu        sync.Mutex
	lastRunAt time.Time
}

// NewDailyScheduler creates a scheduler that fires at timeOfDay ("15:04"
// format, local time).
func NewDailyScheduler(
	syncer UserSyncer,
	generator *briefing.Generator,
	integrations store.IntegrationRepository,
	summaries store.SummaryRepository,
	profiles store.ProfileRepository,
	sender delivery.Sender,
	collector *metrics.Collector,
	timeOfDay string,
	logger *slog.Logger,
) *DailyScheduler {
	return &DailyScheduler{
		syncer:        syncer,
		generator:     generator,
		integrations:  integrations,
		summaries:     summaries,
		profiles:      profiles,
		sender:        sender,
		collector:     collector,
		logger:        logger,
		timeOfDay:     timeOfDay,
		checkInterval: 1 * time.Minute,
		stopChan:      make(chan struct{}),
		now:           time.Now,
	}
}

// Start begins the scheduler loop. It blocks until Stop is called or the
// context is cancelled.
func (s *DailyScheduler) Start(ctx context.Context) {
	s.logger.Info("starting daily scheduler",
		"time_of_day", s.timeOfDay,
		"check_interval", s.checkInterval)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.stopChan:
			s.logger.Info("daily scheduler stopped")
			return
		case <-ctx.Done():
			s.logger.Info("daily scheduler stopping, context cancelled")
			return
		}
	}
}

// Stop stops the scheduler loop.
func (s *DailyScheduler) Stop() {
	close(s.stopChan)
}

func (s *DailyScheduler) tick(ctx context.Context) {
	now := s.now()
	if now.Format("15:04") != s.timeOfDay {
		return
	}

	s.mu.Lock()
	if s.lastRunAt.Year() == now.Year() && s.lastRunAt.YearDay() == now.YearDay() {
		s.mu.Unlock()
		return
	}
	s.lastRunAt = now
	s.mu.Unlock()

	s.RunBatch(ctx, now.Format("2006-01-02"))
}

// RunBatch generates and delivers summaries for every user with at least
// one connected integration. A failing user is logged and skipped; the
// batch itself never fails.
func (s *DailyScheduler) RunBatch(ctx context.Context, date string) {
	start := s.now()

	userIDs, err := s.integrations.ListConnectedUserIDs(ctx)
	if err != nil {
		s.logger.Error("failed to list users for batch", "error", err)
		return
	}

	succeeded, failed := 0, 0
	for _, userID := range userIDs {
		if err := s.processUser(ctx, userID, date); err != nil {
			s.logger.Error("summary batch user failed",
				"user_id", userID,
				"date", date,
				"error", err)
			failed++
			continue
		}
		succeeded++
	}

	if s.collector != nil {
		s.collector.BatchCompleted(time.Since(start))
	}

	s.logger.Info("summary batch complete",
		"date", date,
		"users", len(userIDs),
		"succeeded", succeeded,
		"failed", failed,
		"duration_ms", time.Since(start).Milliseconds())
}

func (s *DailyScheduler) processUser(ctx context.Context, userID int, date string) error {
	if err := s.syncer.SyncUser(ctx, userID); err != nil {
		if s.collector != nil {
			s.collector.SyncRun("error")
		}
		return fmt.Errorf("sync failed: %w", err)
	}
	if s.collector != nil {
		s.collector.SyncRun("ok")
	}

	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	opts := briefing.Options{}
	if profile != nil {
		opts.Tone = profile.DefaultTone
		opts.Filter = profile.DefaultFilter
	}

	result, err := s.generator.GenerateDailySummary(ctx, userID, date, opts)
	if err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}

	if err := s.summaries.Upsert(ctx, result.ToDailySummary(userID, s.now())); err != nil {
		return fmt.Errorf("failed to persist summary: %w", err)
	}

	if s.collector != nil {
		s.collector.SummaryGenerated(result.Outcome())
	}

	s.deliver(ctx, profile, result)
	return nil
}

// deliver emails the summary when the user opted in. Delivery problems
// never fail the user's batch entry; the summary is already persisted.
func (s *DailyScheduler) deliver(ctx context.Context, profile *models.UserProfile, result *briefing.Result) {
	if profile == nil || !profile.EmailSummary || profile.Email == "" {
		return
	}

	subject := "Your daily summary for " + result.Date
	if err := s.sender.SendSummary(ctx, profile.Email, subject, result.Text); err != nil {
		s.logger.Warn("failed to email summary",
			"user_id", profile.UserID,
			"error", err)
	}
}
