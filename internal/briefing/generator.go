package briefing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/autobrief/autobrief/internal/models"
	"github.com/autobrief/autobrief/internal/store"
)

// Options configure one summary generation. Zero values select the
// defaults: professional tone, no filtering.
type Options struct {
	Tone   models.Tone
	Filter models.Filter
}

// Result is the outcome of one summary generation. NoData and NoMatch let
// callers and tests distinguish fallback text from a data-driven report.
type Result struct {
	Text             string
	Date             string
	Tone             models.Tone
	Filter           models.Filter
	TasksCompleted   int
	MeetingsAttended int
	CodeCommits      int
	Blockers         int
	NoData           bool
	NoMatch          bool
}

// Generator runs the deterministic summary pipeline:
// retrieve → group → filter → format.
type Generator struct {
	activities store.ActivityRepository
	logger     *slog.Logger
}

// NewGenerator creates a summary generator.
func NewGenerator(activities store.ActivityRepository, logger *slog.Logger) *Generator {
	return &Generator{
		activities: activities,
		logger:     logger,
	}
}

// GenerateDailySummary produces the Markdown report for one user and date.
// It validates its arguments explicitly so the pipeline is safe to call
// from any boundary, not just the HTTP layer.
func (g *Generator) GenerateDailySummary(ctx context.Context, userID int, date string, opts Options) (*Result, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id must be positive, got %d", ErrInvalidArgument, userID)
	}

	tone := opts.Tone
	if tone == "" {
		tone = models.ToneProfessional
	}
	if !tone.Valid() {
		return nil, fmt.Errorf("%w: unknown tone %q", ErrInvalidArgument, opts.Tone)
	}

	filter := opts.Filter
	if filter == "" {
		filter = models.FilterAll
	}
	if !filter.Valid() {
		return nil, fmt.Errorf("%w: unknown filter %q", ErrInvalidArgument, opts.Filter)
	}

	start, end, err := DayRange(date)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Date:   date,
		Tone:   tone,
		Filter: filter,
	}

	filtered, err := g.loadDay(ctx, userID, start, end, filter)
	switch {
	case errors.Is(err, ErrNoActivity):
		g.logger.Info("no activity for date, returning example report",
			"user_id", userID,
			"date", date)
		result.Text = FormatExampleReport(start, tone)
		result.NoData = true
		return result, nil
	case errors.Is(err, ErrNoMatch):
		g.logger.Info("no activity matching filter",
			"user_id", userID,
			"date", date,
			"filter", filter)
		result.Text = FormatNoMatch(start, filter)
		result.NoMatch = true
		return result, nil
	case err != nil:
		return nil, err
	}

	groups := Group(filtered)
	result.Text = FormatDailySummary(start, groups, tone)
	result.TasksCompleted = len(groups[models.ProviderGitHub]) + len(groups[models.ProviderJira])
	result.MeetingsAttended = len(groups[models.ProviderGoogleCalendar])
	for _, rec := range filtered {
		if rec.ActivityType == models.ActivityCommit {
			result.CodeCommits++
		}
		if IsBlocker(rec) {
			result.Blockers++
		}
	}

	g.logger.Info("daily summary generated",
		"user_id", userID,
		"date", date,
		"tone", tone,
		"filter", filter,
		"activities", len(filtered),
		"tasks", result.TasksCompleted,
		"meetings", result.MeetingsAttended)

	return result, nil
}

// loadDay retrieves and filters one day of activity, signalling the two
// empty cases with ErrNoActivity and ErrNoMatch. The caller converts the
// signals to user-facing text; they never escape GenerateDailySummary.
func (g *Generator) loadDay(ctx context.Context, userID int, start, end time.Time, filter models.Filter) ([]models.ActivityRecord, error) {
	records, err := g.activities.GetByDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoActivity
	}

	filtered := ApplyFilter(records, filter)
	if len(filtered) == 0 {
		return nil, ErrNoMatch
	}
	return filtered, nil
}

// Outcome classifies the result for metrics and logs.
func (r *Result) Outcome() string {
	switch {
	case r.NoData:
		return "no_data"
	case r.NoMatch:
		return "no_match"
	default:
		return "report"
	}
}

// ToDailySummary converts a generation result into the persistable record.
func (r *Result) ToDailySummary(userID int, now time.Time) *models.DailySummary {
	return &models.DailySummary{
		UserID:           userID,
		Date:             r.Date,
		Summary:          r.Text,
		TasksCompleted:   r.TasksCompleted,
		MeetingsAttended: r.MeetingsAttended,
		CodeCommits:      r.CodeCommits,
		Blockers:         r.Blockers,
		Metadata: map[string]interface{}{
			"tone":   string(r.Tone),
			"filter": string(r.Filter),
		},
		CreatedAt: now,
	}
}
