package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/autobrief/autobrief/internal/briefing"
	"github.com/autobrief/autobrief/internal/store"
)

// User-facing fallback strings. Any transport or API error degrades to one
// of these; the assistant never surfaces an exception to its caller.
const (
	FallbackSummary     = "Error generating summary. Please try again."
	FallbackStandup     = "Error generating standup report. Please try again."
	FallbackChat        = "Error generating response. Please try again."
	FallbackPatterns    = "Error generating work pattern analysis. Please try again."
	FallbackWeekly      = "Error generating weekly report. Please try again."
	FallbackSuggestions = "Unable to generate task suggestions. Please try again."
)

// Assistant produces free-form narrative reports by sending sampled
// activity data to an external chat-completion API. It is the alternative
// path to the deterministic formatter in the briefing package.
type Assistant struct {
	activities store.ActivityRepository
	profiles   store.ProfileRepository
	client     ChatCompleter
	logger     *slog.Logger
	now        func() time.Time
}

// New creates an Assistant.
func New(activities store.ActivityRepository, profiles store.ProfileRepository, client ChatCompleter, logger *slog.Logger) *Assistant {
	return &Assistant{
		activities: activities,
		profiles:   profiles,
		client:     client,
		logger:     logger,
		now:        time.Now,
	}
}

// displayName resolves the user's name for prompts, degrading quietly.
func (a *Assistant) displayName(ctx context.Context, userID int) string {
	profile, err := a.profiles.Get(ctx, userID)
	if err != nil || profile == nil || profile.DisplayName == "" {
		return "this user"
	}
	return profile.DisplayName
}

// SmartSummary returns an emoji-sectioned narrative summary of the user's
// most recent activity.
func (a *Assistant) SmartSummary(ctx context.Context, userID int) string {
	records, err := a.activities.ListRecent(ctx, userID, smartSummaryCap)
	if err != nil {
		a.logger.Error("failed to load activities for smart summary", "user_id", userID, "error", err)
		return FallbackSummary
	}

	prompt := buildSmartSummaryPrompt(a.displayName(ctx, userID), a.now(), records)
	text, err := a.client.ChatCompletion(ctx, prompt, 0.7, 1000)
	if err != nil {
		a.logger.Error("smart summary generation failed", "user_id", userID, "error", err)
		return FallbackSummary
	}
	return text
}

// StandupReport returns a yesterday/today/blockers report built from
// yesterday's activity plus recent context.
func (a *Assistant) StandupReport(ctx context.Context, userID int) string {
	now := a.now()
	yesterdayDate := now.AddDate(0, 0, -1).Format("2006-01-02")
	start, end, err := briefing.DayRange(yesterdayDate)
	if err != nil {
		a.logger.Error("failed to compute standup range", "user_id", userID, "error", err)
		return FallbackStandup
	}

	yesterday, err := a.activities.GetByDateRange(ctx, userID, start, end)
	if err != nil {
		a.logger.Error("failed to load yesterday's activities", "user_id", userID, "error", err)
		return FallbackStandup
	}
	recent, err := a.activities.ListRecent(ctx, userID, standupCap)
	if err != nil {
		a.logger.Error("failed to load recent activities for standup", "user_id", userID, "error", err)
		return FallbackStandup
	}

	prompt := buildStandupPrompt(a.displayName(ctx, userID), now, yesterday, recent)
	text, err := a.client.ChatCompletion(ctx, prompt, 0.6, 700)
	if err != nil {
		a.logger.Error("standup generation failed", "user_id", userID, "error", err)
		return FallbackStandup
	}
	return text
}

// Chat answers a free-text question grounded in the user's activity data.
func (a *Assistant) Chat(ctx context.Context, userID int, query string) string {
	records, err := a.activities.ListRecent(ctx, userID, chatCap)
	if err != nil {
		a.logger.Error("failed to load activities for chat", "user_id", userID, "error", err)
		return FallbackChat
	}

	prompt := buildChatPrompt(a.displayName(ctx, userID), a.now(), query, records)
	text, err := a.client.ChatCompletion(ctx, prompt, 0.6, 800)
	if err != nil {
		a.logger.Error("chat answer generation failed", "user_id", userID, "error", err)
		return FallbackChat
	}
	return text
}

// AnalyzeWorkPatterns returns a pattern/efficiency/recommendations analysis
// over the user's recent activity with hour-of-day extracted.
func (a *Assistant) AnalyzeWorkPatterns(ctx context.Context, userID int) string {
	records, err := a.activities.ListRecent(ctx, userID, patternsCap)
	if err != nil {
		a.logger.Error("failed to load activities for pattern analysis", "user_id", userID, "error", err)
		return FallbackPatterns
	}

	prompt := buildPatternsPrompt(a.displayName(ctx, userID), records)
	text, err := a.client.ChatCompletion(ctx, prompt, 0.5, 900)
	if err != nil {
		a.logger.Error("work pattern analysis failed", "user_id", userID, "error", err)
		return FallbackPatterns
	}
	return text
}

// WeeklyReport returns a manager-facing report over the last 7 days.
func (a *Assistant) WeeklyReport(ctx context.Context, userID int) string {
	now := a.now()
	records, err := a.activities.GetByDateRange(ctx, userID, now.AddDate(0, 0, -7), now)
	if err != nil {
		a.logger.Error("failed to load activities for weekly report", "user_id", userID, "error", err)
		return FallbackWeekly
	}
	if len(records) > weeklyCap {
		records = records[:weeklyCap]
	}

	prompt := buildWeeklyPrompt(a.displayName(ctx, userID), now, records)
	text, err := a.client.ChatCompletion(ctx, prompt, 0.6, 1000)
	if err != nil {
		a.logger.Error("weekly report generation failed", "user_id", userID, "error", err)
		return FallbackWeekly
	}
	return text
}

// SuggestNextTasks returns a short list of suggested next tasks parsed from
// the model's line-per-suggestion response.
func (a *Assistant) SuggestNextTasks(ctx context.Context, userID int) []string {
	records, err := a.activities.ListRecent(ctx, userID, suggestionsCap)
	if err != nil {
		a.logger.Error("failed to load activities for suggestions", "user_id", userID, "error", err)
		return []string{FallbackSuggestions}
	}

	prompt := buildSuggestionsPrompt(a.displayName(ctx, userID), records)
	text, err := a.client.ChatCompletion(ctx, prompt, 0.7, 500)
	if err != nil {
		a.logger.Error("task suggestion generation failed", "user_id", userID, "error", err)
		return []string{FallbackSuggestions}
	}

	suggestions := parseSuggestions(text)
	if len(suggestions) == 0 {
		return []string{FallbackSuggestions}
	}
	return suggestions
}

// parseSuggestions extracts one suggestion per non-empty line, stripping
// list markers the model may emit.
func parseSuggestions(text string) []string {
	var suggestions []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		suggestions = append(suggestions, line)
	}
	return suggestions
}
