package models

import (
	"time"
)

// ActivityRecord is the normalized representation of one unit of work
// (a commit, PR, calendar event, chat message, issue) regardless of
// source provider.
type ActivityRecord struct {
	ID            string                 `json:"id"`
	UserID        int                    `json:"user_id"`
	IntegrationID string                 `json:"integration_id"`
	Provider      Provider               `json:"provider"`
	ActivityType  ActivityType           `json:"activity_type"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description,omitempty"`
	ExternalID    string                 `json:"external_id"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	Timestamp     time.Time              `json:"timestamp"`
	CreatedAt     time.Time              `json:"created_at"`
}

// Provider identifies the third-party service an activity came from.
type Provider string

const (
	ProviderGitHub         Provider = "github"
	ProviderSlack          Provider = "slack"
	ProviderGoogleCalendar Provider = "google_calendar"
	ProviderJira           Provider = "jira"
	ProviderNotion         Provider = "notion"
)

// ActivityType classifies the kind of work an activity represents.
type ActivityType string

const (
	ActivityCommit        ActivityType = "commit"
	ActivityPR            ActivityType = "pr"
	ActivityIssue         ActivityType = "issue"
	ActivityCalendarEvent ActivityType = "calendar_event"
	ActivitySlackMessage  ActivityType = "slack_message"
	ActivityJiraIssue     ActivityType = "jira_issue"
)

// Key returns the identity tuple used by adapters for deduplication.
// Two records with the same key describe the same underlying event.
func (a *ActivityRecord) Key() string {
	return string(a.ActivityType) + ":" + a.ExternalID
}

// DurationMinutes reads the known "duration" metadata key, if present.
// Adapters store durations as minutes; JSON round-trips land as float64.
func (a *ActivityRecord) DurationMinutes() (int, bool) {
	v, ok := a.Metadata["duration"]
	if !ok {
		return 0, false
	}
	switch d := v.(type) {
	case int:
		return d, true
	case int64:
		return int(d), true
	case float64:
		return int(d), true
	default:
		return 0, false
	}
}

// Status reads the known "status" metadata key, if present.
func (a *ActivityRecord) Status() (string, bool) {
	v, ok := a.Metadata["status"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
