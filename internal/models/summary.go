package models

import (
	"time"
)

// DailySummary is the persisted generated report for one user on one
// calendar date. Regeneration upserts by (UserID, Date).
type DailySummary struct {
	ID               string                 `json:"id"`
	UserID           int                    `json:"user_id"`
	Date             string                 `json:"date"` // YYYY-MM-DD
	Summary          string                 `json:"summary"`
	TasksCompleted   int                    `json:"tasks_completed"`
	MeetingsAttended int                    `json:"meetings_attended"`
	CodeCommits      int                    `json:"code_commits"`
	Blockers         int                    `json:"blockers"`
	Metadata         map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

// Tone is a stylistic preset affecting only fixed greeting/closing text.
type Tone string

const (
	ToneFriendly     Tone = "friendly"
	ToneCasual       Tone = "casual"
	ToneFormal       Tone = "formal"
	ToneProfessional Tone = "professional"
)

// Valid reports whether t is one of the four supported tones.
func (t Tone) Valid() bool {
	switch t {
	case ToneFriendly, ToneCasual, ToneFormal, ToneProfessional:
		return true
	}
	return false
}

// Filter is a predicate preset restricting which activities are summarized.
type Filter string

const (
	FilterAll          Filter = "all"
	FilterBlockers     Filter = "blockers"
	FilterAchievements Filter = "achievements"
	FilterMeetings     Filter = "meetings"
	FilterCode         Filter = "code"
)

// Valid reports whether f is one of the supported filters.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterBlockers, FilterAchievements, FilterMeetings, FilterCode:
		return true
	}
	return false
}
