package briefing

import (
	"strings"

	"github.com/autobrief/autobrief/internal/models"
)

// ApplyFilter selects the subset of records to summarize. Predicates run
// over the full activity list, independent of provider grouping.
func ApplyFilter(records []models.ActivityRecord, filter models.Filter) []models.ActivityRecord {
	if filter == models.FilterAll {
		return records
	}

	matched := make([]models.ActivityRecord, 0, len(records))
	for _, rec := range records {
		if matchesFilter(rec, filter) {
			matched = append(matched, rec)
		}
	}
	return matched
}

func matchesFilter(rec models.ActivityRecord, filter models.Filter) bool {
	title := strings.ToLower(rec.Title)

	switch filter {
	case models.FilterBlockers:
		return rec.ActivityType == models.ActivityIssue ||
			strings.Contains(title, "bug") ||
			strings.Contains(title, "error") ||
			strings.Contains(title, "fix")
	case models.FilterAchievements:
		return rec.ActivityType == models.ActivityCommit ||
			rec.ActivityType == models.ActivityPR ||
			strings.Contains(title, "complete") ||
			strings.Contains(title, "finish")
	case models.FilterMeetings:
		return rec.ActivityType == models.ActivityCalendarEvent
	case models.FilterCode:
		return rec.ActivityType == models.ActivityCommit ||
			rec.ActivityType == models.ActivityPR
	default:
		return true
	}
}

// IsBlocker reports whether a record counts toward the blocker tally
// persisted on the daily summary. Same predicate as the blockers filter.
func IsBlocker(rec models.ActivityRecord) bool {
	return matchesFilter(rec, models.FilterBlockers)
}

// tonePreset holds the fixed strings a tone contributes to a report. Tone
// affects phrasing only; filtering, grouping, and section ordering are
// unchanged by it.
type tonePreset struct {
	greeting string
	closing  func(totalTasks int) string
}

// closingSet picks one of three pre-authored closings by task volume.
type closingSet struct {
	high   string // totalTasks > 5
	none   string // totalTasks == 0
	steady string // otherwise
}

func (c closingSet) pick(totalTasks int) string {
	switch {
	case totalTasks > 5:
		return c.high
	case totalTasks == 0:
		return c.none
	default:
		return c.steady
	}
}

var tonePresets = map[models.Tone]tonePreset{
	models.ToneFriendly: {
		greeting: "Hey there! Here's your day in review",
		closing: closingSet{
			high:   "Amazing work today — you got so much done! 🎉",
			none:   "A quiet one today. Rest counts as productivity too!",
			steady: "Nice steady progress today. Keep it going!",
		}.pick,
	},
	models.ToneCasual: {
		greeting: "Quick recap of your day",
		closing: closingSet{
			high:   "Big day. Lots of stuff shipped.",
			none:   "Slow day. It happens.",
			steady: "Decent day. Things kept moving.",
		}.pick,
	},
	models.ToneFormal: {
		greeting: "Daily Activity Report",
		closing: closingSet{
			high:   "An exceptionally productive day was recorded.",
			none:   "No task activity was recorded for this date.",
			steady: "Consistent progress was maintained throughout the day.",
		}.pick,
	},
	models.ToneProfessional: {
		greeting: "Daily Work Summary",
		closing: closingSet{
			high:   "High productivity day with significant output across workstreams.",
			none:   "Low activity day. Consider reviewing your task pipeline.",
			steady: "Steady progress maintained on active work.",
		}.pick,
	},
}

// presetFor returns the tone preset, defaulting to professional.
func presetFor(tone models.Tone) tonePreset {
	if preset, ok := tonePresets[tone]; ok {
		return preset
	}
	return tonePresets[models.ToneProfessional]
}
