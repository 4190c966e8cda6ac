package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/autobrief/autobrief/internal/models"
)

// Activity sampling caps per report type.
const (
	smartSummaryCap = 20
	standupCap      = 15
	chatCap         = 30
	patternsCap     = 50
	weeklyCap       = 40
	suggestionsCap  = 20
)

// formatActivityLines renders records as one prompt line per activity.
func formatActivityLines(records []models.ActivityRecord) string {
	if len(records) == 0 {
		return "(no recorded activity)"
	}
	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "- [%s] %s: %s (%s)\n",
			rec.Timestamp.Format("2006-01-02 15:04"),
			rec.Provider, rec.Title, rec.ActivityType)
	}
	return b.String()
}

// formatHourlyLines renders records with the hour of day extracted, for
// work-pattern analysis.
func formatHourlyLines(records []models.ActivityRecord) string {
	if len(records) == 0 {
		return "(no recorded activity)"
	}
	var b strings.Builder
	for _, rec := range records {
		fmt.Fprintf(&b, "- hour %02d: %s (%s via %s)\n",
			rec.Timestamp.Hour(), rec.Title, rec.ActivityType, rec.Provider)
	}
	return b.String()
}

func buildSmartSummaryPrompt(name string, now time.Time, records []models.ActivityRecord) string {
	return fmt.Sprintf(`You are a work assistant writing a daily summary for %s on %s.

Recent activity:
%s
Write a concise summary with these emoji-titled sections:
🏆 Key Accomplishments
📊 Work Breakdown
💡 Insights
🎯 Suggested Focus
🚧 Potential Blockers

Ground every statement in the activity above. Keep it under 300 words.`,
		name, now.Format("Monday, January 2, 2006"), formatActivityLines(records))
}

func buildStandupPrompt(name string, now time.Time, yesterday, recent []models.ActivityRecord) string {
	return fmt.Sprintf(`Write a standup report for %s, dated %s.

Yesterday's activity:
%s
Recent context:
%s
Use exactly three sections:
**Yesterday:** what was done, from the activity above.
**Today:** likely next steps inferred from open threads.
**Blockers:** anything that looks stuck, or "None".

Be brief and factual.`,
		name, now.Format("January 2, 2006"),
		formatActivityLines(yesterday), formatActivityLines(recent))
}

func buildChatPrompt(name string, now time.Time, query string, records []models.ActivityRecord) string {
	return fmt.Sprintf(`You are %s's work assistant. Today is %s.

Their recent activity:
%s
Question: %s

Answer the question directly, grounded only in the activity data above. If
the data doesn't cover it, say so.`,
		name, now.Format("January 2, 2006"), formatActivityLines(records), query)
}

func buildPatternsPrompt(name string, records []models.ActivityRecord) string {
	return fmt.Sprintf(`Analyze %s's work patterns from this activity log (hour of day included):

%s
Respond with three sections:
**Patterns:** when and how they work (peak hours, context switching).
**Efficiency:** what the data suggests about focus and throughput.
**Recommendations:** 2-3 concrete adjustments.`,
		name, formatHourlyLines(records))
}

func buildWeeklyPrompt(name string, now time.Time, records []models.ActivityRecord) string {
	return fmt.Sprintf(`Write a manager-facing weekly report for %s covering the 7 days ending %s.

Activity:
%s
Sections:
**Overview** — one paragraph.
**Development Work** — commits, PRs, issues.
**Collaboration** — meetings and communication.
**Metrics** — counts pulled from the activity.
**Goals Progress** — inferred from the work above.
**Next Week's Focus** — 2-3 bullets.`,
		name, now.Format("January 2, 2006"), formatActivityLines(records))
}

func buildSuggestionsPrompt(name string, records []models.ActivityRecord) string {
	return fmt.Sprintf(`Based on %s's recent activity:

%s
Suggest the 3-5 most valuable next tasks. Output one suggestion per line,
each starting with "- ". No preamble, no closing remarks.`,
		name, formatActivityLines(records))
}
