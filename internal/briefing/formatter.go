package briefing

import (
	"fmt"
	"strings"
	"time"

	"github.com/autobrief/autobrief/internal/models"
)

// maxCommitBullets caps how many commit titles are enumerated; PRs and
// issues are always listed in full.
const maxCommitBullets = 3

// renderOrder is the fixed provider ordering for report sections. Providers
// absent from the grouped map are skipped; providers present but not
// registered in providerRenderers are skipped as well, so adding a provider
// to reports means registering a renderer here.
var renderOrder = []models.Provider{
	models.ProviderGitHub,
	models.ProviderGoogleCalendar,
	models.ProviderJira,
	models.ProviderSlack,
}

// providerRenderer emits one provider's section into the report.
type providerRenderer struct {
	heading string
	render  func(b *strings.Builder, records []models.ActivityRecord)
}

var providerRenderers = map[models.Provider]providerRenderer{
	models.ProviderGitHub:         {heading: "## 🔧 GitHub", render: renderGitHub},
	models.ProviderGoogleCalendar: {heading: "## 📅 Calendar Summary", render: renderCalendar},
	models.ProviderJira:           {heading: "## 📋 Jira Updates", render: renderJira},
	models.ProviderSlack:          {heading: "## 💬 Slack Activity", render: renderSlack},
}

// FormatDailySummary turns provider-grouped, already-filtered activity
// records into a Markdown report. Deterministic: same records, date, and
// tone always yield byte-identical output.
func FormatDailySummary(date time.Time, groups map[models.Provider][]models.ActivityRecord, tone models.Tone) string {
	preset := presetFor(tone)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s — %s\n", preset.greeting, date.Format("Monday, January 2"))

	for _, provider := range renderOrder {
		records := groups[provider]
		if len(records) == 0 {
			continue
		}
		renderer, ok := providerRenderers[provider]
		if !ok {
			continue
		}
		b.WriteString("\n")
		b.WriteString(renderer.heading)
		b.WriteString("\n")
		renderer.render(&b, records)
	}

	totalTasks := len(groups[models.ProviderGitHub]) + len(groups[models.ProviderJira])
	totalMeetings := len(groups[models.ProviderGoogleCalendar])

	b.WriteString("\n## 📊 Daily Summary\n")
	fmt.Fprintf(&b, "%d tasks completed\n", totalTasks)
	fmt.Fprintf(&b, "%d meetings attended\n", totalMeetings)

	b.WriteString("\n")
	b.WriteString(preset.closing(totalTasks))
	b.WriteString("\n")

	return b.String()
}

func renderGitHub(b *strings.Builder, records []models.ActivityRecord) {
	var commits, prs, issues []models.ActivityRecord
	for _, rec := range records {
		switch rec.ActivityType {
		case models.ActivityCommit:
			commits = append(commits, rec)
		case models.ActivityPR:
			prs = append(prs, rec)
		case models.ActivityIssue:
			issues = append(issues, rec)
		}
	}

	if len(commits) > 0 {
		fmt.Fprintf(b, "%d commits pushed\n", len(commits))
		for i, rec := range commits {
			if i == maxCommitBullets {
				break
			}
			fmt.Fprintf(b, "- %s\n", rec.Title)
		}
	}
	if len(prs) > 0 {
		fmt.Fprintf(b, "%d pull requests\n", len(prs))
		for _, rec := range prs {
			fmt.Fprintf(b, "- %s\n", rec.Title)
		}
	}
	if len(issues) > 0 {
		fmt.Fprintf(b, "%d issues worked on\n", len(issues))
		for _, rec := range issues {
			fmt.Fprintf(b, "- %s\n", rec.Title)
		}
	}
}

func renderCalendar(b *strings.Builder, records []models.ActivityRecord) {
	fmt.Fprintf(b, "%d meetings attended\n", len(records))
	for _, rec := range records {
		if minutes, ok := rec.DurationMinutes(); ok {
			fmt.Fprintf(b, "- %s (%dm)\n", rec.Title, minutes)
		} else {
			fmt.Fprintf(b, "- %s\n", rec.Title)
		}
	}
}

func renderJira(b *strings.Builder, records []models.ActivityRecord) {
	fmt.Fprintf(b, "%d Jira issues updated\n", len(records))
	for _, rec := range records {
		if status, ok := rec.Status(); ok {
			fmt.Fprintf(b, "- %s [%s]\n", rec.Title, status)
		} else {
			fmt.Fprintf(b, "- %s\n", rec.Title)
		}
	}
}

// Slack detail is intentionally summarized, not enumerated.
func renderSlack(b *strings.Builder, records []models.ActivityRecord) {
	b.WriteString("Team communication active\n")
	fmt.Fprintf(b, "%d interactions\n", len(records))
}

// FormatExampleReport returns the fixed example report shown when the date
// has no stored activity at all. The heading carries the real requested
// date; the body is a static sample, a deliberate "always show something"
// choice rather than an empty-state message.
func FormatExampleReport(date time.Time, tone models.Tone) string {
	preset := presetFor(tone)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s — %s\n", preset.greeting, date.Format("Monday, January 2"))
	b.WriteString("\nNo tracked activity yet for this date. Here's a sample of what your summary will look like once your integrations sync:\n")
	b.WriteString("\n## 🔧 GitHub\n")
	b.WriteString("2 commits pushed\n")
	b.WriteString("- Update API endpoints\n")
	b.WriteString("- Refactor database queries\n")
	b.WriteString("\n## 📅 Calendar Summary\n")
	b.WriteString("1 meeting attended\n")
	b.WriteString("- Team sync (30m)\n")
	b.WriteString("\n## 📊 Daily Summary\n")
	b.WriteString("2 tasks completed\n")
	b.WriteString("1 meeting attended\n")
	b.WriteString("\n")
	b.WriteString(preset.closing(2))
	b.WriteString("\n")

	return b.String()
}

// FormatNoMatch returns the short explanatory string for the case where
// activities exist but none pass the selected filter.
func FormatNoMatch(date time.Time, filter models.Filter) string {
	return fmt.Sprintf("No activities matching the %q filter were found for %s.", string(filter), date.Format("Monday, January 2"))
}
