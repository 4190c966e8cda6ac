package briefing

import (
	"strings"
	"testing"
	"time"

	"github.com/autobrief/autobrief/internal/models"
)

func day(t *testing.T, date string) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		t.Fatalf("bad test date %q: %v", date, err)
	}
	return d
}

func TestFormatDailySummary_ProviderSections(t *testing.T) {
	records := []models.ActivityRecord{
		{Provider: models.ProviderGitHub, ActivityType: models.ActivityCommit, Title: "Fix auth bug"},
		{Provider: models.ProviderGoogleCalendar, ActivityType: models.ActivityCalendarEvent, Title: "Standup",
			Metadata: map[string]interface{}{"duration": 30}},
	}

	report := FormatDailySummary(day(t, "2025-01-18"), Group(records), models.ToneProfessional)

	for _, want := range []string{
		"## 🔧 GitHub",
		"1 commits pushed",
		"- Fix auth bug",
		"## 📅 Calendar Summary",
		"1 meetings attended",
		"- Standup (30m)",
		"## 📊 Daily Summary",
		"1 tasks completed",
		"1 meetings attended",
		"Steady progress maintained",
		"Saturday, January 18",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestFormatDailySummary_Deterministic(t *testing.T) {
	records := []models.ActivityRecord{
		{Provider: models.ProviderGitHub, ActivityType: models.ActivityCommit, Title: "Add caching"},
		{Provider: models.ProviderJira, ActivityType: models.ActivityJiraIssue, Title: "AB-12",
			Metadata: map[string]interface{}{"status": "In Progress"}},
		{Provider: models.ProviderSlack, ActivityType: models.ActivitySlackMessage, Title: "thread reply"},
	}
	groups := Group(records)
	date := day(t, "2025-03-10")

	first := FormatDailySummary(date, groups, models.ToneCasual)
	for i := 0; i < 10; i++ {
		if got := FormatDailySummary(date, groups, models.ToneCasual); got != first {
			t.Fatalf("output differs across calls:\n%s\n---\n%s", first, got)
		}
	}
}

func TestFormatDailySummary_CommitCapAndFullPRs(t *testing.T) {
	var records []models.ActivityRecord
	for _, title := range []string{"c1", "c2", "c3", "c4", "c5"} {
		records = append(records, models.ActivityRecord{
			Provider: models.ProviderGitHub, ActivityType: models.ActivityCommit, Title: title,
		})
	}
	for _, title := range []string{"pr1", "pr2", "pr3", "pr4"} {
		records = append(records, models.ActivityRecord{
			Provider: models.ProviderGitHub, ActivityType: models.ActivityPR, Title: title,
		})
	}

	report := FormatDailySummary(day(t, "2025-01-06"), Group(records), models.ToneProfessional)

	if !strings.Contains(report, "5 commits pushed") {
		t.Errorf("missing commit count line:\n%s", report)
	}
	if strings.Contains(report, "- c4") || strings.Contains(report, "- c5") {
		t.Errorf("commits beyond cap enumerated:\n%s", report)
	}
	for _, pr := range []string{"- pr1", "- pr2", "- pr3", "- pr4"} {
		if !strings.Contains(report, pr) {
			t.Errorf("PR bullet %q missing; all PRs must be listed:\n%s", pr, report)
		}
	}
}

func TestFormatDailySummary_ProviderOrder(t *testing.T) {
	records := []models.ActivityRecord{
		{Provider: models.ProviderSlack, ActivityType: models.ActivitySlackMessage, Title: "msg"},
		{Provider: models.ProviderJira, ActivityType: models.ActivityJiraIssue, Title: "AB-1"},
		{Provider: models.ProviderGoogleCalendar, ActivityType: models.ActivityCalendarEvent, Title: "1:1"},
		{Provider: models.ProviderGitHub, ActivityType: models.ActivityCommit, Title: "tweak"},
	}

	report := FormatDailySummary(day(t, "2025-01-06"), Group(records), models.ToneProfessional)

	order := []string{"## 🔧 GitHub", "## 📅 Calendar Summary", "## 📋 Jira Updates", "## 💬 Slack Activity"}
	last := -1
	for _, heading := range order {
		idx := strings.Index(report, heading)
		if idx < 0 {
			t.Fatalf("heading %q missing:\n%s", heading, report)
		}
		if idx < last {
			t.Errorf("heading %q out of order:\n%s", heading, report)
		}
		last = idx
	}
}

func TestFormatDailySummary_UnknownProviderSkipped(t *testing.T) {
	records := []models.ActivityRecord{
		{Provider: models.ProviderNotion, ActivityType: models.ActivityIssue, Title: "notion page"},
		{Provider: models.ProviderGitHub, ActivityType: models.ActivityCommit, Title: "fix lint"},
	}

	report := FormatDailySummary(day(t, "2025-01-06"), Group(records), models.ToneProfessional)

	if strings.Contains(report, "notion page") {
		t.Errorf("unregistered provider rendered:\n%s", report)
	}
	if !strings.Contains(report, "- fix lint") {
		t.Errorf("registered provider dropped:\n%s", report)
	}
}

func TestFormatDailySummary_GroupingCompleteness(t *testing.T) {
	// Every record from a recognized provider appears in exactly one section.
	records := []models.ActivityRecord{
		{Provider: models.ProviderGitHub, ActivityType: models.ActivityCommit, Title: "alpha"},
		{Provider: models.ProviderGitHub, ActivityType: models.ActivityPR, Title: "beta"},
		{Provider: models.ProviderJira, ActivityType: models.ActivityJiraIssue, Title: "gamma"},
		{Provider: models.ProviderGoogleCalendar, ActivityType: models.ActivityCalendarEvent, Title: "delta"},
	}

	report := FormatDailySummary(day(t, "2025-01-06"), Group(records), models.ToneProfessional)

	for _, title := range []string{"alpha", "beta", "gamma", "delta"} {
		if got := strings.Count(report, "- "+title); got != 1 {
			t.Errorf("record %q appears %d times, want exactly 1:\n%s", title, got, report)
		}
	}
}

func TestFormatDailySummary_JiraStatusAndSlackCount(t *testing.T) {
	records := []models.ActivityRecord{
		{Provider: models.ProviderJira, ActivityType: models.ActivityJiraIssue, Title: "AB-7",
			Metadata: map[string]interface{}{"status": "Done"}},
		{Provider: models.ProviderJira, ActivityType: models.ActivityJiraIssue, Title: "AB-8"},
		{Provider: models.ProviderSlack, ActivityType: models.ActivitySlackMessage, Title: "a"},
		{Provider: models.ProviderSlack, ActivityType: models.ActivitySlackMessage, Title: "b"},
		{Provider: models.ProviderSlack, ActivityType: models.ActivitySlackMessage, Title: "c"},
	}

	report := FormatDailySummary(day(t, "2025-01-06"), Group(records), models.ToneProfessional)

	if !strings.Contains(report, "- AB-7 [Done]") {
		t.Errorf("jira status suffix missing:\n%s", report)
	}
	if !strings.Contains(report, "- AB-8\n") {
		t.Errorf("jira bullet without status malformed:\n%s", report)
	}
	if !strings.Contains(report, "Team communication active") {
		t.Errorf("slack fixed line missing:\n%s", report)
	}
	if !strings.Contains(report, "3 interactions") {
		t.Errorf("slack interaction count missing:\n%s", report)
	}
	if strings.Contains(report, "- a\n") {
		t.Errorf("slack messages must not be enumerated:\n%s", report)
	}
}

func TestFormatExampleReport(t *testing.T) {
	report := FormatExampleReport(day(t, "2025-02-03"), models.ToneProfessional)

	for _, want := range []string{"2 commits pushed", "1 meeting attended", "Monday, February 3"} {
		if !strings.Contains(report, want) {
			t.Errorf("example report missing %q:\n%s", want, report)
		}
	}
}

func TestToneClosingThresholds(t *testing.T) {
	tests := []struct {
		name       string
		totalTasks int
		want       string
	}{
		{"high", 6, "High productivity day"},
		{"none", 0, "Low activity day"},
		{"steady", 3, "Steady progress maintained"},
	}

	preset := presetFor(models.ToneProfessional)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preset.closing(tt.totalTasks)
			if !strings.Contains(got, tt.want) {
				t.Errorf("closing for %d tasks = %q, want substring %q", tt.totalTasks, got, tt.want)
			}
		})
	}
}

func TestToneSwapsOnlyFixedStrings(t *testing.T) {
	records := []models.ActivityRecord{
		{Provider: models.ProviderGitHub, ActivityType: models.ActivityCommit, Title: "refactor"},
	}
	groups := Group(records)
	date := day(t, "2025-01-06")

	for _, tone := range []models.Tone{models.ToneFriendly, models.ToneCasual, models.ToneFormal, models.ToneProfessional} {
		t.Run(string(tone), func(t *testing.T) {
			report := FormatDailySummary(date, groups, tone)
			if !strings.Contains(report, "- refactor") {
				t.Errorf("tone %q changed section content:\n%s", tone, report)
			}
			if !strings.Contains(report, "1 tasks completed") {
				t.Errorf("tone %q changed counts:\n%s", tone, report)
			}
		})
	}
}
