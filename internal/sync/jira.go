package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/autobrief/autobrief/internal/models"

	"log/slog"
)

// JiraAdapter converts issues the user recently worked on into jira_issue
// activity records, carrying the workflow status as metadata.
type JiraAdapter struct {
	config AdapterConfig
	client *http.Client
	logger *slog.Logger
}

// NewJiraAdapter creates a Jira adapter. BaseURL must point at the
// tenant's site (https://<tenant>.atlassian.net).
func NewJiraAdapter(config AdapterConfig, logger *slog.Logger) *JiraAdapter {
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &JiraAdapter{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// Provider returns the provider this adapter serves.
func (a *JiraAdapter) Provider() models.Provider {
	return models.ProviderJira
}

type jiraSearchResponse struct {
	Issues []struct {
		ID     string `json:"id"`
		Key    string `json:"key"`
		Fields struct {
			Summary string `json:"summary"`
			Status  struct {
				Name string `json:"name"`
			} `json:"status"`
			Updated string `json:"updated"`
		} `json:"fields"`
	} `json:"issues"`
}

// jiraTimeLayout is Jira's REST timestamp format.
const jiraTimeLayout = "2006-01-02T15:04:05.000-0700"

// Fetch retrieves issues assigned to the account and updated since the
// given time.
func (a *JiraAdapter) Fetch(ctx context.Context, integration models.Integration, since time.Time) ([]models.ActivityRecord, error) {
	if a.config.BaseURL == "" {
		return nil, fmt.Errorf("jira adapter has no base URL configured")
	}

	jql := fmt.Sprintf("assignee = currentUser() AND updated >= '%s' ORDER BY updated DESC",
		since.Format("2006-01-02 15:04"))
	query := url.Values{}
	query.Set("jql", jql)
	query.Set("fields", "summary,status,updated")

	endpoint := fmt.Sprintf("%s/rest/api/3/search?%s", a.config.BaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+integration.AccessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("jira request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("jira returned %d: %s", resp.StatusCode, body)
	}

	var search jiraSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("failed to decode jira response: %w", err)
	}

	var records []models.ActivityRecord
	for _, issue := range search.Issues {
		updated, err := time.Parse(jiraTimeLayout, issue.Fields.Updated)
		if err != nil {
			a.logger.Warn("skipping jira issue with unparseable timestamp",
				"key", issue.Key,
				"updated", issue.Fields.Updated)
			continue
		}

		records = append(records, models.ActivityRecord{
			UserID:        integration.UserID,
			IntegrationID: integration.ID,
			Provider:      models.ProviderJira,
			ActivityType:  models.ActivityJiraIssue,
			Title:         fmt.Sprintf("%s: %s", issue.Key, issue.Fields.Summary),
			ExternalID:    issue.ID,
			Metadata:      map[string]interface{}{"status": issue.Fields.Status.Name},
			Timestamp:     updated,
		})
	}

	return records, nil
}

// HealthCheck verifies the API is reachable.
func (a *JiraAdapter) HealthCheck(ctx context.Context) error {
	if a.config.BaseURL == "" {
		return fmt.Errorf("jira adapter has no base URL configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL, nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("jira unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}
