package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/autobrief/autobrief/internal/models"

	"log/slog"
)

// GitHubAdapter converts a user's GitHub events into activity records:
// pushes become commits, pull request events become PRs, issue events
// become issues.
type GitHubAdapter struct {
	config AdapterConfig
	client *http.Client
	logger *slog.Logger
}

// NewGitHubAdapter creates a GitHub adapter.
func NewGitHubAdapter(config AdapterConfig, logger *slog.Logger) *GitHubAdapter {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.github.com"
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &GitHubAdapter{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// Provider returns the provider this adapter serves.
func (a *GitHubAdapter) Provider() models.Provider {
	return models.ProviderGitHub
}

type githubEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	Repo      struct {
		Name string `json:"name"`
	} `json:"repo"`
	Payload struct {
		Action  string `json:"action"`
		Commits []struct {
			SHA     string `json:"sha"`
			Message string `json:"message"`
		} `json:"commits"`
		PullRequest struct {
			Title   string `json:"title"`
			HTMLURL string `json:"html_url"`
		} `json:"pull_request"`
		Issue struct {
			Title   string `json:"title"`
			HTMLURL string `json:"html_url"`
		} `json:"issue"`
	} `json:"payload"`
}

// Fetch retrieves the account's recent public/authorized events.
func (a *GitHubAdapter) Fetch(ctx context.Context, integration models.Integration, since time.Time) ([]models.ActivityRecord, error) {
	if integration.ProviderUsername == "" {
		return nil, fmt.Errorf("github integration has no provider username")
	}

	url := fmt.Sprintf("%s/users/%s/events?per_page=100", a.config.BaseURL, integration.ProviderUsername)
	var events []githubEvent
	if err := a.getJSON(ctx, url, integration.AccessToken, &events); err != nil {
		return nil, err
	}

	var records []models.ActivityRecord
	for _, event := range events {
		if event.CreatedAt.Before(since) {
			continue
		}

		switch event.Type {
		case "PushEvent":
			for _, commit := range event.Payload.Commits {
				records = append(records, models.ActivityRecord{
					UserID:        integration.UserID,
					IntegrationID: integration.ID,
					Provider:      models.ProviderGitHub,
					ActivityType:  models.ActivityCommit,
					Title:         firstLine(commit.Message),
					ExternalID:    commit.SHA,
					Metadata:      map[string]interface{}{"repo": event.Repo.Name},
					Timestamp:     event.CreatedAt,
				})
			}
		case "PullRequestEvent":
			records = append(records, models.ActivityRecord{
				UserID:        integration.UserID,
				IntegrationID: integration.ID,
				Provider:      models.ProviderGitHub,
				ActivityType:  models.ActivityPR,
				Title:         event.Payload.PullRequest.Title,
				ExternalID:    event.ID,
				Metadata: map[string]interface{}{
					"repo":   event.Repo.Name,
					"action": event.Payload.Action,
					"url":    event.Payload.PullRequest.HTMLURL,
				},
				Timestamp: event.CreatedAt,
			})
		case "IssuesEvent":
			records = append(records, models.ActivityRecord{
				UserID:        integration.UserID,
				IntegrationID: integration.ID,
				Provider:      models.ProviderGitHub,
				ActivityType:  models.ActivityIssue,
				Title:         event.Payload.Issue.Title,
				ExternalID:    event.ID,
				Metadata: map[string]interface{}{
					"repo":   event.Repo.Name,
					"action": event.Payload.Action,
					"url":    event.Payload.Issue.HTMLURL,
				},
				Timestamp: event.CreatedAt,
			})
		}
	}

	return records, nil
}

// HealthCheck verifies the API is reachable.
func (a *GitHubAdapter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL, nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("github unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (a *GitHubAdapter) getJSON(ctx context.Context, url, token string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("github returned %d: %s", resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
