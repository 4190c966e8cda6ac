package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/autobrief/autobrief/internal/models"

	"log/slog"
)

// NotionAdapter converts recently edited pages into issue activity
// records. Notion has no renderer of its own in the formatter yet, but
// records still land in the store and feed the LLM path.
type NotionAdapter struct {
	config AdapterConfig
	client *http.Client
	logger *slog.Logger
}

// NewNotionAdapter creates a Notion adapter.
func NewNotionAdapter(config AdapterConfig, logger *slog.Logger) *NotionAdapter {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.notion.com/v1"
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &NotionAdapter{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// Provider returns the provider this adapter serves.
func (a *NotionAdapter) Provider() models.Provider {
	return models.ProviderNotion
}

type notionSearchResponse struct {
	Results []struct {
		ID             string    `json:"id"`
		LastEditedTime time.Time `json:"last_edited_time"`
		Properties     struct {
			Title struct {
				Title []struct {
					PlainText string `json:"plain_text"`
				} `json:"title"`
			} `json:"title"`
		} `json:"properties"`
	} `json:"results"`
}

// Fetch retrieves pages edited since the given time.
func (a *NotionAdapter) Fetch(ctx context.Context, integration models.Integration, since time.Time) ([]models.ActivityRecord, error) {
	body := strings.NewReader(`{"filter":{"property":"object","value":"page"},"sort":{"direction":"descending","timestamp":"last_edited_time"}}`)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+"/search", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+integration.AccessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", "2022-06-28")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("notion request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("notion returned %d: %s", resp.StatusCode, msg)
	}

	var search notionSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&search); err != nil {
		return nil, fmt.Errorf("failed to decode notion response: %w", err)
	}

	var records []models.ActivityRecord
	for _, page := range search.Results {
		if page.LastEditedTime.Before(since) {
			continue
		}

		title := "Untitled page"
		if len(page.Properties.Title.Title) > 0 {
			title = page.Properties.Title.Title[0].PlainText
		}

		records = append(records, models.ActivityRecord{
			UserID:        integration.UserID,
			IntegrationID: integration.ID,
			Provider:      models.ProviderNotion,
			ActivityType:  models.ActivityIssue,
			Title:         title,
			ExternalID:    page.ID,
			Timestamp:     page.LastEditedTime,
		})
	}

	return records, nil
}

// HealthCheck verifies the API is reachable.
func (a *NotionAdapter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL+"/users/me", nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("notion unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}
