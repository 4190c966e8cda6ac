package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/autobrief/autobrief/internal/models"

	"log/slog"
)

// SlackAdapter converts the user's messages into slack_message activity
// records. The formatter only ever reports Slack as an interaction count,
// so titles stay short.
type SlackAdapter struct {
	config AdapterConfig
	client *http.Client
	logger *slog.Logger
}

// NewSlackAdapter creates a Slack adapter.
func NewSlackAdapter(config AdapterConfig, logger *slog.Logger) *SlackAdapter {
	if config.BaseURL == "" {
		config.BaseURL = "https://slack.com/api"
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &SlackAdapter{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// Provider returns the provider this adapter serves.
func (a *SlackAdapter) Provider() models.Provider {
	return models.ProviderSlack
}

type slackHistoryResponse struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error"`
	Messages []struct {
		TS   string `json:"ts"`
		User string `json:"user"`
		Text string `json:"text"`
	} `json:"messages"`
}

// Fetch retrieves the user's recent messages from their primary channel.
// The channel ID comes from integration metadata populated at connect time.
func (a *SlackAdapter) Fetch(ctx context.Context, integration models.Integration, since time.Time) ([]models.ActivityRecord, error) {
	channel, _ := integration.Metadata["channel_id"].(string)
	if channel == "" {
		return nil, fmt.Errorf("slack integration has no channel_id metadata")
	}

	query := url.Values{}
	query.Set("channel", channel)
	query.Set("oldest", fmt.Sprintf("%d.000000", since.Unix()))

	endpoint := fmt.Sprintf("%s/conversations.history?%s", a.config.BaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+integration.AccessToken)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("slack request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("slack returned %d: %s", resp.StatusCode, body)
	}

	var history slackHistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		return nil, fmt.Errorf("failed to decode slack response: %w", err)
	}
	if !history.OK {
		return nil, fmt.Errorf("slack api error: %s", history.Error)
	}

	var records []models.ActivityRecord
	for _, message := range history.Messages {
		ts, err := parseSlackTS(message.TS)
		if err != nil {
			continue
		}
		records = append(records, models.ActivityRecord{
			UserID:        integration.UserID,
			IntegrationID: integration.ID,
			Provider:      models.ProviderSlack,
			ActivityType:  models.ActivitySlackMessage,
			Title:         truncate(message.Text, 80),
			ExternalID:    message.TS,
			Metadata:      map[string]interface{}{"channel": channel},
			Timestamp:     ts,
		})
	}

	return records, nil
}

// HealthCheck verifies the API is reachable.
func (a *SlackAdapter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL+"/api.test", nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("slack unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

// parseSlackTS converts Slack's "seconds.micros" timestamp string.
func parseSlackTS(ts string) (time.Time, error) {
	seconds := ts
	if idx := strings.IndexByte(ts, '.'); idx >= 0 {
		seconds = ts[:idx]
	}
	unix, err := strconv.ParseInt(seconds, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad slack timestamp %q: %w", ts, err)
	}
	return time.Unix(unix, 0), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
