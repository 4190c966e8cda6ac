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

// CalendarAdapter converts Google Calendar events into calendar_event
// activity records, carrying the meeting duration in minutes as metadata.
type CalendarAdapter struct {
	config AdapterConfig
	client *http.Client
	logger *slog.Logger
}

// NewCalendarAdapter creates a Google Calendar adapter.
func NewCalendarAdapter(config AdapterConfig, logger *slog.Logger) *CalendarAdapter {
	if config.BaseURL == "" {
		config.BaseURL = "https://www.googleapis.com/calendar/v3"
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &CalendarAdapter{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

// Provider returns the provider this adapter serves.
func (a *CalendarAdapter) Provider() models.Provider {
	return models.ProviderGoogleCalendar
}

type calendarEventList struct {
	Items []struct {
		ID      string `json:"id"`
		Summary string `json:"summary"`
		Status  string `json:"status"`
		Start   struct {
			DateTime time.Time `json:"dateTime"`
		} `json:"start"`
		End struct {
			DateTime time.Time `json:"dateTime"`
		} `json:"end"`
	} `json:"items"`
}

// Fetch retrieves primary-calendar events starting after since.
func (a *CalendarAdapter) Fetch(ctx context.Context, integration models.Integration, since time.Time) ([]models.ActivityRecord, error) {
	query := url.Values{}
	query.Set("timeMin", since.Format(time.RFC3339))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")

	endpoint := fmt.Sprintf("%s/calendars/primary/events?%s", a.config.BaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+integration.AccessToken)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("calendar returned %d: %s", resp.StatusCode, body)
	}

	var list calendarEventList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode calendar response: %w", err)
	}

	var records []models.ActivityRecord
	for _, item := range list.Items {
		if item.Status == "cancelled" || item.Start.DateTime.IsZero() {
			continue
		}

		metadata := map[string]interface{}{}
		if !item.End.DateTime.IsZero() {
			metadata["duration"] = int(item.End.DateTime.Sub(item.Start.DateTime).Minutes())
		}

		records = append(records, models.ActivityRecord{
			UserID:        integration.UserID,
			IntegrationID: integration.ID,
			Provider:      models.ProviderGoogleCalendar,
			ActivityType:  models.ActivityCalendarEvent,
			Title:         item.Summary,
			ExternalID:    item.ID,
			Metadata:      metadata,
			Timestamp:     item.Start.DateTime,
		})
	}

	return records, nil
}

// HealthCheck verifies the API is reachable.
func (a *CalendarAdapter) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL, nil)
	if err != nil {
		return err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("calendar api unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}
