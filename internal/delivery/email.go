package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Sender delivers a generated summary to a recipient.
type Sender interface {
	SendSummary(ctx context.Context, to, subject, body string) error
}

// Config holds email delivery settings.
type Config struct {
	APIKey  string
	From    string
	BaseURL string
	Timeout time.Duration
}

// DefaultConfig returns delivery settings for the Resend API.
func DefaultConfig(apiKey, from string) Config {
	return Config{
		APIKey:  apiKey,
		From:    from,
		BaseURL: "https://api.resend.com",
		Timeout: 15 * time.Second,
	}
}

// ResendClient sends email through the Resend HTTP API.
type ResendClient struct {
	config Config
	client *http.Client
	logger *slog.Logger
}

// NewResendClient creates a Resend email client.
func NewResendClient(config Config, logger *slog.Logger) *ResendClient {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.resend.com"
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	return &ResendClient{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
}

type sendResponse struct {
	ID string `json:"id"`
}

// SendSummary delivers a summary as a plain-text email.
func (c *ResendClient) SendSummary(ctx context.Context, to, subject, body string) error {
	if c.config.APIKey == "" {
		return fmt.Errorf("email delivery not configured: missing API key")
	}
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	payload, err := json.Marshal(sendRequest{
		From:    c.config.From,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend returned %d: %s", resp.StatusCode, msg)
	}

	var sent sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sent); err == nil && sent.ID != "" {
		c.logger.Info("summary email sent", "to", to, "message_id", sent.ID)
	} else {
		c.logger.Info("summary email sent", "to", to)
	}
	return nil
}

// NoopSender satisfies Sender without sending anything. Used when email
// delivery is not configured.
type NoopSender struct {
	Logger *slog.Logger
}

// NewNoopSender creates a sender that drops every message.
func NewNoopSender(logger *slog.Logger) NoopSender {
	return NoopSender{Logger: logger}
}

// SendSummary logs and drops the message.
func (s NoopSender) SendSummary(ctx context.Context, to, subject, body string) error {
	if s.Logger != nil {
		s.Logger.Debug("email delivery disabled, dropping message", "to", to, "subject", subject)
	}
	return nil
}
