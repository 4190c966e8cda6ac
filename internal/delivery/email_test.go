package delivery

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendSummaryPostsResendPayload(t *testing.T) {
	var got sendRequest
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" {
			t.Errorf("path = %q, want /emails", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(sendResponse{ID: "msg_123"})
	}))
	defer server.Close()

	client := NewResendClient(Config{
		APIKey:  "re_test",
		From:    "briefs@example.com",
		BaseURL: server.URL,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := client.SendSummary(context.Background(), "dana@example.com", "Your daily summary", "# Daily Work Summary")
	if err != nil {
		t.Fatalf("SendSummary returned error: %v", err)
	}

	if gotAuth != "Bearer re_test" {
		t.Errorf("Authorization = %q, want bearer API key", gotAuth)
	}
	if got.From != "briefs@example.com" {
		t.Errorf("from = %q", got.From)
	}
	if len(got.To) != 1 || got.To[0] != "dana@example.com" {
		t.Errorf("to = %v", got.To)
	}
	if !strings.Contains(got.Text, "Daily Work Summary") {
		t.Errorf("text missing summary body: %q", got.Text)
	}
}

func TestSendSummaryReportsAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"invalid api key"}`))
	}))
	defer server.Close()

	client := NewResendClient(Config{
		APIKey:  "re_bad",
		From:    "briefs@example.com",
		BaseURL: server.URL,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := client.SendSummary(context.Background(), "dana@example.com", "subject", "body")
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("error %q should mention status code", err)
	}
}

func TestNoopSenderDropsMessages(t *testing.T) {
	var sender Sender = NewNoopSender(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := sender.SendSummary(context.Background(), "dana@example.com", "s", "b"); err != nil {
		t.Errorf("noop sender returned error: %v", err)
	}

	// A nil logger must not panic either.
	if err := NewNoopSender(nil).SendSummary(context.Background(), "dana@example.com", "s", "b"); err != nil {
		t.Errorf("noop sender with nil logger returned error: %v", err)
	}
}

func TestSendSummaryRequiresConfiguration(t *testing.T) {
	client := NewResendClient(Config{From: "briefs@example.com"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := client.SendSummary(context.Background(), "dana@example.com", "s", "b"); err == nil {
		t.Error("expected error when API key is missing")
	}

	configured := NewResendClient(Config{APIKey: "re_test", From: "briefs@example.com"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := configured.SendSummary(context.Background(), "", "s", "b"); err == nil {
		t.Error("expected error for empty recipient")
	}
}
