package api

import (
	"net/http"

	"log/slog"

	"github.com/autobrief/autobrief/internal/assistant"
	"github.com/autobrief/autobrief/internal/auth"
	"github.com/autobrief/autobrief/internal/briefing"
	"github.com/autobrief/autobrief/internal/config"
	"github.com/autobrief/autobrief/internal/metrics"
	"github.com/autobrief/autobrief/internal/scheduler"
	"github.com/autobrief/autobrief/internal/store"
)

// Dependencies bundles everything the routes need.
type Dependencies struct {
	Generator    *briefing.Generator
	Assistant    *assistant.Assistant
	Syncer       scheduler.UserSyncer
	Activities   store.ActivityRepository
	Integrations store.IntegrationRepository
	Summaries    store.SummaryRepository
	Users        store.UserRepository
	Collector    *metrics.Collector
	AuthConfig   config.AuthConfig
	HealthChecks map[string]func() error
}

// SetupRoutes configures all API routes on the mux.
func SetupRoutes(mux *http.ServeMux, deps Dependencies, logger *slog.Logger) {
	authHandler := NewAuthHandler(deps.AuthConfig, deps.Users, logger)
	summaryHandler := NewSummaryHandler(deps.Generator, deps.Summaries, deps.Collector, logger)
	activityHandler := NewActivityHandler(deps.Activities, logger)
	integrationHandler := NewIntegrationHandler(deps.Integrations, deps.Syncer, deps.Collector, logger)
	assistantHandler := NewAssistantHandler(deps.Assistant, logger)
	healthHandler := NewHealthHandler(logger, deps.HealthChecks)

	authMiddleware := auth.Middleware(deps.AuthConfig)
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authMiddleware(h).ServeHTTP(w, r)
		}
	}

	// Authentication routes
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/validate", protected(authHandler.Validate))

	// Activity feed
	mux.HandleFunc("/api/activities", protected(activityHandler.List))

	// Summaries
	mux.HandleFunc("/api/summaries", protected(summaryHandler.List))
	mux.HandleFunc("/api/summaries/generate", protected(summaryHandler.Generate))

	// Integrations
	mux.HandleFunc("/api/integrations", protected(integrationHandler.List))
	mux.HandleFunc("/api/integrations/", protected(integrationHandler.Sync))

	// Assistant
	mux.HandleFunc("/api/assistant/chat", protected(assistantHandler.Chat))
	mux.HandleFunc("/api/assistant/summary", protected(assistantHandler.Summary))
	mux.HandleFunc("/api/assistant/standup", protected(assistantHandler.Standup))
	mux.HandleFunc("/api/assistant/patterns", protected(assistantHandler.Patterns))
	mux.HandleFunc("/api/assistant/weekly", protected(assistantHandler.Weekly))
	mux.HandleFunc("/api/assistant/suggestions", protected(assistantHandler.Suggestions))

	// Operational endpoints
	mux.HandleFunc("/healthz", healthHandler.Healthz)
	if deps.Collector != nil {
		mux.Handle("/metrics", deps.Collector.Handler())
	}
}
