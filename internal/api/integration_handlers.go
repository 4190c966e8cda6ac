package api

import (
	"net/http"
	"strings"

	"log/slog"

	"github.com/autobrief/autobrief/internal/auth"
	"github.com/autobrief/autobrief/internal/metrics"
	"github.com/autobrief/autobrief/internal/scheduler"
	"github.com/autobrief/autobrief/internal/store"
)

// IntegrationHandler serves connected-account listing and manual syncs.
type IntegrationHandler struct {
	integrations store.IntegrationRepository
	syncer       scheduler.UserSyncer
	collector    *metrics.Collector
	logger       *slog.Logger
}

// NewIntegrationHandler creates an integration handler.
func NewIntegrationHandler(integrations store.IntegrationRepository, syncer scheduler.UserSyncer, collector *metrics.Collector, logger *slog.Logger) *IntegrationHandler {
	return &IntegrationHandler{
		integrations: integrations,
		syncer:       syncer,
		collector:    collector,
		logger:       logger,
	}
}

// List handles GET /api/integrations. Tokens never appear in the
// response; the model hides them from JSON.
func (h *IntegrationHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, "Authentication required")
		return
	}

	integrations, err := h.integrations.ListByUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list integrations", "user_id", userID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"integrations": integrations,
		"count":        len(integrations),
	})
}

// Sync handles POST /api/integrations/{provider}/sync. The provider
// segment is validated; the sync itself covers all of the user's
// connected integrations.
func (h *IntegrationHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, "Authentication required")
		return
	}

	// Path: /api/integrations/{provider}/sync
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 4 || parts[3] != "sync" {
		http.NotFound(w, r)
		return
	}
	provider := parts[2]
	if err := ValidateProvider(provider); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.syncer.SyncUser(r.Context(), userID); err != nil {
		if h.collector != nil {
			h.collector.SyncRun("error")
		}
		h.logger.Error("manual sync failed", "user_id", userID, "provider", provider, "error", err)
		writeError(w, h.logger, http.StatusBadGateway, "Sync failed for one or more integrations")
		return
	}
	if h.collector != nil {
		h.collector.SyncRun("ok")
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"status":   "synced",
		"provider": provider,
	})
}
