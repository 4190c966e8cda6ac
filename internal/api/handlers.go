package api

import (
	"encoding/json"
	"net/http"
	"time"

	"log/slog"
)

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

// errorResponse is the JSON shape for all handler errors.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	writeJSON(w, logger, status, errorResponse{Error: message})
}

// HealthHandler reports process liveness and basic dependency status.
type HealthHandler struct {
	logger    *slog.Logger
	startTime time.Time
	checks    map[string]func() error
}

// NewHealthHandler creates a health handler. Checks run on every request.
func NewHealthHandler(logger *slog.Logger, checks map[string]func() error) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		startTime: time.Now(),
		checks:    checks,
	}
}

// Healthz handles GET /healthz.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := http.StatusOK
	deps := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			deps[name] = "ok"
		}
	}

	writeJSON(w, h.logger, status, map[string]interface{}{
		"status":         map[bool]string{true: "ok", false: "degraded"}[status == http.StatusOK],
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
		"dependencies":   deps,
	})
}
