package api

import (
	"net/http"
	"strconv"

	"log/slog"

	"github.com/autobrief/autobrief/internal/auth"
	"github.com/autobrief/autobrief/internal/briefing"
	"github.com/autobrief/autobrief/internal/store"
)

const defaultActivityLimit = 50

// ActivityHandler serves the raw activity feed.
type ActivityHandler struct {
	activities store.ActivityRepository
	logger     *slog.Logger
}

// NewActivityHandler creates an activity handler.
func NewActivityHandler(activities store.ActivityRepository, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		activities: activities,
		logger:     logger,
	}
}

// List handles GET /api/activities. With ?date= it returns that day's
// records; otherwise the most recent ones (?limit= caps the count).
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, "Authentication required")
		return
	}

	if date := r.URL.Query().Get("date"); date != "" {
		if err := ValidateDate(date); err != nil {
			writeError(w, h.logger, http.StatusBadRequest, err.Error())
			return
		}

		start, end, err := briefing.DayRange(date)
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, "Date must be YYYY-MM-DD")
			return
		}

		records, err := h.activities.GetByDateRange(r.Context(), userID, start, end)
		if err != nil {
			h.logger.Error("failed to get activities", "user_id", userID, "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
			"activities": records,
			"count":      len(records),
			"date":       date,
		})
		return
	}

	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			writeError(w, h.logger, http.StatusBadRequest, "Limit must be between 1 and 500")
			return
		}
		limit = n
	}

	records, err := h.activities.ListRecent(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("failed to list activities", "user_id", userID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"activities": records,
		"count":      len(records),
	})
}
