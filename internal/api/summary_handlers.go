package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/autobrief/autobrief/internal/auth"
	"github.com/autobrief/autobrief/internal/briefing"
	"github.com/autobrief/autobrief/internal/metrics"
	"github.com/autobrief/autobrief/internal/models"
	"github.com/autobrief/autobrief/internal/store"
)

// SummaryHandler serves on-demand summary generation and history.
type SummaryHandler struct {
	generator *briefing.Generator
	summaries store.SummaryRepository
	collector *metrics.Collector
	logger    *slog.Logger
}

// NewSummaryHandler creates a summary handler.
func NewSummaryHandler(generator *briefing.Generator, summaries store.SummaryRepository, collector *metrics.Collector, logger *slog.Logger) *SummaryHandler {
	return &SummaryHandler{
		generator: generator,
		summaries: summaries,
		collector: collector,
		logger:    logger,
	}
}

// GenerateRequest is the body of POST /api/summaries/generate.
type GenerateRequest struct {
	Date   string `json:"date"`
	Tone   string `json:"tone,omitempty"`
	Filter string `json:"filter,omitempty"`
}

// GenerateResponse wraps a generated summary.
type GenerateResponse struct {
	Summary          string `json:"summary"`
	Date             string `json:"date"`
	Tone             string `json:"tone"`
	Filter           string `json:"filter"`
	TasksCompleted   int    `json:"tasks_completed"`
	MeetingsAttended int    `json:"meetings_attended"`
	CodeCommits      int    `json:"code_commits"`
	Blockers         int    `json:"blockers"`
}

// Generate handles POST /api/summaries/generate.
func (h *SummaryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}

	for _, err := range []error{ValidateDate(req.Date), ValidateTone(req.Tone), ValidateFilter(req.Filter)} {
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := h.generator.GenerateDailySummary(r.Context(), userID, req.Date, briefing.Options{
		Tone:   models.Tone(req.Tone),
		Filter: models.Filter(req.Filter),
	})
	if err != nil {
		if errors.Is(err, briefing.ErrInvalidArgument) {
			writeError(w, h.logger, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to generate summary", "user_id", userID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.summaries.Upsert(r.Context(), result.ToDailySummary(userID, time.Now())); err != nil {
		h.logger.Error("failed to persist summary", "user_id", userID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}

	if h.collector != nil {
		h.collector.SummaryGenerated(result.Outcome())
	}

	writeJSON(w, h.logger, http.StatusOK, GenerateResponse{
		Summary:          result.Text,
		Date:             result.Date,
		Tone:             string(result.Tone),
		Filter:           string(result.Filter),
		TasksCompleted:   result.TasksCompleted,
		MeetingsAttended: result.MeetingsAttended,
		CodeCommits:      result.CodeCommits,
		Blockers:         result.Blockers,
	})
}

// List handles GET /api/summaries. With ?date= it returns the single
// summary for that date; otherwise the most recent summaries.
func (h *SummaryHandler) List(w http.ResponseWriter, r *http.Request) {
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

		summary, err := h.summaries.GetByDate(r.Context(), userID, date)
		if err != nil {
			h.logger.Error("failed to get summary", "user_id", userID, "error", err)
			writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
			return
		}
		if summary == nil {
			writeError(w, h.logger, http.StatusNotFound, "No summary for that date")
			return
		}
		writeJSON(w, h.logger, http.StatusOK, summary)
		return
	}

	summaries, err := h.summaries.ListByUser(r.Context(), userID, 30)
	if err != nil {
		h.logger.Error("failed to list summaries", "user_id", userID, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"summaries": summaries,
		"count":     len(summaries),
	})
}
