package api

import (
	"encoding/json"
	"net/http"

	"log/slog"

	"github.com/autobrief/autobrief/internal/assistant"
	"github.com/autobrief/autobrief/internal/auth"
)

// AssistantHandler serves the LLM-backed endpoints. The assistant never
// returns errors; failures surface as fallback text with a 200.
type AssistantHandler struct {
	assistant *assistant.Assistant
	logger    *slog.Logger
}

// NewAssistantHandler creates an assistant handler.
func NewAssistantHandler(a *assistant.Assistant, logger *slog.Logger) *AssistantHandler {
	return &AssistantHandler{
		assistant: a,
		logger:    logger,
	}
}

// ChatRequest is the body of POST /api/assistant/chat.
type ChatRequest struct {
	Query string `json:"query"`
}

// Chat handles POST /api/assistant/chat.
func (h *AssistantHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Query is required")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, map[string]string{
		"response": h.assistant.Chat(r.Context(), userID, req.Query),
	})
}

// Summary handles POST /api/assistant/summary.
func (h *AssistantHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]string{
		"summary": h.assistant.SmartSummary(r.Context(), userID),
	})
}

// Standup handles POST /api/assistant/standup.
func (h *AssistantHandler) Standup(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]string{
		"report": h.assistant.StandupReport(r.Context(), userID),
	})
}

// Patterns handles POST /api/assistant/patterns.
func (h *AssistantHandler) Patterns(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]string{
		"analysis": h.assistant.AnalyzeWorkPatterns(r.Context(), userID),
	})
}

// Weekly handles POST /api/assistant/weekly.
func (h *AssistantHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]string{
		"report": h.assistant.WeeklyReport(r.Context(), userID),
	})
}

// Suggestions handles POST /api/assistant/suggestions.
func (h *AssistantHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requirePost(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"suggestions": h.assistant.SuggestNextTasks(r.Context(), userID),
	})
}

func (h *AssistantHandler) requirePost(w http.ResponseWriter, r *http.Request) (int, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return 0, false
	}
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, http.StatusUnauthorized, "Authentication required")
		return 0, false
	}
	return userID, true
}
