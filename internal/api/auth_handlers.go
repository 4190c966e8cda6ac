package api

import (
	"encoding/json"
	"net/http"
	"time"

	"log/slog"

	"github.com/autobrief/autobrief/internal/auth"
	"github.com/autobrief/autobrief/internal/config"
	"github.com/autobrief/autobrief/internal/store"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	config config.AuthConfig
	users  store.UserRepository
	logger *slog.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(cfg config.AuthConfig, users store.UserRepository, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		config: cfg,
		users:  users,
		logger: logger,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token     string    `json:"token"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.logger.Error("failed to look up user", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Generic rejection so the response does not reveal which accounts exist.
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		h.logger.Warn("failed login attempt", "ip", r.RemoteAddr)
		writeError(w, h.logger, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.GenerateToken(user.ID, h.config)
	if err != nil {
		h.logger.Error("failed to generate token", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.Info("successful login", "user_id", user.ID, "ip", r.RemoteAddr)

	writeJSON(w, h.logger, http.StatusOK, LoginResponse{
		Token:     token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(h.config.TokenExpiry),
	})
}

// Validate handles GET /api/auth/validate. The middleware has already
// verified the token by the time this runs.
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, _ := auth.UserIDFromContext(r.Context())
	writeJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"valid":   true,
		"user_id": userID,
	})
}
