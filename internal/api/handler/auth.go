package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"papertrade/internal/auth"
	"papertrade/internal/domain"
	"papertrade/internal/service"
	"papertrade/internal/util"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	service   service.AuthService
	logger    *slog.Logger
	jwtSecret string
	tokenTTL  time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc service.AuthService, logger *slog.Logger, jwtSecret string, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		service:   svc,
		logger:    logger,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
	}
}

// RegisterRequest is the request body for POST /register.
type RegisterRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	Confirmation string `json:"confirmation"`
}

// LoginRequest is the request body for POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /register. A successful registration logs the
// user straight in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Password, req.Confirmation)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	h.logger.Info("registered new user", "username", user.Username, "user_id", user.ID)
	h.issueSession(w, user, http.StatusCreated)
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, h.logger, util.ErrInvalidInput)
		return
	}

	user, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithError(w, h.logger, err)
		return
	}

	h.issueSession(w, user, http.StatusOK)
}

// Logout handles GET /logout by expiring the session cookie. Bearer
// tokens are stateless and simply age out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondWithJSON(w, h.logger, http.StatusOK, map[string]string{"message": "Logged out"})
}

// issueSession mints a token for user and sets it both in the response
// body (for API clients) and as the session cookie (for browsers, so
// /logout has something to clear).
func (h *AuthHandler) issueSession(w http.ResponseWriter, user *domain.User, code int) {
	token, err := auth.NewToken(user, h.jwtSecret, h.tokenTTL)
	if err != nil {
		h.logger.Error("failed to mint token", "user_id", user.ID, "error", err)
		respondWithError(w, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.tokenTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondWithJSON(w, h.logger, code, map[string]interface{}{
		"token":    token,
		"user_id":  user.ID,
		"username": user.Username,
		"cash":     user.Cash,
	})
}
