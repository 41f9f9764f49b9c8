package handler

import (
	"net/http"
	"time"

	"kloudcart/internal/middleware"
	"kloudcart/internal/model"
	"kloudcart/internal/service"
	"kloudcart/internal/session"

	"github.com/rs/zerolog"
)

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	service    service.AuthService
	sessionTTL time.Duration
	logger     zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, sessionTTL time.Duration, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:    service,
		sessionTTL: sessionTTL,
		logger:     logger.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /api/auth/register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if _, ok := err.(*model.DomainError); !ok {
			// Validation failures carry their own message.
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, err.Error(), h.logger)
			return
		}
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login handles POST /api/auth/login requests. A successful login sets
// the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	user, token, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout requests. Logging out without a
// session succeeds quietly.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		token = cookie.Value
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		h.logger.Error().Err(err).Msg("failed to invalidate session")
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

// Me handles GET /api/auth/me requests for the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeDomainError(w, model.ErrNotAuthenticated, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
