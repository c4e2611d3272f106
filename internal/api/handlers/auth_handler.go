package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/astreus-ai/astreus-admin-be/internal/auth"
	"github.com/astreus-ai/astreus-admin-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AuthHandler handles login, logout and session introspection.
type AuthHandler struct {
	service  services.UserServiceProvider
	tokens   *auth.TokenManager
	verifier *auth.Verifier
	isProd   bool
}

// NewAuthHandler creates a new AuthHandler. isProd controls the Secure flag
// on the session cookie.
func NewAuthHandler(service services.UserServiceProvider, tokens *auth.TokenManager, verifier *auth.Verifier, isProd bool) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens, verifier: verifier, isProd: isProd}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles credential verification and session token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.service.AuthenticateUser(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrUnavailable) {
			respondServiceError(w, err)
			return
		}
		log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue session token")
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(auth.TokenTTL),
		HttpOnly: true,
		Secure:   h.isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// Me reports the session state of the presented credential. Public: an
// invalid or missing credential answers authenticated:false, never an error.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.verifier.Verify(r))
}
