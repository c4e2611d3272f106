package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/astreus-ai/astreus-admin-be/internal/auth"
	"github.com/astreus-ai/astreus-admin-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for account management. Every route it
// serves sits behind the admin middleware.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// GetAll handles the request to list all accounts.
func (h *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list users")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// Get handles retrieving an account by its ID.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.service.GetUserByID(id)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id).Msg("Failed to get user by ID")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, user)
}

// Create handles new account creation.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Password string `json:"password"`
		IsAdmin  bool   `json:"isAdmin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Username == "" || payload.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.service.CreateUser(payload.Username, payload.Password, payload.IsAdmin)
	if err != nil {
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to create user")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Delete handles the permanent deletion of an account. The service refuses to
// delete the caller's own account or the last remaining administrator.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		log.Error().Msg("No session in context on an admin route")
		respondError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.service.DeleteUser(id, session.Username); err != nil {
		log.Warn().Err(err).Str("user_id", id).Str("caller", session.Username).Msg("Failed to delete user")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}
