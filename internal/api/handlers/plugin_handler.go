package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/astreus-ai/astreus-admin-be/internal/models"
	"github.com/astreus-ai/astreus-admin-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// PluginHandler handles HTTP requests for the plugin catalog.
type PluginHandler struct {
	service services.PluginServiceProvider
}

// NewPluginHandler creates a new PluginHandler.
func NewPluginHandler(service services.PluginServiceProvider) *PluginHandler {
	return &PluginHandler{service: service}
}

// PluginPayload is the request body for create and update. ImageData stays a
// raw message so an omitted field, an explicit null and a string value can be
// told apart: omitted keeps the stored image, null clears it.
type PluginPayload struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Author      string          `json:"author"`
	GithubURL   string          `json:"githubUrl"`
	DocsURL     string          `json:"docsUrl"`
	ImageData   json.RawMessage `json:"imageData"`
}

// decodeImage resolves the tri-state imageData field. keep reports that the
// field was absent from the request body.
func (p *PluginPayload) decodeImage() (image string, keep bool, err error) {
	if p.ImageData == nil {
		return "", true, nil
	}
	if string(p.ImageData) == "null" {
		return "", false, nil
	}
	err = json.Unmarshal(p.ImageData, &image)
	return image, false, err
}

func (p *PluginPayload) missingRequired() bool {
	return p.Name == "" || p.Description == "" || p.Author == "" || p.GithubURL == ""
}

// List handles the public catalog listing with search and pagination.
func (h *PluginHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	result, err := h.service.ListPlugins(q.Get("search"), page, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list plugins")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Get handles the request to get a single plugin by its ID.
func (h *PluginHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	plugin, err := h.service.GetPluginByID(id)
	if err != nil {
		log.Warn().Err(err).Str("plugin_id", id).Msg("Failed to get plugin by ID")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plugin)
}

// Create handles the request to add a plugin to the catalog.
func (h *PluginHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload PluginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.missingRequired() {
		respondError(w, http.StatusBadRequest, "name, description, author and githubUrl are required")
		return
	}
	image, _, err := payload.decodeImage()
	if err != nil {
		respondError(w, http.StatusBadRequest, "imageData must be a string or null")
		return
	}

	plugin, err := h.service.CreatePlugin(models.Plugin{
		Name:        payload.Name,
		Description: payload.Description,
		Author:      payload.Author,
		GithubURL:   payload.GithubURL,
		DocsURL:     payload.DocsURL,
		ImageData:   image,
	})
	if err != nil {
		log.Error().Err(err).Str("name", payload.Name).Msg("Failed to create plugin")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, plugin)
}

// Update handles a full-replacement update of a plugin. The stored image is
// preserved only when the request omits imageData.
func (h *PluginHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var payload PluginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.missingRequired() {
		respondError(w, http.StatusBadRequest, "name, description, author and githubUrl are required")
		return
	}
	image, keepImage, err := payload.decodeImage()
	if err != nil {
		respondError(w, http.StatusBadRequest, "imageData must be a string or null")
		return
	}

	plugin, err := h.service.UpdatePlugin(id, models.Plugin{
		Name:        payload.Name,
		Description: payload.Description,
		Author:      payload.Author,
		GithubURL:   payload.GithubURL,
		DocsURL:     payload.DocsURL,
		ImageData:   image,
	}, keepImage)
	if err != nil {
		log.Error().Err(err).Str("plugin_id", id).Msg("Failed to update plugin")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, plugin)
}

// Delete handles the request to remove a plugin from the catalog.
func (h *PluginHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeletePlugin(id); err != nil {
		log.Error().Err(err).Str("plugin_id", id).Msg("Failed to delete plugin")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Plugin deleted"})
}
