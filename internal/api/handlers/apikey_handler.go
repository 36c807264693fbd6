package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/services"
)

// APIKeyHandler handles HTTP requests for service API key management.
// The whole surface sits behind the API key middleware itself.
type APIKeyHandler struct {
	service services.APIKeyServiceProvider
}

// NewAPIKeyHandler creates a new APIKeyHandler.
func NewAPIKeyHandler(service services.APIKeyServiceProvider) *APIKeyHandler {
	return &APIKeyHandler{service: service}
}

// APIKeyPayload defines the structure for key creation requests.
type APIKeyPayload struct {
	Description string `json:"description"`
}

func (h *APIKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload APIKeyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	key, err := h.service.CreateKey(payload.Description)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create API key")
		writeError(w, http.StatusInternalServerError, "Failed to create API key")
		return
	}

	writeJSON(w, http.StatusCreated, key)
}

func (h *APIKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	keys, err := h.service.ListKeys()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list API keys")
		writeError(w, http.StatusInternalServerError, "Failed to list API keys")
		return
	}

	writeJSON(w, http.StatusOK, keys)
}

func (h *APIKeyHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	keyID := chi.URLParam(r, "keyID")

	if err := h.service.RevokeKey(keyID); err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "API key not found")
			return
		}
		log.Error().Err(err).Str("key_id", keyID).Msg("Failed to revoke API key")
		writeError(w, http.StatusInternalServerError, "Failed to revoke API key")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
