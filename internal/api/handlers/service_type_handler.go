package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/services"
)

// ServiceTypeHandler handles HTTP requests for the shared service type catalog.
// Reads are open to any authenticated user; writes require an API key.
type ServiceTypeHandler struct {
	service services.ServiceTypeServiceProvider
}

// NewServiceTypeHandler creates a new ServiceTypeHandler.
func NewServiceTypeHandler(service services.ServiceTypeServiceProvider) *ServiceTypeHandler {
	return &ServiceTypeHandler{service: service}
}

// ServiceTypePayload defines the structure for create requests.
type ServiceTypePayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ServiceTypeUpdatePayload defines the structure for update requests.
type ServiceTypeUpdatePayload struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *ServiceTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.GetAllServiceTypes()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list service types")
		writeError(w, http.StatusInternalServerError, "Failed to list service types")
		return
	}

	writeJSON(w, http.StatusOK, types)
}

func (h *ServiceTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	typeID := chi.URLParam(r, "typeID")

	serviceType, err := h.service.GetServiceTypeByID(typeID)
	if err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Service type not found")
			return
		}
		log.Error().Err(err).Str("type_id", typeID).Msg("Failed to get service type")
		writeError(w, http.StatusInternalServerError, "Failed to get service type")
		return
	}

	writeJSON(w, http.StatusOK, serviceType)
}

func (h *ServiceTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ServiceTypePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	serviceType, err := h.service.CreateServiceType(payload.Name, payload.Description)
	if err != nil {
		switch {
		case apperr.IsAlreadyTaken(err), apperr.IsConflict(err):
			writeError(w, http.StatusConflict, "Service type name already in use")
		case apperr.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "Invalid service type")
		default:
			log.Error().Err(err).Str("name", payload.Name).Msg("Failed to create service type")
			writeError(w, http.StatusInternalServerError, "Failed to create service type")
		}
		return
	}

	writeJSON(w, http.StatusCreated, serviceType)
}

func (h *ServiceTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	typeID := chi.URLParam(r, "typeID")

	var payload ServiceTypeUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	serviceType, err := h.service.UpdateServiceType(typeID, payload.Name, payload.Description)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Service type not found")
		case apperr.IsAlreadyTaken(err), apperr.IsConflict(err):
			writeError(w, http.StatusConflict, "Service type name already in use")
		default:
			log.Error().Err(err).Str("type_id", typeID).Msg("Failed to update service type")
			writeError(w, http.StatusInternalServerError, "Failed to update service type")
		}
		return
	}

	writeJSON(w, http.StatusOK, serviceType)
}

func (h *ServiceTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	typeID := chi.URLParam(r, "typeID")

	if err := h.service.DeleteServiceType(typeID); err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Service type not found")
		case apperr.IsConflict(err):
			writeError(w, http.StatusConflict, "Service type is still referenced")
		default:
			log.Error().Err(err).Str("type_id", typeID).Msg("Failed to delete service type")
			writeError(w, http.StatusInternalServerError, "Failed to delete service type")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
