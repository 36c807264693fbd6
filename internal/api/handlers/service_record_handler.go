package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/auth"
	"github.com/drivelog/drivelog-be/internal/services"
)

// ServiceRecordHandler handles HTTP requests for maintenance records.
type ServiceRecordHandler struct {
	service services.ServiceRecordServiceProvider
}

// NewServiceRecordHandler creates a new ServiceRecordHandler.
func NewServiceRecordHandler(service services.ServiceRecordServiceProvider) *ServiceRecordHandler {
	return &ServiceRecordHandler{service: service}
}

func (h *ServiceRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")

	var payload services.ServiceRecordCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.service.CreateServiceRecord(vehicleID, claims.UserID, payload)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Vehicle or service type not found")
		case apperr.IsMileageReduce(err):
			writeError(w, http.StatusBadRequest, "Mileage cannot be reduced")
		case apperr.IsInvalidInput(err), apperr.IsConflict(err):
			writeError(w, http.StatusBadRequest, "Invalid service record")
		default:
			log.Error().Err(err).Str("vehicle_id", vehicleID).Msg("Failed to create service record")
			writeError(w, http.StatusInternalServerError, "Failed to create service record")
		}
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

func (h *ServiceRecordHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")

	records, err := h.service.GetServiceRecordsByVehicle(vehicleID, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		log.Error().Err(err).Str("vehicle_id", vehicleID).Msg("Failed to list service records")
		writeError(w, http.StatusInternalServerError, "Failed to list service records")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (h *ServiceRecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")
	recordID := chi.URLParam(r, "recordID")

	record, err := h.service.GetServiceRecord(recordID, vehicleID, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Service record not found")
			return
		}
		log.Error().Err(err).Str("record_id", recordID).Msg("Failed to get service record")
		writeError(w, http.StatusInternalServerError, "Failed to get service record")
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (h *ServiceRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")
	recordID := chi.URLParam(r, "recordID")

	var payload services.ServiceRecordUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	record, err := h.service.UpdateServiceRecord(recordID, vehicleID, claims.UserID, payload)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Service record not found")
		case apperr.IsMileageReduce(err):
			writeError(w, http.StatusBadRequest, "Mileage cannot be reduced")
		case apperr.IsInvalidInput(err), apperr.IsConflict(err):
			writeError(w, http.StatusBadRequest, "Invalid service record")
		default:
			log.Error().Err(err).Str("record_id", recordID).Msg("Failed to update service record")
			writeError(w, http.StatusInternalServerError, "Failed to update service record")
		}
		return
	}

	writeJSON(w, http.StatusOK, record)
}

func (h *ServiceRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")
	recordID := chi.URLParam(r, "recordID")

	if err := h.service.DeleteServiceRecord(recordID, vehicleID, claims.UserID); err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Service record not found")
			return
		}
		log.Error().Err(err).Str("record_id", recordID).Msg("Failed to delete service record")
		writeError(w, http.StatusInternalServerError, "Failed to delete service record")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
