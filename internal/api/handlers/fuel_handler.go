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

// FuelHandler handles HTTP requests for vehicle fill-up records.
type FuelHandler struct {
	service services.FuelServiceProvider
}

// NewFuelHandler creates a new FuelHandler.
func NewFuelHandler(service services.FuelServiceProvider) *FuelHandler {
	return &FuelHandler{service: service}
}

func (h *FuelHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")

	var payload services.FuelCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fuel, err := h.service.CreateFuel(vehicleID, claims.UserID, payload)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Vehicle not found")
		case apperr.IsMileageReduce(err):
			writeError(w, http.StatusBadRequest, "Mileage cannot be reduced")
		case apperr.IsInvalidInput(err), apperr.IsConflict(err):
			writeError(w, http.StatusBadRequest, "Invalid fuel record")
		default:
			log.Error().Err(err).Str("vehicle_id", vehicleID).Msg("Failed to create fuel record")
			writeError(w, http.StatusInternalServerError, "Failed to create fuel record")
		}
		return
	}

	writeJSON(w, http.StatusCreated, fuel)
}

func (h *FuelHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")

	fuels, err := h.service.GetFuelsByVehicle(vehicleID, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		log.Error().Err(err).Str("vehicle_id", vehicleID).Msg("Failed to list fuel records")
		writeError(w, http.StatusInternalServerError, "Failed to list fuel records")
		return
	}

	writeJSON(w, http.StatusOK, fuels)
}

func (h *FuelHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")
	fuelID := chi.URLParam(r, "fuelID")

	fuel, err := h.service.GetFuel(fuelID, vehicleID, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Fuel record not found")
			return
		}
		log.Error().Err(err).Str("fuel_id", fuelID).Msg("Failed to get fuel record")
		writeError(w, http.StatusInternalServerError, "Failed to get fuel record")
		return
	}

	writeJSON(w, http.StatusOK, fuel)
}

func (h *FuelHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")
	fuelID := chi.URLParam(r, "fuelID")

	var payload services.FuelUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fuel, err := h.service.UpdateFuel(fuelID, vehicleID, claims.UserID, payload)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Fuel record not found")
		case apperr.IsMileageReduce(err):
			writeError(w, http.StatusBadRequest, "Mileage cannot be reduced")
		case apperr.IsInvalidInput(err), apperr.IsConflict(err):
			writeError(w, http.StatusBadRequest, "Invalid fuel record")
		default:
			log.Error().Err(err).Str("fuel_id", fuelID).Msg("Failed to update fuel record")
			writeError(w, http.StatusInternalServerError, "Failed to update fuel record")
		}
		return
	}

	writeJSON(w, http.StatusOK, fuel)
}

func (h *FuelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")
	fuelID := chi.URLParam(r, "fuelID")

	if err := h.service.DeleteFuel(fuelID, vehicleID, claims.UserID); err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Fuel record not found")
			return
		}
		log.Error().Err(err).Str("fuel_id", fuelID).Msg("Failed to delete fuel record")
		writeError(w, http.StatusInternalServerError, "Failed to delete fuel record")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
