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

// VehicleHandler handles HTTP requests for the garage.
type VehicleHandler struct {
	service services.VehicleServiceProvider
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(service services.VehicleServiceProvider) *VehicleHandler {
	return &VehicleHandler{service: service}
}

// Create handles adding a vehicle to the authenticated user's garage.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	var payload services.VehicleCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	vehicle, err := h.service.CreateVehicle(claims.UserID, payload)
	if err != nil {
		switch {
		case apperr.IsAlreadyTaken(err), apperr.IsConflict(err):
			writeError(w, http.StatusConflict, "VIN or registration plate already in use")
		case apperr.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "Invalid vehicle data")
		default:
			log.Error().Err(err).Str("owner_id", claims.UserID).Msg("Failed to create vehicle")
			writeError(w, http.StatusInternalServerError, "Failed to create vehicle")
		}
		return
	}

	writeJSON(w, http.StatusCreated, vehicle)
}

// List returns all vehicles owned by the authenticated user.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	vehicles, err := h.service.GetVehiclesByOwner(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("owner_id", claims.UserID).Msg("Failed to list vehicles")
		writeError(w, http.StatusInternalServerError, "Failed to list vehicles")
		return
	}

	writeJSON(w, http.StatusOK, vehicles)
}

// Get returns a single vehicle owned by the authenticated user.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")

	vehicle, err := h.service.GetVehicleForOwner(vehicleID, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		log.Error().Err(err).Str("vehicle_id", vehicleID).Msg("Failed to get vehicle")
		writeError(w, http.StatusInternalServerError, "Failed to get vehicle")
		return
	}

	writeJSON(w, http.StatusOK, vehicle)
}

// Update handles partial updates of a vehicle, including its mileage.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")

	var payload services.VehicleUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	vehicle, err := h.service.UpdateVehicle(vehicleID, claims.UserID, payload)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Vehicle not found")
		case apperr.IsMileageReduce(err):
			writeError(w, http.StatusBadRequest, "Mileage cannot be reduced")
		case apperr.IsAlreadyTaken(err), apperr.IsConflict(err):
			writeError(w, http.StatusConflict, "VIN or registration plate already in use")
		default:
			log.Error().Err(err).Str("vehicle_id", vehicleID).Msg("Failed to update vehicle")
			writeError(w, http.StatusInternalServerError, "Failed to update vehicle")
		}
		return
	}

	writeJSON(w, http.StatusOK, vehicle)
}

// Delete removes a vehicle and all of its dependent records.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")

	if err := h.service.DeleteVehicle(vehicleID, claims.UserID); err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		log.Error().Err(err).Str("vehicle_id", vehicleID).Msg("Failed to delete vehicle")
		writeError(w, http.StatusInternalServerError, "Failed to delete vehicle")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
