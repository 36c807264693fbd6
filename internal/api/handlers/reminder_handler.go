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

// ReminderHandler handles HTTP requests for upcoming service reminders.
type ReminderHandler struct {
	service services.ReminderServiceProvider
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(service services.ReminderServiceProvider) *ReminderHandler {
	return &ReminderHandler{service: service}
}

func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")

	var payload services.ReminderCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reminder, err := h.service.CreateReminder(vehicleID, claims.UserID, payload)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Vehicle or service type not found")
		case apperr.IsInvalidInput(err), apperr.IsConflict(err):
			writeError(w, http.StatusBadRequest, "Invalid reminder")
		default:
			log.Error().Err(err).Str("vehicle_id", vehicleID).Msg("Failed to create reminder")
			writeError(w, http.StatusInternalServerError, "Failed to create reminder")
		}
		return
	}

	writeJSON(w, http.StatusCreated, reminder)
}

func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")

	reminders, err := h.service.GetRemindersByVehicle(vehicleID, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Vehicle not found")
			return
		}
		log.Error().Err(err).Str("vehicle_id", vehicleID).Msg("Failed to list reminders")
		writeError(w, http.StatusInternalServerError, "Failed to list reminders")
		return
	}

	writeJSON(w, http.StatusOK, reminders)
}

func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")
	reminderID := chi.URLParam(r, "reminderID")

	reminder, err := h.service.GetReminder(reminderID, vehicleID, claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Reminder not found")
			return
		}
		log.Error().Err(err).Str("reminder_id", reminderID).Msg("Failed to get reminder")
		writeError(w, http.StatusInternalServerError, "Failed to get reminder")
		return
	}

	writeJSON(w, http.StatusOK, reminder)
}

func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")
	reminderID := chi.URLParam(r, "reminderID")

	var payload services.ReminderUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reminder, err := h.service.UpdateReminder(reminderID, vehicleID, claims.UserID, payload)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Reminder not found")
		case apperr.IsInvalidInput(err), apperr.IsConflict(err):
			writeError(w, http.StatusBadRequest, "Invalid reminder")
		default:
			log.Error().Err(err).Str("reminder_id", reminderID).Msg("Failed to update reminder")
			writeError(w, http.StatusInternalServerError, "Failed to update reminder")
		}
		return
	}

	writeJSON(w, http.StatusOK, reminder)
}

func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	vehicleID := chi.URLParam(r, "vehicleID")
	reminderID := chi.URLParam(r, "reminderID")

	if err := h.service.DeleteReminder(reminderID, vehicleID, claims.UserID); err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Reminder not found")
			return
		}
		log.Error().Err(err).Str("reminder_id", reminderID).Msg("Failed to delete reminder")
		writeError(w, http.StatusInternalServerError, "Failed to delete reminder")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
