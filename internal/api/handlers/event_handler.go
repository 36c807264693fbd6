package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/auth"
	"github.com/drivelog/drivelog-be/internal/models"
	"github.com/drivelog/drivelog-be/internal/services"
)

// EventHandler handles HTTP requests for community events and attendance.
type EventHandler struct {
	service services.EventServiceProvider
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(service services.EventServiceProvider) *EventHandler {
	return &EventHandler{service: service}
}

// ConfirmationPayload defines the structure for attendance answers.
type ConfirmationPayload struct {
	Answer models.Confirmation `json:"answer"`
}

func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	var payload services.EventCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := h.service.CreateEvent(claims.UserID, payload)
	if err != nil {
		switch {
		case apperr.IsAlreadyTaken(err), apperr.IsConflict(err):
			writeError(w, http.StatusConflict, "Event title already in use")
		case apperr.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "Invalid event")
		default:
			log.Error().Err(err).Str("author_id", claims.UserID).Msg("Failed to create event")
			writeError(w, http.StatusInternalServerError, "Failed to create event")
		}
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := services.EventFilter{
		AuthorID: r.URL.Query().Get("author"),
		State:    models.EventState(r.URL.Query().Get("state")),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	events, err := h.service.GetEvents(filter)
	if err != nil {
		if apperr.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error().Err(err).Msg("Failed to list events")
		writeError(w, http.StatusInternalServerError, "Failed to list events")
		return
	}

	writeJSON(w, http.StatusOK, events)
}

func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	event, err := h.service.GetEventByID(eventID)
	if err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to get event")
		writeError(w, http.StatusInternalServerError, "Failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	eventID := chi.URLParam(r, "eventID")

	var payload services.EventUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := h.service.UpdateEvent(eventID, claims.UserID, payload)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Event not found")
		case apperr.IsForbidden(err):
			writeError(w, http.StatusForbidden, "Only the author can modify an event")
		case apperr.IsAlreadyTaken(err), apperr.IsConflict(err):
			writeError(w, http.StatusConflict, "Event title already in use")
		case apperr.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "Invalid event")
		default:
			log.Error().Err(err).Str("event_id", eventID).Msg("Failed to update event")
			writeError(w, http.StatusInternalServerError, "Failed to update event")
		}
		return
	}

	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	eventID := chi.URLParam(r, "eventID")

	if err := h.service.DeleteEvent(eventID, claims.UserID); err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Event not found")
		case apperr.IsForbidden(err):
			writeError(w, http.StatusForbidden, "Only the author can delete an event")
		default:
			log.Error().Err(err).Str("event_id", eventID).Msg("Failed to delete event")
			writeError(w, http.StatusInternalServerError, "Failed to delete event")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Confirm records or replaces the caller's attendance answer for an event.
func (h *EventHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	eventID := chi.URLParam(r, "eventID")

	var payload ConfirmationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	confirmation, err := h.service.ConfirmEvent(eventID, claims.UserID, payload.Answer)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Event not found")
		case apperr.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "Invalid confirmation answer")
		default:
			log.Error().Err(err).Str("event_id", eventID).Msg("Failed to confirm event")
			writeError(w, http.StatusInternalServerError, "Failed to confirm event")
		}
		return
	}

	writeJSON(w, http.StatusOK, confirmation)
}

// ListConfirmations returns all attendance answers for an event.
func (h *EventHandler) ListConfirmations(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	confirmations, err := h.service.GetConfirmations(eventID)
	if err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		log.Error().Err(err).Str("event_id", eventID).Msg("Failed to list confirmations")
		writeError(w, http.StatusInternalServerError, "Failed to list confirmations")
		return
	}

	writeJSON(w, http.StatusOK, confirmations)
}
