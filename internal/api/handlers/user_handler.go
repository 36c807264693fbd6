package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/auth"
	"github.com/drivelog/drivelog-be/internal/services"
)

// UserHandler handles HTTP requests for registration, login and profiles.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.Register(payload.Username, payload.Email, payload.Phone, payload.Password)
	if err != nil {
		switch {
		case apperr.IsInvalidInput(err), apperr.IsAlreadyTaken(err), apperr.IsConflict(err):
			log.Warn().Err(err).Str("phone", payload.Phone).Msg("Rejected registration")
			writeError(w, http.StatusBadRequest, "Failed to register user")
		default:
			log.Error().Err(err).Str("phone", payload.Phone).Msg("Failed to register user")
			writeError(w, http.StatusInternalServerError, "Failed to register user")
		}
		return
	}

	token, err := auth.GenerateJWT(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Login handles user authentication and JWT generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.AuthenticateUser(payload.Phone, payload.Password)
	if err != nil {
		if apperr.IsInvalidInput(err) {
			log.Warn().Str("phone", payload.Phone).Msg("Failed authentication attempt")
			writeError(w, http.StatusBadRequest, "Incorrect phone or password")
			return
		}
		log.Error().Err(err).Msg("Authentication lookup failed")
		writeError(w, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	token, err := auth.GenerateJWT(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		writeError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	// Set Secure flag based on environment.
	isProd := os.Getenv("APP_ENV") == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GetMe retrieves the currently authenticated user from the token.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	user, err := h.service.GetUserByID(claims.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			log.Warn().Str("user_id", claims.UserID).Msg("User from token not found in DB")
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load user")
		writeError(w, http.StatusInternalServerError, "Failed to load user")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// UpdateMe handles updating the authenticated user's profile.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	var payload services.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.service.UpdateUser(claims.UserID, payload)
	if err != nil {
		switch {
		case apperr.IsInvalidInput(err):
			writeError(w, http.StatusBadRequest, "Invalid phone number")
		case apperr.IsAlreadyTaken(err):
			writeError(w, http.StatusBadRequest, "Value already in use")
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "User not found")
		case apperr.IsConflict(err):
			writeError(w, http.StatusBadRequest, "Failed to update user")
		default:
			log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to update user")
			writeError(w, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}
