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

// CommentHandler handles HTTP requests for post comments.
type CommentHandler struct {
	service services.CommentServiceProvider
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service services.CommentServiceProvider) *CommentHandler {
	return &CommentHandler{service: service}
}

// CommentPayload defines the structure for comment bodies.
type CommentPayload struct {
	Body string `json:"body"`
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	postID := chi.URLParam(r, "postID")

	var payload CommentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.service.CreateComment(postID, claims.UserID, payload.Body)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Post not found")
		case apperr.IsInvalidInput(err), apperr.IsConflict(err):
			writeError(w, http.StatusBadRequest, "Failed to create comment")
		default:
			log.Error().Err(err).Str("post_id", postID).Msg("Failed to create comment")
			writeError(w, http.StatusInternalServerError, "Failed to create comment")
		}
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	comments, err := h.service.GetCommentsByPost(postID)
	if err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		log.Error().Err(err).Str("post_id", postID).Msg("Failed to list comments")
		writeError(w, http.StatusInternalServerError, "Failed to list comments")
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	postID := chi.URLParam(r, "postID")
	commentID := chi.URLParam(r, "commentID")

	var payload CommentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	comment, err := h.service.UpdateComment(commentID, postID, claims.UserID, payload.Body)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Comment not found")
		case apperr.IsForbidden(err):
			writeError(w, http.StatusForbidden, "Only the author can modify a comment")
		case apperr.IsConflict(err):
			writeError(w, http.StatusBadRequest, "Failed to update comment")
		default:
			log.Error().Err(err).Str("comment_id", commentID).Msg("Failed to update comment")
			writeError(w, http.StatusInternalServerError, "Failed to update comment")
		}
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	postID := chi.URLParam(r, "postID")
	commentID := chi.URLParam(r, "commentID")

	if err := h.service.DeleteComment(commentID, postID, claims.UserID); err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Comment not found")
		case apperr.IsForbidden(err):
			writeError(w, http.StatusForbidden, "Only the author can delete a comment")
		default:
			log.Error().Err(err).Str("comment_id", commentID).Msg("Failed to delete comment")
			writeError(w, http.StatusInternalServerError, "Failed to delete comment")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
