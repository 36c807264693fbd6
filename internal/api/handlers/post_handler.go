package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/auth"
	"github.com/drivelog/drivelog-be/internal/services"
)

// PostHandler handles HTTP requests for the community feed.
type PostHandler struct {
	service services.PostServiceProvider
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider) *PostHandler {
	return &PostHandler{service: service}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	var payload services.PostCreate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.service.CreatePost(claims.UserID, payload)
	if err != nil {
		switch {
		case apperr.IsInvalidInput(err), apperr.IsConflict(err):
			writeError(w, http.StatusBadRequest, "Failed to create post")
		default:
			log.Error().Err(err).Str("author_id", claims.UserID).Msg("Failed to create post")
			writeError(w, http.StatusInternalServerError, "Failed to create post")
		}
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := services.PostFilter{
		AuthorID: r.URL.Query().Get("author"),
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

	posts, err := h.service.GetPosts(filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list posts")
		writeError(w, http.StatusInternalServerError, "Failed to list posts")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	post, err := h.service.GetPostByID(postID)
	if err != nil {
		if apperr.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Post not found")
			return
		}
		log.Error().Err(err).Str("post_id", postID).Msg("Failed to get post")
		writeError(w, http.StatusInternalServerError, "Failed to get post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	postID := chi.URLParam(r, "postID")

	var payload services.PostUpdate
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	post, err := h.service.UpdatePost(postID, claims.UserID, payload)
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Post not found")
		case apperr.IsForbidden(err):
			writeError(w, http.StatusForbidden, "Only the author can modify a post")
		case apperr.IsConflict(err):
			writeError(w, http.StatusBadRequest, "Failed to update post")
		default:
			log.Error().Err(err).Str("post_id", postID).Msg("Failed to update post")
			writeError(w, http.StatusInternalServerError, "Failed to update post")
		}
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}
	postID := chi.URLParam(r, "postID")

	if err := h.service.DeletePost(postID, claims.UserID); err != nil {
		switch {
		case apperr.IsNotFound(err):
			writeError(w, http.StatusNotFound, "Post not found")
		case apperr.IsForbidden(err):
			writeError(w, http.StatusForbidden, "Only the author can delete a post")
		default:
			log.Error().Err(err).Str("post_id", postID).Msg("Failed to delete post")
			writeError(w, http.StatusInternalServerError, "Failed to delete post")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
