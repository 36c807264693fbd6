package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/models"
	ws "github.com/drivelog/drivelog-be/internal/websocket"
)

// PostCreate carries the fields for a new post.
type PostCreate struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Thumbnail string `json:"thumbnail"`
}

// PostUpdate carries optional post fields; nil means leave unchanged.
type PostUpdate struct {
	Title     *string `json:"title"`
	Body      *string `json:"body"`
	Thumbnail *string `json:"thumbnail"`
}

// PostFilter narrows the post listing.
type PostFilter struct {
	AuthorID string
	Limit    int
	Offset   int
}

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	CreatePost(authorID string, in PostCreate) (models.Post, error)
	GetPosts(filter PostFilter) ([]models.Post, error)
	GetPostByID(id string) (models.Post, error)
	UpdatePost(postID, userID string, in PostUpdate) (models.Post, error)
	DeletePost(postID, userID string) error
}

// PostService provides business logic for posts. Reads are public; mutation
// is restricted to the author, and a non-author is told so explicitly
// (Forbidden, not a hidden NotFound).
type PostService struct {
	db  *sql.DB
	hub *ws.Hub
}

// NewPostService creates a new PostService.
func NewPostService(db *sql.DB, hub *ws.Hub) *PostService {
	return &PostService{db: db, hub: hub}
}

const postColumns = "id, author_id, title, body, COALESCE(thumbnail, ''), created_at, updated_at"

func scanPost(row interface{ Scan(...any) error }) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.Thumbnail, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// CreatePost publishes a new post and notifies feed subscribers.
func (s *PostService) CreatePost(authorID string, in PostCreate) (models.Post, error) {
	if in.Title == "" {
		return models.Post{}, apperr.Invalid("title", "is required")
	}

	id := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO posts(id, author_id, title, body, thumbnail) VALUES(?, ?, ?, ?, ?)",
		id, authorID, in.Title, in.Body, nullable(in.Thumbnail),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return models.Post{}, fmt.Errorf("post: %w", apperr.ErrCreateConflict)
		}
		return models.Post{}, err
	}

	post, err := s.GetPostByID(id)
	if err != nil {
		return models.Post{}, err
	}

	s.broadcast("post.created", post)
	return post, nil
}

// GetPosts lists posts, optionally filtered by author, newest first.
func (s *PostService) GetPosts(filter PostFilter) ([]models.Post, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	var (
		rows *sql.Rows
		err  error
	)
	if filter.AuthorID != "" {
		rows, err = s.db.Query(
			"SELECT "+postColumns+" FROM posts WHERE author_id = ? ORDER BY created_at DESC LIMIT ? OFFSET ?",
			filter.AuthorID, filter.Limit, filter.Offset,
		)
	} else {
		rows, err = s.db.Query(
			"SELECT "+postColumns+" FROM posts ORDER BY created_at DESC LIMIT ? OFFSET ?",
			filter.Limit, filter.Offset,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// GetPostByID retrieves a single post. Reads are not restricted by author.
func (s *PostService) GetPostByID(id string) (models.Post, error) {
	row := s.db.QueryRow("SELECT "+postColumns+" FROM posts WHERE id = ?", id)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, apperr.NotFound("post", id)
		}
		return models.Post{}, err
	}
	return p, nil
}

// UpdatePost applies a partial update after the author check.
func (s *PostService) UpdatePost(postID, userID string, in PostUpdate) (models.Post, error) {
	post, err := s.GetPostByID(postID)
	if err != nil {
		return models.Post{}, err
	}
	if post.AuthorID != userID {
		return models.Post{}, apperr.Forbidden("post")
	}

	_, err = s.db.Exec(
		`UPDATE posts SET
			title = COALESCE(?, title),
			body = COALESCE(?, body),
			thumbnail = COALESCE(?, thumbnail),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		in.Title, in.Body, in.Thumbnail, postID,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return models.Post{}, fmt.Errorf("post: %w", apperr.ErrUpdateConflict)
		}
		return models.Post{}, err
	}

	return s.GetPostByID(postID)
}

// DeletePost removes a post and, via cascade, its comments.
func (s *PostService) DeletePost(postID, userID string) error {
	post, err := s.GetPostByID(postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return apperr.Forbidden("post")
	}

	if _, err := s.db.Exec("DELETE FROM posts WHERE id = ?", postID); err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("post: %w", apperr.ErrDeleteConflict)
		}
		return err
	}
	return nil
}

func (s *PostService) broadcast(action string, payload any) {
	if s.hub == nil {
		return
	}
	msg, err := json.Marshal(ws.Message{Action: action, Payload: payload})
	if err != nil {
		return
	}
	s.hub.BroadcastTo(ws.TopicPosts, msg)
}
