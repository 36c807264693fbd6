package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/models"
)

// CommentServiceProvider defines the interface for comment services.
type CommentServiceProvider interface {
	CreateComment(postID, authorID, body string) (models.Comment, error)
	GetCommentsByPost(postID string) ([]models.Comment, error)
	UpdateComment(commentID, postID, userID, body string) (models.Comment, error)
	DeleteComment(commentID, postID, userID string) error
}

// CommentService provides business logic for post comments. As with posts,
// a non-author attempting modification gets Forbidden, not NotFound.
type CommentService struct {
	db *sql.DB
}

// NewCommentService creates a new CommentService.
func NewCommentService(db *sql.DB) *CommentService {
	return &CommentService{db: db}
}

const commentColumns = "id, post_id, author_id, body, created_at, updated_at"

func scanComment(row interface{ Scan(...any) error }) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CreateComment adds a comment to an existing post.
func (s *CommentService) CreateComment(postID, authorID, body string) (models.Comment, error) {
	if body == "" {
		return models.Comment{}, apperr.Invalid("body", "is required")
	}
	if err := s.postExists(postID); err != nil {
		return models.Comment{}, err
	}

	id := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO comments(id, post_id, author_id, body) VALUES(?, ?, ?, ?)",
		id, postID, authorID, body,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return models.Comment{}, fmt.Errorf("comment: %w", apperr.ErrCreateConflict)
		}
		return models.Comment{}, err
	}

	return s.getComment(id, postID)
}

// GetCommentsByPost lists a post's comments, oldest first.
func (s *CommentService) GetCommentsByPost(postID string) ([]models.Comment, error) {
	if err := s.postExists(postID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT "+commentColumns+" FROM comments WHERE post_id = ? ORDER BY created_at", postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// UpdateComment rewrites a comment's body after the author check.
func (s *CommentService) UpdateComment(commentID, postID, userID, body string) (models.Comment, error) {
	comment, err := s.getComment(commentID, postID)
	if err != nil {
		return models.Comment{}, err
	}
	if comment.AuthorID != userID {
		return models.Comment{}, apperr.Forbidden("comment")
	}

	_, err = s.db.Exec(
		"UPDATE comments SET body = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND post_id = ?",
		body, commentID, postID,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return models.Comment{}, fmt.Errorf("comment: %w", apperr.ErrUpdateConflict)
		}
		return models.Comment{}, err
	}

	return s.getComment(commentID, postID)
}

// DeleteComment removes a comment after the author check.
func (s *CommentService) DeleteComment(commentID, postID, userID string) error {
	comment, err := s.getComment(commentID, postID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return apperr.Forbidden("comment")
	}

	if _, err := s.db.Exec("DELETE FROM comments WHERE id = ? AND post_id = ?", commentID, postID); err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("comment: %w", apperr.ErrDeleteConflict)
		}
		return err
	}
	return nil
}

func (s *CommentService) getComment(commentID, postID string) (models.Comment, error) {
	row := s.db.QueryRow("SELECT "+commentColumns+" FROM comments WHERE id = ? AND post_id = ?", commentID, postID)
	c, err := scanComment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Comment{}, apperr.NotFound("comment", commentID)
		}
		return models.Comment{}, err
	}
	return c, nil
}

func (s *CommentService) postExists(postID string) error {
	var id string
	err := s.db.QueryRow("SELECT id FROM posts WHERE id = ?", postID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("post", postID)
	}
	return err
}
