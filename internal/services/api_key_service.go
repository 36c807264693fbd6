package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/models"
)

// APIKeyServiceProvider defines the interface for API-key management.
type APIKeyServiceProvider interface {
	CreateKey(description string) (models.APIKey, error)
	ListKeys() ([]models.APIKey, error)
	RevokeKey(id string) error
	VerifyKey(key string) bool
}

// APIKeyService manages the keys guarding the admin trust boundary. Keys are
// independent of user accounts.
type APIKeyService struct {
	db *sql.DB
}

// NewAPIKeyService creates a new APIKeyService.
func NewAPIKeyService(db *sql.DB) *APIKeyService {
	return &APIKeyService{db: db}
}

// CreateKey issues a new key.
func (s *APIKeyService) CreateKey(description string) (models.APIKey, error) {
	apiKey := models.APIKey{
		ID:          uuid.New().String(),
		Key:         uuid.New().String(),
		Description: description,
	}

	_, err := s.db.Exec(
		"INSERT INTO api_keys(id, key, description) VALUES(?, ?, ?)",
		apiKey.ID, apiKey.Key, apiKey.Description,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return models.APIKey{}, fmt.Errorf("api key: %w", apperr.ErrCreateConflict)
		}
		return models.APIKey{}, err
	}

	row := s.db.QueryRow("SELECT id, key, description, is_revoked, created_at FROM api_keys WHERE id = ?", apiKey.ID)
	if err := row.Scan(&apiKey.ID, &apiKey.Key, &apiKey.Description, &apiKey.IsRevoked, &apiKey.CreatedAt); err != nil {
		return models.APIKey{}, err
	}
	return apiKey, nil
}

// ListKeys returns every key, revoked ones included.
func (s *APIKeyService) ListKeys() ([]models.APIKey, error) {
	rows, err := s.db.Query("SELECT id, key, description, is_revoked, created_at FROM api_keys ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.Key, &k.Description, &k.IsRevoked, &k.CreatedAt); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// RevokeKey marks a key revoked without deleting it.
func (s *APIKeyService) RevokeKey(id string) error {
	res, err := s.db.Exec("UPDATE api_keys SET is_revoked = 1 WHERE id = ?", id)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("api key: %w", apperr.ErrUpdateConflict)
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("api key", id)
	}
	return nil
}

// VerifyKey reports whether the key exists and has not been revoked.
func (s *APIKeyService) VerifyKey(key string) bool {
	var (
		description string
		isRevoked   bool
	)
	err := s.db.QueryRow("SELECT COALESCE(description, ''), is_revoked FROM api_keys WHERE key = ?", key).
		Scan(&description, &isRevoked)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			log.Error().Err(err).Msg("Failed to look up API key")
		}
		return false
	}
	if isRevoked {
		log.Warn().Str("description", description).Msg("Rejected revoked API key")
		return false
	}
	return true
}

// EnsureSeedKey inserts a bootstrap key if the table holds none. The key
// value comes from configuration; without it the admin surface stays closed.
func (s *APIKeyService) EnsureSeedKey(key string) error {
	if key == "" {
		return nil
	}
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM api_keys").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := s.db.Exec(
		"INSERT INTO api_keys(id, key, description) VALUES(?, ?, ?)",
		uuid.New().String(), key, "seed key",
	)
	return err
}
