package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/models"
)

// ServiceTypeServiceProvider defines the interface for the catalog of
// maintenance work kinds. Reads are open; writes sit behind the API-key
// trust boundary.
type ServiceTypeServiceProvider interface {
	GetAllServiceTypes() ([]models.ServiceType, error)
	GetServiceTypeByID(id string) (models.ServiceType, error)
	CreateServiceType(name, description string) (models.ServiceType, error)
	UpdateServiceType(id string, name, description *string) (models.ServiceType, error)
	DeleteServiceType(id string) error
}

// ServiceTypeService provides business logic for the service-type catalog.
type ServiceTypeService struct {
	db *sql.DB
}

// NewServiceTypeService creates a new ServiceTypeService.
func NewServiceTypeService(db *sql.DB) *ServiceTypeService {
	return &ServiceTypeService{db: db}
}

// GetAllServiceTypes lists the whole catalog.
func (s *ServiceTypeService) GetAllServiceTypes() ([]models.ServiceType, error) {
	rows, err := s.db.Query("SELECT id, name, COALESCE(description, '') FROM service_types ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []models.ServiceType
	for rows.Next() {
		var st models.ServiceType
		if err := rows.Scan(&st.ID, &st.Name, &st.Description); err != nil {
			return nil, err
		}
		types = append(types, st)
	}
	return types, rows.Err()
}

// GetServiceTypeByID retrieves one catalog entry.
func (s *ServiceTypeService) GetServiceTypeByID(id string) (models.ServiceType, error) {
	var st models.ServiceType
	err := s.db.QueryRow("SELECT id, name, COALESCE(description, '') FROM service_types WHERE id = ?", id).
		Scan(&st.ID, &st.Name, &st.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ServiceType{}, apperr.NotFound("service type", id)
		}
		return models.ServiceType{}, err
	}
	return st, nil
}

// CreateServiceType adds a catalog entry. Names are unique.
func (s *ServiceTypeService) CreateServiceType(name, description string) (models.ServiceType, error) {
	if name == "" {
		return models.ServiceType{}, apperr.Invalid("name", "is required")
	}

	var existing string
	err := s.db.QueryRow("SELECT id FROM service_types WHERE name = ?", name).Scan(&existing)
	if err == nil {
		return models.ServiceType{}, apperr.Taken("name")
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.ServiceType{}, err
	}

	id := uuid.New().String()
	_, err = s.db.Exec("INSERT INTO service_types(id, name, description) VALUES(?, ?, ?)", id, name, description)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ServiceType{}, fmt.Errorf("service type: %w", apperr.ErrCreateConflict)
		}
		return models.ServiceType{}, err
	}

	return s.GetServiceTypeByID(id)
}

// UpdateServiceType applies a partial update to a catalog entry.
func (s *ServiceTypeService) UpdateServiceType(id string, name, description *string) (models.ServiceType, error) {
	if _, err := s.GetServiceTypeByID(id); err != nil {
		return models.ServiceType{}, err
	}

	_, err := s.db.Exec(
		"UPDATE service_types SET name = COALESCE(?, name), description = COALESCE(?, description) WHERE id = ?",
		name, description, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ServiceType{}, apperr.Taken("name")
		}
		if isConstraintViolation(err) {
			return models.ServiceType{}, fmt.Errorf("service type: %w", apperr.ErrUpdateConflict)
		}
		return models.ServiceType{}, err
	}

	return s.GetServiceTypeByID(id)
}

// DeleteServiceType removes a catalog entry. Entries referenced by records or
// reminders are protected by foreign keys and surface a delete conflict.
func (s *ServiceTypeService) DeleteServiceType(id string) error {
	res, err := s.db.Exec("DELETE FROM service_types WHERE id = ?", id)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("service type: %w", apperr.ErrDeleteConflict)
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("service type", id)
	}
	return nil
}
