package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/models"
)

// ServiceRecordCreate carries the fields for a new maintenance visit.
type ServiceRecordCreate struct {
	ServiceTypeID string         `json:"serviceTypeId"`
	Price         float64        `json:"price"`
	Mileage       int64          `json:"mileage"`
	Location      LocationCreate `json:"location"`
}

// ServiceRecordUpdate carries optional fields; nil means leave unchanged.
type ServiceRecordUpdate struct {
	ServiceTypeID *string         `json:"serviceTypeId"`
	Price         *float64        `json:"price"`
	Mileage       *int64          `json:"mileage"`
	Location      *LocationCreate `json:"location"`
}

// ServiceRecordServiceProvider defines the interface for maintenance records.
type ServiceRecordServiceProvider interface {
	CreateServiceRecord(vehicleID, ownerID string, in ServiceRecordCreate) (models.ServiceRecord, error)
	GetServiceRecordsByVehicle(vehicleID, ownerID string) ([]models.ServiceRecord, error)
	GetServiceRecord(recordID, vehicleID, ownerID string) (models.ServiceRecord, error)
	UpdateServiceRecord(recordID, vehicleID, ownerID string, in ServiceRecordUpdate) (models.ServiceRecord, error)
	DeleteServiceRecord(recordID, vehicleID, ownerID string) error
}

// ServiceRecordService provides business logic for maintenance visits.
type ServiceRecordService struct {
	db *sql.DB
}

// NewServiceRecordService creates a new ServiceRecordService.
func NewServiceRecordService(db *sql.DB) *ServiceRecordService {
	return &ServiceRecordService{db: db}
}

const recordColumns = `r.id, r.vehicle_id, r.service_type_id, r.price, r.mileage,
	l.id, l.latitude, l.longitude, l.created_at, r.created_at, r.updated_at`

const recordFrom = " FROM service_records r JOIN locations l ON l.id = r.location_id "

func scanServiceRecord(row interface{ Scan(...any) error }) (models.ServiceRecord, error) {
	var r models.ServiceRecord
	err := row.Scan(&r.ID, &r.VehicleID, &r.ServiceTypeID, &r.Price, &r.Mileage,
		&r.Location.ID, &r.Location.Latitude, &r.Location.Longitude, &r.Location.CreatedAt,
		&r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// CreateServiceRecord logs a maintenance visit. Same transactional shape as
// fuel creation: resolve ownership, check mileage, write, propagate.
func (s *ServiceRecordService) CreateServiceRecord(vehicleID, ownerID string, in ServiceRecordCreate) (models.ServiceRecord, error) {
	if in.Mileage < 0 {
		return models.ServiceRecord{}, apperr.Invalid("mileage", "must not be negative")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.ServiceRecord{}, err
	}
	defer tx.Rollback()

	if err := checkMileage(tx, vehicleID, ownerID, in.Mileage); err != nil {
		return models.ServiceRecord{}, err
	}

	if err := serviceTypeExists(tx, in.ServiceTypeID); err != nil {
		return models.ServiceRecord{}, err
	}

	locationID, err := insertLocation(tx, in.Location)
	if err != nil {
		if isConstraintViolation(err) {
			return models.ServiceRecord{}, fmt.Errorf("service record: %w", apperr.ErrCreateConflict)
		}
		return models.ServiceRecord{}, err
	}

	id := uuid.New().String()
	_, err = tx.Exec(
		`INSERT INTO service_records(id, vehicle_id, service_type_id, location_id, price, mileage)
		 VALUES(?, ?, ?, ?, ?, ?)`,
		id, vehicleID, in.ServiceTypeID, locationID, in.Price, in.Mileage,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return models.ServiceRecord{}, fmt.Errorf("service record: %w", apperr.ErrCreateConflict)
		}
		return models.ServiceRecord{}, err
	}

	if err := propagateMileage(tx, vehicleID, ownerID, in.Mileage); err != nil {
		return models.ServiceRecord{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.ServiceRecord{}, err
	}

	return s.GetServiceRecord(id, vehicleID, ownerID)
}

// GetServiceRecordsByVehicle lists all maintenance visits of an owned vehicle.
func (s *ServiceRecordService) GetServiceRecordsByVehicle(vehicleID, ownerID string) ([]models.ServiceRecord, error) {
	if _, err := ownedVehicleMileage(s.db, vehicleID, ownerID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT "+recordColumns+recordFrom+"WHERE r.vehicle_id = ? ORDER BY r.created_at", vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ServiceRecord
	for rows.Next() {
		r, err := scanServiceRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetServiceRecord retrieves one maintenance visit through the parent vehicle.
func (s *ServiceRecordService) GetServiceRecord(recordID, vehicleID, ownerID string) (models.ServiceRecord, error) {
	if _, err := ownedVehicleMileage(s.db, vehicleID, ownerID); err != nil {
		return models.ServiceRecord{}, err
	}

	row := s.db.QueryRow("SELECT "+recordColumns+recordFrom+"WHERE r.id = ? AND r.vehicle_id = ?", recordID, vehicleID)
	r, err := scanServiceRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ServiceRecord{}, apperr.NotFound("service record", recordID)
		}
		return models.ServiceRecord{}, err
	}
	return r, nil
}

// UpdateServiceRecord applies a partial update with the same mileage handling
// as fuel updates.
func (s *ServiceRecordService) UpdateServiceRecord(recordID, vehicleID, ownerID string, in ServiceRecordUpdate) (models.ServiceRecord, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.ServiceRecord{}, err
	}
	defer tx.Rollback()

	if in.Mileage != nil {
		if err := checkMileage(tx, vehicleID, ownerID, *in.Mileage); err != nil {
			return models.ServiceRecord{}, err
		}
	} else if _, err := ownedVehicleMileage(tx, vehicleID, ownerID); err != nil {
		return models.ServiceRecord{}, err
	}

	if in.ServiceTypeID != nil {
		if err := serviceTypeExists(tx, *in.ServiceTypeID); err != nil {
			return models.ServiceRecord{}, err
		}
	}

	var locationID string
	err = tx.QueryRow("SELECT location_id FROM service_records WHERE id = ? AND vehicle_id = ?", recordID, vehicleID).Scan(&locationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ServiceRecord{}, apperr.NotFound("service record", recordID)
		}
		return models.ServiceRecord{}, err
	}

	_, err = tx.Exec(
		`UPDATE service_records SET
			service_type_id = COALESCE(?, service_type_id),
			price = COALESCE(?, price),
			mileage = COALESCE(?, mileage),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND vehicle_id = ?`,
		in.ServiceTypeID, in.Price, in.Mileage, recordID, vehicleID,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return models.ServiceRecord{}, fmt.Errorf("service record: %w", apperr.ErrUpdateConflict)
		}
		return models.ServiceRecord{}, err
	}

	if in.Location != nil {
		if err := updateLocation(tx, locationID, *in.Location); err != nil {
			if isConstraintViolation(err) {
				return models.ServiceRecord{}, fmt.Errorf("service record: %w", apperr.ErrUpdateConflict)
			}
			return models.ServiceRecord{}, err
		}
	}

	if in.Mileage != nil {
		if err := propagateMileage(tx, vehicleID, ownerID, *in.Mileage); err != nil {
			return models.ServiceRecord{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.ServiceRecord{}, err
	}

	return s.GetServiceRecord(recordID, vehicleID, ownerID)
}

// DeleteServiceRecord removes a maintenance visit.
func (s *ServiceRecordService) DeleteServiceRecord(recordID, vehicleID, ownerID string) error {
	if _, err := ownedVehicleMileage(s.db, vehicleID, ownerID); err != nil {
		return err
	}

	res, err := s.db.Exec("DELETE FROM service_records WHERE id = ? AND vehicle_id = ?", recordID, vehicleID)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("service record: %w", apperr.ErrDeleteConflict)
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("service record", recordID)
	}
	return nil
}

// serviceTypeExists checks that the referenced catalog entry is real.
func serviceTypeExists(q querier, serviceTypeID string) error {
	var id string
	err := q.QueryRow("SELECT id FROM service_types WHERE id = ?", serviceTypeID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("service type", serviceTypeID)
	}
	return err
}
