package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/models"
)

// FuelCreate carries the fields for a new fill-up.
type FuelCreate struct {
	FuelType models.FuelType `json:"fuelType"`
	Quantity float64         `json:"quantity"`
	Price    float64         `json:"price"`
	Mileage  int64           `json:"mileage"`
	IsFull   bool            `json:"isFull"`
	Location LocationCreate  `json:"location"`
}

// FuelUpdate carries optional fill-up fields; nil means leave unchanged.
type FuelUpdate struct {
	FuelType *models.FuelType `json:"fuelType"`
	Quantity *float64         `json:"quantity"`
	Price    *float64         `json:"price"`
	Mileage  *int64           `json:"mileage"`
	IsFull   *bool            `json:"isFull"`
	Location *LocationCreate  `json:"location"`
}

// FuelServiceProvider defines the interface for fuel record services.
type FuelServiceProvider interface {
	CreateFuel(vehicleID, ownerID string, in FuelCreate) (models.Fuel, error)
	GetFuelsByVehicle(vehicleID, ownerID string) ([]models.Fuel, error)
	GetFuel(fuelID, vehicleID, ownerID string) (models.Fuel, error)
	UpdateFuel(fuelID, vehicleID, ownerID string, in FuelUpdate) (models.Fuel, error)
	DeleteFuel(fuelID, vehicleID, ownerID string) error
}

// FuelService provides business logic for fuel fill-up records.
type FuelService struct {
	db *sql.DB
}

// NewFuelService creates a new FuelService.
func NewFuelService(db *sql.DB) *FuelService {
	return &FuelService{db: db}
}

const fuelColumns = `f.id, f.vehicle_id, f.fuel_type, f.quantity, f.price, f.mileage, f.is_full,
	l.id, l.latitude, l.longitude, l.created_at, f.created_at, f.updated_at`

const fuelFrom = " FROM fuels f JOIN locations l ON l.id = f.location_id "

func scanFuel(row interface{ Scan(...any) error }) (models.Fuel, error) {
	var f models.Fuel
	err := row.Scan(&f.ID, &f.VehicleID, &f.FuelType, &f.Quantity, &f.Price, &f.Mileage, &f.IsFull,
		&f.Location.ID, &f.Location.Latitude, &f.Location.Longitude, &f.Location.CreatedAt,
		&f.CreatedAt, &f.UpdatedAt)
	return f, err
}

// CreateFuel logs a fill-up against a vehicle the user owns. The ownership
// resolution, the mileage check, the insert and the mileage propagation all
// run in one transaction so concurrent submissions cannot lose an update.
func (s *FuelService) CreateFuel(vehicleID, ownerID string, in FuelCreate) (models.Fuel, error) {
	if !in.FuelType.Valid() {
		return models.Fuel{}, apperr.Invalid("fuelType", "unknown fuel type")
	}
	if in.Mileage < 0 {
		return models.Fuel{}, apperr.Invalid("mileage", "must not be negative")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Fuel{}, err
	}
	defer tx.Rollback()

	if err := checkMileage(tx, vehicleID, ownerID, in.Mileage); err != nil {
		return models.Fuel{}, err
	}

	locationID, err := insertLocation(tx, in.Location)
	if err != nil {
		if isConstraintViolation(err) {
			return models.Fuel{}, fmt.Errorf("fuel: %w", apperr.ErrCreateConflict)
		}
		return models.Fuel{}, err
	}

	id := uuid.New().String()
	_, err = tx.Exec(
		`INSERT INTO fuels(id, vehicle_id, location_id, fuel_type, quantity, price, mileage, is_full)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		id, vehicleID, locationID, in.FuelType, in.Quantity, in.Price, in.Mileage, in.IsFull,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return models.Fuel{}, fmt.Errorf("fuel: %w", apperr.ErrCreateConflict)
		}
		return models.Fuel{}, err
	}

	if err := propagateMileage(tx, vehicleID, ownerID, in.Mileage); err != nil {
		return models.Fuel{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Fuel{}, err
	}

	return s.GetFuel(id, vehicleID, ownerID)
}

// GetFuelsByVehicle lists all fill-ups of a vehicle the user owns.
func (s *FuelService) GetFuelsByVehicle(vehicleID, ownerID string) ([]models.Fuel, error) {
	if _, err := ownedVehicleMileage(s.db, vehicleID, ownerID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT "+fuelColumns+fuelFrom+"WHERE f.vehicle_id = ? ORDER BY f.created_at", vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fuels []models.Fuel
	for rows.Next() {
		f, err := scanFuel(rows)
		if err != nil {
			return nil, err
		}
		fuels = append(fuels, f)
	}
	return fuels, rows.Err()
}

// GetFuel retrieves one fill-up, walking the ownership chain through the
// parent vehicle.
func (s *FuelService) GetFuel(fuelID, vehicleID, ownerID string) (models.Fuel, error) {
	if _, err := ownedVehicleMileage(s.db, vehicleID, ownerID); err != nil {
		return models.Fuel{}, err
	}

	row := s.db.QueryRow("SELECT "+fuelColumns+fuelFrom+"WHERE f.id = ? AND f.vehicle_id = ?", fuelID, vehicleID)
	f, err := scanFuel(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Fuel{}, apperr.NotFound("fuel", fuelID)
		}
		return models.Fuel{}, err
	}
	return f, nil
}

// UpdateFuel applies a partial update to a fill-up. A supplied mileage goes
// through the monotonicity rule and, once accepted, is propagated onto the
// vehicle in the same transaction.
func (s *FuelService) UpdateFuel(fuelID, vehicleID, ownerID string, in FuelUpdate) (models.Fuel, error) {
	if in.FuelType != nil && !in.FuelType.Valid() {
		return models.Fuel{}, apperr.Invalid("fuelType", "unknown fuel type")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Fuel{}, err
	}
	defer tx.Rollback()

	if in.Mileage != nil {
		if err := checkMileage(tx, vehicleID, ownerID, *in.Mileage); err != nil {
			return models.Fuel{}, err
		}
	} else if _, err := ownedVehicleMileage(tx, vehicleID, ownerID); err != nil {
		return models.Fuel{}, err
	}

	var locationID string
	err = tx.QueryRow("SELECT location_id FROM fuels WHERE id = ? AND vehicle_id = ?", fuelID, vehicleID).Scan(&locationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Fuel{}, apperr.NotFound("fuel", fuelID)
		}
		return models.Fuel{}, err
	}

	_, err = tx.Exec(
		`UPDATE fuels SET
			fuel_type = COALESCE(?, fuel_type),
			quantity = COALESCE(?, quantity),
			price = COALESCE(?, price),
			mileage = COALESCE(?, mileage),
			is_full = COALESCE(?, is_full),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND vehicle_id = ?`,
		in.FuelType, in.Quantity, in.Price, in.Mileage, in.IsFull, fuelID, vehicleID,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return models.Fuel{}, fmt.Errorf("fuel: %w", apperr.ErrUpdateConflict)
		}
		return models.Fuel{}, err
	}

	if in.Location != nil {
		if err := updateLocation(tx, locationID, *in.Location); err != nil {
			if isConstraintViolation(err) {
				return models.Fuel{}, fmt.Errorf("fuel: %w", apperr.ErrUpdateConflict)
			}
			return models.Fuel{}, err
		}
	}

	if in.Mileage != nil {
		if err := propagateMileage(tx, vehicleID, ownerID, *in.Mileage); err != nil {
			return models.Fuel{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Fuel{}, err
	}

	return s.GetFuel(fuelID, vehicleID, ownerID)
}

// DeleteFuel removes a fill-up. The vehicle's stored mileage is not rolled
// back: the invariant is monotonic, not recomputed.
func (s *FuelService) DeleteFuel(fuelID, vehicleID, ownerID string) error {
	if _, err := ownedVehicleMileage(s.db, vehicleID, ownerID); err != nil {
		return err
	}

	res, err := s.db.Exec("DELETE FROM fuels WHERE id = ? AND vehicle_id = ?", fuelID, vehicleID)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("fuel: %w", apperr.ErrDeleteConflict)
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("fuel", fuelID)
	}
	return nil
}
