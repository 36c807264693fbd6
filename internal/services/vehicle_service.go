package services

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/models"
)

// VehicleCreate carries the fields for a new vehicle.
type VehicleCreate struct {
	Name              string `json:"name"`
	Brand             string `json:"brand"`
	Model             string `json:"model"`
	Gen               string `json:"gen"`
	Year              int    `json:"year"`
	Color             string `json:"color"`
	Mileage           int64  `json:"mileage"`
	VIN               string `json:"vin"`
	RegistrationPlate string `json:"registrationPlate"`
}

// VehicleUpdate carries optional vehicle fields; nil means leave unchanged.
type VehicleUpdate struct {
	Name              *string `json:"name"`
	Brand             *string `json:"brand"`
	Model             *string `json:"model"`
	Gen               *string `json:"gen"`
	Year              *int    `json:"year"`
	Color             *string `json:"color"`
	Mileage           *int64  `json:"mileage"`
	VIN               *string `json:"vin"`
	RegistrationPlate *string `json:"registrationPlate"`
}

// VehicleServiceProvider defines the interface for vehicle services.
type VehicleServiceProvider interface {
	CreateVehicle(ownerID string, in VehicleCreate) (models.Vehicle, error)
	GetVehiclesByOwner(ownerID string) ([]models.Vehicle, error)
	GetVehicleForOwner(vehicleID, ownerID string) (models.Vehicle, error)
	UpdateVehicle(vehicleID, ownerID string, in VehicleUpdate) (models.Vehicle, error)
	DeleteVehicle(vehicleID, ownerID string) error
	IsVINTaken(vin string) (bool, error)
	IsPlateTaken(plate string) (bool, error)
}

// VehicleService provides business logic for vehicle management.
type VehicleService struct {
	db *sql.DB
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(db *sql.DB) *VehicleService {
	return &VehicleService{db: db}
}

// Blank VIN and plate are stored as NULL so the unique indexes ignore them;
// reads fold NULL back to the empty string.
const vehicleColumns = "id, owner_id, name, brand, model, gen, year, color, mileage, COALESCE(vin, ''), COALESCE(registration_plate, ''), created_at, updated_at"

func scanVehicle(row interface{ Scan(...any) error }) (models.Vehicle, error) {
	var v models.Vehicle
	err := row.Scan(&v.ID, &v.OwnerID, &v.Name, &v.Brand, &v.Model, &v.Gen, &v.Year,
		&v.Color, &v.Mileage, &v.VIN, &v.RegistrationPlate, &v.CreatedAt, &v.UpdatedAt)
	return v, err
}

// CreateVehicle registers a new vehicle for the owner. VIN and registration
// plate are checked against the whole table, regardless of owner.
func (s *VehicleService) CreateVehicle(ownerID string, in VehicleCreate) (models.Vehicle, error) {
	if in.VIN != "" {
		if taken, err := s.IsVINTaken(in.VIN); err != nil {
			return models.Vehicle{}, err
		} else if taken {
			return models.Vehicle{}, apperr.Taken("vin")
		}
	}
	if in.RegistrationPlate != "" {
		if taken, err := s.IsPlateTaken(in.RegistrationPlate); err != nil {
			return models.Vehicle{}, err
		} else if taken {
			return models.Vehicle{}, apperr.Taken("registration plate")
		}
	}
	if in.Mileage < 0 {
		return models.Vehicle{}, apperr.Invalid("mileage", "must not be negative")
	}

	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO vehicles(id, owner_id, name, brand, model, gen, year, color, mileage, vin, registration_plate)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ownerID, in.Name, in.Brand, in.Model, in.Gen, in.Year, in.Color, in.Mileage,
		nullable(in.VIN), nullable(in.RegistrationPlate),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Vehicle{}, fmt.Errorf("vehicle: %w", apperr.ErrCreateConflict)
		}
		return models.Vehicle{}, err
	}

	return s.GetVehicleForOwner(id, ownerID)
}

// GetVehiclesByOwner lists all vehicles belonging to the owner.
func (s *VehicleService) GetVehiclesByOwner(ownerID string) ([]models.Vehicle, error) {
	rows, err := s.db.Query("SELECT "+vehicleColumns+" FROM vehicles WHERE owner_id = ? ORDER BY created_at", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []models.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// GetVehicleForOwner resolves a vehicle by id and owner in a single filtered
// query. A vehicle belonging to someone else is reported as NotFound, never
// Forbidden: cross-tenant rows are hidden.
func (s *VehicleService) GetVehicleForOwner(vehicleID, ownerID string) (models.Vehicle, error) {
	row := s.db.QueryRow("SELECT "+vehicleColumns+" FROM vehicles WHERE id = ? AND owner_id = ?", vehicleID, ownerID)
	v, err := scanVehicle(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Vehicle{}, apperr.NotFound("vehicle", vehicleID)
		}
		return models.Vehicle{}, err
	}
	return v, nil
}

// UpdateVehicle applies a partial update. A supplied mileage goes through the
// monotonicity rule; omitting it leaves the stored mileage alone. The
// read-validate-write sequence runs in one transaction.
func (s *VehicleService) UpdateVehicle(vehicleID, ownerID string, in VehicleUpdate) (models.Vehicle, error) {
	if in.VIN != nil && *in.VIN != "" {
		if taken, err := s.isTakenByOther("vin", *in.VIN, vehicleID); err != nil {
			return models.Vehicle{}, err
		} else if taken {
			return models.Vehicle{}, apperr.Taken("vin")
		}
	}
	if in.RegistrationPlate != nil && *in.RegistrationPlate != "" {
		if taken, err := s.isTakenByOther("registration_plate", *in.RegistrationPlate, vehicleID); err != nil {
			return models.Vehicle{}, err
		} else if taken {
			return models.Vehicle{}, apperr.Taken("registration plate")
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Vehicle{}, err
	}
	defer tx.Rollback()

	if in.Mileage != nil {
		if err := checkMileage(tx, vehicleID, ownerID, *in.Mileage); err != nil {
			return models.Vehicle{}, err
		}
	} else if _, err := ownedVehicleMileage(tx, vehicleID, ownerID); err != nil {
		return models.Vehicle{}, err
	}

	_, err = tx.Exec(
		`UPDATE vehicles SET
			name = COALESCE(?, name),
			brand = COALESCE(?, brand),
			model = COALESCE(?, model),
			gen = COALESCE(?, gen),
			year = COALESCE(?, year),
			color = COALESCE(?, color),
			vin = COALESCE(?, vin),
			registration_plate = COALESCE(?, registration_plate),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND owner_id = ?`,
		in.Name, in.Brand, in.Model, in.Gen, in.Year, in.Color, in.VIN, in.RegistrationPlate,
		vehicleID, ownerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Vehicle{}, fmt.Errorf("vehicle: %w", apperr.ErrUpdateConflict)
		}
		return models.Vehicle{}, err
	}

	if in.Mileage != nil {
		if err := propagateMileage(tx, vehicleID, ownerID, *in.Mileage); err != nil {
			return models.Vehicle{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Vehicle{}, err
	}

	return s.GetVehicleForOwner(vehicleID, ownerID)
}

// DeleteVehicle removes a vehicle and, via cascade, its fuels, service
// records and reminders.
func (s *VehicleService) DeleteVehicle(vehicleID, ownerID string) error {
	res, err := s.db.Exec("DELETE FROM vehicles WHERE id = ? AND owner_id = ?", vehicleID, ownerID)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("vehicle: %w", apperr.ErrDeleteConflict)
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("vehicle", vehicleID)
	}
	return nil
}

// IsVINTaken reports whether any vehicle already carries the VIN.
func (s *VehicleService) IsVINTaken(vin string) (bool, error) {
	return s.isTakenByOther("vin", vin, "")
}

// IsPlateTaken reports whether any vehicle already carries the plate.
func (s *VehicleService) IsPlateTaken(plate string) (bool, error) {
	return s.isTakenByOther("registration_plate", plate, "")
}

// isTakenByOther performs the uniqueness point lookup, optionally excluding
// one vehicle so an update can resubmit its own current value.
func (s *VehicleService) isTakenByOther(field, value, excludeID string) (bool, error) {
	var id string
	err := s.db.QueryRow("SELECT id FROM vehicles WHERE "+field+" = ? AND id != ?", value, excludeID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// nullable maps an empty string to NULL so unique indexes ignore blank values.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
