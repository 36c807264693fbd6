package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/models"
)

// ReminderCreate carries the fields for a new maintenance reminder.
type ReminderCreate struct {
	ServiceTypeID string    `json:"serviceTypeId"`
	NextMileage   int64     `json:"nextMileage"`
	NextDate      time.Time `json:"nextDate"`
}

// ReminderUpdate carries optional reminder fields; nil means leave unchanged.
type ReminderUpdate struct {
	ServiceTypeID *string    `json:"serviceTypeId"`
	NextMileage   *int64     `json:"nextMileage"`
	NextDate      *time.Time `json:"nextDate"`
}

// ReminderServiceProvider defines the interface for reminder services.
type ReminderServiceProvider interface {
	CreateReminder(vehicleID, ownerID string, in ReminderCreate) (models.Reminder, error)
	GetRemindersByVehicle(vehicleID, ownerID string) ([]models.Reminder, error)
	GetReminder(reminderID, vehicleID, ownerID string) (models.Reminder, error)
	UpdateReminder(reminderID, vehicleID, ownerID string, in ReminderUpdate) (models.Reminder, error)
	DeleteReminder(reminderID, vehicleID, ownerID string) error
}

// ReminderService provides business logic for maintenance reminders. Reminder
// targets carry no monotonicity constraint: the target mileage is a goal, not
// a reading.
type ReminderService struct {
	db *sql.DB
}

// NewReminderService creates a new ReminderService.
func NewReminderService(db *sql.DB) *ReminderService {
	return &ReminderService{db: db}
}

const reminderColumns = "id, vehicle_id, service_type_id, next_mileage, next_date, created_at"

func scanReminder(row interface{ Scan(...any) error }) (models.Reminder, error) {
	var r models.Reminder
	err := row.Scan(&r.ID, &r.VehicleID, &r.ServiceTypeID, &r.NextMileage, &r.NextDate, &r.CreatedAt)
	return r, err
}

// CreateReminder schedules a reminder for a vehicle the user owns.
func (s *ReminderService) CreateReminder(vehicleID, ownerID string, in ReminderCreate) (models.Reminder, error) {
	if _, err := ownedVehicleMileage(s.db, vehicleID, ownerID); err != nil {
		return models.Reminder{}, err
	}
	if err := serviceTypeExists(s.db, in.ServiceTypeID); err != nil {
		return models.Reminder{}, err
	}

	id := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO reminders(id, vehicle_id, service_type_id, next_mileage, next_date) VALUES(?, ?, ?, ?, ?)",
		id, vehicleID, in.ServiceTypeID, in.NextMileage, in.NextDate,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return models.Reminder{}, fmt.Errorf("reminder: %w", apperr.ErrCreateConflict)
		}
		return models.Reminder{}, err
	}

	return s.GetReminder(id, vehicleID, ownerID)
}

// GetRemindersByVehicle lists all reminders of an owned vehicle.
func (s *ReminderService) GetRemindersByVehicle(vehicleID, ownerID string) ([]models.Reminder, error) {
	if _, err := ownedVehicleMileage(s.db, vehicleID, ownerID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT "+reminderColumns+" FROM reminders WHERE vehicle_id = ? ORDER BY next_date", vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// GetReminder retrieves one reminder through the parent vehicle.
func (s *ReminderService) GetReminder(reminderID, vehicleID, ownerID string) (models.Reminder, error) {
	if _, err := ownedVehicleMileage(s.db, vehicleID, ownerID); err != nil {
		return models.Reminder{}, err
	}

	row := s.db.QueryRow("SELECT "+reminderColumns+" FROM reminders WHERE id = ? AND vehicle_id = ?", reminderID, vehicleID)
	r, err := scanReminder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Reminder{}, apperr.NotFound("reminder", reminderID)
		}
		return models.Reminder{}, err
	}
	return r, nil
}

// UpdateReminder applies a partial update.
func (s *ReminderService) UpdateReminder(reminderID, vehicleID, ownerID string, in ReminderUpdate) (models.Reminder, error) {
	if _, err := s.GetReminder(reminderID, vehicleID, ownerID); err != nil {
		return models.Reminder{}, err
	}
	if in.ServiceTypeID != nil {
		if err := serviceTypeExists(s.db, *in.ServiceTypeID); err != nil {
			return models.Reminder{}, err
		}
	}

	_, err := s.db.Exec(
		`UPDATE reminders SET
			service_type_id = COALESCE(?, service_type_id),
			next_mileage = COALESCE(?, next_mileage),
			next_date = COALESCE(?, next_date)
		WHERE id = ? AND vehicle_id = ?`,
		in.ServiceTypeID, in.NextMileage, in.NextDate, reminderID, vehicleID,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return models.Reminder{}, fmt.Errorf("reminder: %w", apperr.ErrUpdateConflict)
		}
		return models.Reminder{}, err
	}

	return s.GetReminder(reminderID, vehicleID, ownerID)
}

// DeleteReminder removes a reminder.
func (s *ReminderService) DeleteReminder(reminderID, vehicleID, ownerID string) error {
	if _, err := ownedVehicleMileage(s.db, vehicleID, ownerID); err != nil {
		return err
	}

	res, err := s.db.Exec("DELETE FROM reminders WHERE id = ? AND vehicle_id = ?", reminderID, vehicleID)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("reminder: %w", apperr.ErrDeleteConflict)
		}
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("reminder", reminderID)
	}
	return nil
}
