package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/drivelog/drivelog-be/internal/apperr"
)

// querier is the subset of *sql.DB and *sql.Tx the guard helpers need, so the
// same checks run standalone or inside a transaction.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Exec(query string, args ...any) (sql.Result, error)
}

// ownedVehicleMileage resolves a vehicle by id and owner in one filtered query
// and returns its current mileage. Collapsing the existence check and the
// ownership check into a single WHERE clause avoids the window where the row
// could be reassigned between two separate lookups. A missing row and a row
// owned by someone else are indistinguishable to the caller: both are NotFound.
func ownedVehicleMileage(q querier, vehicleID, ownerID string) (int64, error) {
	var mileage int64
	err := q.QueryRow("SELECT mileage FROM vehicles WHERE id = ? AND owner_id = ?", vehicleID, ownerID).Scan(&mileage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.NotFound("vehicle", vehicleID)
		}
		return 0, err
	}
	return mileage, nil
}

// checkMileage enforces the monotonicity rule: a proposed reading below the
// vehicle's current mileage is rejected. Equal readings pass.
func checkMileage(q querier, vehicleID, ownerID string, proposed int64) error {
	current, err := ownedVehicleMileage(q, vehicleID, ownerID)
	if err != nil {
		return err
	}
	if proposed < current {
		return apperr.ErrMileageReduce
	}
	return nil
}

// propagateMileage persists an accepted reading onto the vehicle. The
// mileage <= ? guard makes the statement a compare-and-set: even if two
// transactions interleave, the stored mileage can only move forward.
func propagateMileage(q querier, vehicleID, ownerID string, accepted int64) error {
	_, err := q.Exec(
		"UPDATE vehicles SET mileage = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND owner_id = ? AND mileage <= ?",
		accepted, vehicleID, ownerID, accepted,
	)
	return err
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isConstraintViolation reports whether err is any sqlite constraint failure
// (unique, foreign key, check). Infrastructure errors do not match and must
// surface to the caller unwrapped.
func isConstraintViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "constraint failed")
}
