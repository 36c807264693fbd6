package services

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drivelog/drivelog-be/internal/database"
	"github.com/drivelog/drivelog-be/internal/models"
)

// newTestDB opens a fresh in-memory database with the full schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

var userSeq int

// seedUser registers a user with unique credentials and returns it.
func seedUser(t *testing.T, db *sql.DB) models.User {
	t.Helper()

	userSeq++
	svc := NewUserService(db)
	user, err := svc.Register(
		fmt.Sprintf("driver%d", userSeq),
		fmt.Sprintf("driver%d@example.com", userSeq),
		fmt.Sprintf("+1415555%04d", 2000+userSeq),
		"hunter2hunter2",
	)
	require.NoError(t, err)
	return user
}

// seedVehicle creates a vehicle for the given owner and returns it.
func seedVehicle(t *testing.T, db *sql.DB, ownerID string, mileage int64) models.Vehicle {
	t.Helper()

	svc := NewVehicleService(db)
	vehicle, err := svc.CreateVehicle(ownerID, VehicleCreate{
		Name:    "daily",
		Brand:   "Toyota",
		Model:   "Corolla",
		Year:    2019,
		Mileage: mileage,
	})
	require.NoError(t, err)
	return vehicle
}

// seedServiceType creates a catalog entry and returns it.
func seedServiceType(t *testing.T, db *sql.DB, name string) models.ServiceType {
	t.Helper()

	svc := NewServiceTypeService(db)
	serviceType, err := svc.CreateServiceType(name, "")
	require.NoError(t, err)
	return serviceType
}
