package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivelog/drivelog-be/internal/apperr"
)

func TestCreateVehicle(t *testing.T) {
	db := newTestDB(t)
	svc := NewVehicleService(db)
	owner := seedUser(t, db)

	vehicle, err := svc.CreateVehicle(owner.ID, VehicleCreate{
		Brand:             "Honda",
		Model:             "Civic",
		Year:              2021,
		Mileage:           12000,
		VIN:               "1HGBH41JXMN109186",
		RegistrationPlate: "AB123CD",
	})
	require.NoError(t, err)
	assert.Equal(t, owner.ID, vehicle.OwnerID)
	assert.Equal(t, int64(12000), vehicle.Mileage)

	t.Run("duplicate vin", func(t *testing.T) {
		_, err := svc.CreateVehicle(owner.ID, VehicleCreate{
			Brand: "Honda", Model: "Civic", Year: 2022,
			VIN: "1HGBH41JXMN109186",
		})
		assert.True(t, apperr.IsAlreadyTaken(err))
	})

	t.Run("duplicate plate", func(t *testing.T) {
		_, err := svc.CreateVehicle(owner.ID, VehicleCreate{
			Brand: "Honda", Model: "Civic", Year: 2022,
			RegistrationPlate: "AB123CD",
		})
		assert.True(t, apperr.IsAlreadyTaken(err))
	})

	t.Run("blank vin never collides", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			_, err := svc.CreateVehicle(owner.ID, VehicleCreate{
				Brand: "Lada", Model: "Niva", Year: 1999,
			})
			require.NoError(t, err)
		}
	})

	t.Run("negative mileage", func(t *testing.T) {
		_, err := svc.CreateVehicle(owner.ID, VehicleCreate{
			Brand: "Honda", Model: "Civic", Year: 2022, Mileage: -1,
		})
		assert.True(t, apperr.IsInvalidInput(err))
	})
}

func TestGetVehicleForOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewVehicleService(db)
	alice := seedUser(t, db)
	bob := seedUser(t, db)
	vehicle := seedVehicle(t, db, alice.ID, 50000)

	t.Run("owner sees the vehicle", func(t *testing.T) {
		got, err := svc.GetVehicleForOwner(vehicle.ID, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, vehicle.ID, got.ID)
	})

	t.Run("someone else's vehicle is hidden, not forbidden", func(t *testing.T) {
		_, err := svc.GetVehicleForOwner(vehicle.ID, bob.ID)
		assert.True(t, apperr.IsNotFound(err))
		assert.False(t, apperr.IsForbidden(err))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetVehicleForOwner("missing", alice.ID)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestUpdateVehicleMileage(t *testing.T) {
	db := newTestDB(t)
	svc := NewVehicleService(db)
	owner := seedUser(t, db)
	vehicle := seedVehicle(t, db, owner.ID, 50000)

	mileage := func(v int64) *int64 { return &v }

	t.Run("increase is accepted", func(t *testing.T) {
		got, err := svc.UpdateVehicle(vehicle.ID, owner.ID, VehicleUpdate{Mileage: mileage(50500)})
		require.NoError(t, err)
		assert.Equal(t, int64(50500), got.Mileage)
	})

	t.Run("equal value is accepted", func(t *testing.T) {
		got, err := svc.UpdateVehicle(vehicle.ID, owner.ID, VehicleUpdate{Mileage: mileage(50500)})
		require.NoError(t, err)
		assert.Equal(t, int64(50500), got.Mileage)
	})

	t.Run("decrease is rejected and nothing is written", func(t *testing.T) {
		_, err := svc.UpdateVehicle(vehicle.ID, owner.ID, VehicleUpdate{Mileage: mileage(50499)})
		assert.True(t, apperr.IsMileageReduce(err))

		got, err := svc.GetVehicleForOwner(vehicle.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50500), got.Mileage)
	})

	t.Run("omitted mileage leaves the odometer alone", func(t *testing.T) {
		name := "garage queen"
		got, err := svc.UpdateVehicle(vehicle.ID, owner.ID, VehicleUpdate{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, int64(50500), got.Mileage)
		assert.Equal(t, "garage queen", got.Name)
	})

	t.Run("cross-owner update is hidden", func(t *testing.T) {
		stranger := seedUser(t, db)
		_, err := svc.UpdateVehicle(vehicle.ID, stranger.ID, VehicleUpdate{Mileage: mileage(60000)})
		assert.True(t, apperr.IsNotFound(err))
	})
}

// Concurrent odometer updates must settle on the highest accepted value, never
// a lower one that raced past the validation read.
func TestUpdateVehicleMileageConcurrent(t *testing.T) {
	db := newTestDB(t)
	svc := NewVehicleService(db)
	owner := seedUser(t, db)
	vehicle := seedVehicle(t, db, owner.ID, 1000)

	proposals := []int64{1100, 1200, 1300, 1400, 1500}

	var wg sync.WaitGroup
	for _, p := range proposals {
		wg.Add(1)
		go func(m int64) {
			defer wg.Done()
			// Losing a race to a higher value is a legal MileageReduce
			// outcome, so only unexpected failures matter here.
			_, err := svc.UpdateVehicle(vehicle.ID, owner.ID, VehicleUpdate{Mileage: &m})
			if err != nil {
				assert.True(t, apperr.IsMileageReduce(err))
			}
		}(p)
	}
	wg.Wait()

	got, err := svc.GetVehicleForOwner(vehicle.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), got.Mileage)
}

func TestDeleteVehicle(t *testing.T) {
	db := newTestDB(t)
	svc := NewVehicleService(db)
	alice := seedUser(t, db)
	bob := seedUser(t, db)
	vehicle := seedVehicle(t, db, alice.ID, 10)

	t.Run("cross-owner delete is hidden", func(t *testing.T) {
		err := svc.DeleteVehicle(vehicle.ID, bob.ID)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("owner delete cascades", func(t *testing.T) {
		fuelSvc := NewFuelService(db)
		_, err := fuelSvc.CreateFuel(vehicle.ID, alice.ID, FuelCreate{
			FuelType: "petrol_95", Quantity: 40, Price: 60, Mileage: 10,
		})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteVehicle(vehicle.ID, alice.ID))

		_, err = svc.GetVehicleForOwner(vehicle.ID, alice.ID)
		assert.True(t, apperr.IsNotFound(err))

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM fuels WHERE vehicle_id = ?", vehicle.ID).Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("infrastructure failure is not a conflict", func(t *testing.T) {
		brokenDB := newTestDB(t)
		brokenSvc := NewVehicleService(brokenDB)
		owner := seedUser(t, brokenDB)
		doomed := seedVehicle(t, brokenDB, owner.ID, 10)

		require.NoError(t, brokenDB.Close())

		err := brokenSvc.DeleteVehicle(doomed.ID, owner.ID)
		require.Error(t, err)
		assert.False(t, apperr.IsConflict(err))
		assert.False(t, apperr.IsNotFound(err))
	})
}
