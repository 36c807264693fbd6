package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/models"
)

func TestCreateFuel(t *testing.T) {
	db := newTestDB(t)
	svc := NewFuelService(db)
	vehicles := NewVehicleService(db)
	owner := seedUser(t, db)
	vehicle := seedVehicle(t, db, owner.ID, 50000)

	t.Run("higher reading propagates onto the vehicle", func(t *testing.T) {
		fuel, err := svc.CreateFuel(vehicle.ID, owner.ID, FuelCreate{
			FuelType: models.FuelPetrol95,
			Quantity: 42.5,
			Price:    63.80,
			Mileage:  50320,
			IsFull:   true,
			Location: LocationCreate{Latitude: 52.52, Longitude: 13.405},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(50320), fuel.Mileage)
		assert.Equal(t, 52.52, fuel.Location.Latitude)

		got, err := vehicles.GetVehicleForOwner(vehicle.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(50320), got.Mileage)
	})

	t.Run("equal reading is accepted", func(t *testing.T) {
		_, err := svc.CreateFuel(vehicle.ID, owner.ID, FuelCreate{
			FuelType: models.FuelDiesel,
			Quantity: 10,
			Price:    15,
			Mileage:  50320,
		})
		require.NoError(t, err)
	})

	t.Run("lower reading is rejected and nothing is written", func(t *testing.T) {
		_, err := svc.CreateFuel(vehicle.ID, owner.ID, FuelCreate{
			FuelType: models.FuelPetrol95,
			Quantity: 5,
			Price:    8,
			Mileage:  50319,
		})
		assert.True(t, apperr.IsMileageReduce(err))

		fuels, err := svc.GetFuelsByVehicle(vehicle.ID, owner.ID)
		require.NoError(t, err)
		assert.Len(t, fuels, 2)
	})

	t.Run("unknown fuel type", func(t *testing.T) {
		_, err := svc.CreateFuel(vehicle.ID, owner.ID, FuelCreate{
			FuelType: "kerosene",
			Quantity: 5,
			Price:    8,
			Mileage:  60000,
		})
		assert.True(t, apperr.IsInvalidInput(err))
	})

	t.Run("cross-owner vehicle is hidden", func(t *testing.T) {
		stranger := seedUser(t, db)
		_, err := svc.CreateFuel(vehicle.ID, stranger.ID, FuelCreate{
			FuelType: models.FuelPetrol95,
			Quantity: 5,
			Price:    8,
			Mileage:  60000,
		})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestUpdateFuel(t *testing.T) {
	db := newTestDB(t)
	svc := NewFuelService(db)
	vehicles := NewVehicleService(db)
	owner := seedUser(t, db)
	vehicle := seedVehicle(t, db, owner.ID, 1000)

	fuel, err := svc.CreateFuel(vehicle.ID, owner.ID, FuelCreate{
		FuelType: models.FuelPetrol95,
		Quantity: 40,
		Price:    60,
		Mileage:  1200,
	})
	require.NoError(t, err)

	t.Run("corrected reading propagates", func(t *testing.T) {
		m := int64(1250)
		got, err := svc.UpdateFuel(fuel.ID, vehicle.ID, owner.ID, FuelUpdate{Mileage: &m})
		require.NoError(t, err)
		assert.Equal(t, int64(1250), got.Mileage)

		v, err := vehicles.GetVehicleForOwner(vehicle.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1250), v.Mileage)
	})

	t.Run("reading below the odometer is rejected", func(t *testing.T) {
		m := int64(900)
		_, err := svc.UpdateFuel(fuel.ID, vehicle.ID, owner.ID, FuelUpdate{Mileage: &m})
		assert.True(t, apperr.IsMileageReduce(err))
	})

	t.Run("location is replaced in place", func(t *testing.T) {
		loc := LocationCreate{Latitude: 48.85, Longitude: 2.35}
		got, err := svc.UpdateFuel(fuel.ID, vehicle.ID, owner.ID, FuelUpdate{Location: &loc})
		require.NoError(t, err)
		assert.Equal(t, 48.85, got.Location.Latitude)
	})

	t.Run("unknown fuel id", func(t *testing.T) {
		q := 10.0
		_, err := svc.UpdateFuel("missing", vehicle.ID, owner.ID, FuelUpdate{Quantity: &q})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestDeleteFuel(t *testing.T) {
	db := newTestDB(t)
	svc := NewFuelService(db)
	vehicles := NewVehicleService(db)
	owner := seedUser(t, db)
	vehicle := seedVehicle(t, db, owner.ID, 1000)

	fuel, err := svc.CreateFuel(vehicle.ID, owner.ID, FuelCreate{
		FuelType: models.FuelPetrol95,
		Quantity: 40,
		Price:    60,
		Mileage:  1500,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteFuel(fuel.ID, vehicle.ID, owner.ID))

	t.Run("vehicle mileage is not rolled back", func(t *testing.T) {
		v, err := vehicles.GetVehicleForOwner(vehicle.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), v.Mileage)
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		err := svc.DeleteFuel(fuel.ID, vehicle.ID, owner.ID)
		assert.True(t, apperr.IsNotFound(err))
	})
}
