package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivelog/drivelog-be/internal/apperr"
)

func TestCreateServiceRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceRecordService(db)
	vehicles := NewVehicleService(db)
	owner := seedUser(t, db)
	vehicle := seedVehicle(t, db, owner.ID, 80000)
	oilChange := seedServiceType(t, db, "Oil change")

	t.Run("record propagates its reading", func(t *testing.T) {
		record, err := svc.CreateServiceRecord(vehicle.ID, owner.ID, ServiceRecordCreate{
			ServiceTypeID: oilChange.ID,
			Price:         120,
			Mileage:       80150,
			Location:      LocationCreate{Latitude: 41.0, Longitude: 29.0},
		})
		require.NoError(t, err)
		assert.Equal(t, oilChange.ID, record.ServiceTypeID)

		v, err := vehicles.GetVehicleForOwner(vehicle.ID, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(80150), v.Mileage)
	})

	t.Run("lower reading is rejected", func(t *testing.T) {
		_, err := svc.CreateServiceRecord(vehicle.ID, owner.ID, ServiceRecordCreate{
			ServiceTypeID: oilChange.ID,
			Price:         50,
			Mileage:       80149,
		})
		assert.True(t, apperr.IsMileageReduce(err))
	})

	t.Run("unknown service type", func(t *testing.T) {
		_, err := svc.CreateServiceRecord(vehicle.ID, owner.ID, ServiceRecordCreate{
			ServiceTypeID: "missing",
			Price:         50,
			Mileage:       90000,
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("cross-owner vehicle is hidden", func(t *testing.T) {
		stranger := seedUser(t, db)
		_, err := svc.CreateServiceRecord(vehicle.ID, stranger.ID, ServiceRecordCreate{
			ServiceTypeID: oilChange.ID,
			Price:         50,
			Mileage:       90000,
		})
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestUpdateServiceRecord(t *testing.T) {
	db := newTestDB(t)
	svc := NewServiceRecordService(db)
	owner := seedUser(t, db)
	vehicle := seedVehicle(t, db, owner.ID, 1000)
	oilChange := seedServiceType(t, db, "Oil change")
	brakes := seedServiceType(t, db, "Brake pads")

	record, err := svc.CreateServiceRecord(vehicle.ID, owner.ID, ServiceRecordCreate{
		ServiceTypeID: oilChange.ID,
		Price:         100,
		Mileage:       1200,
	})
	require.NoError(t, err)

	t.Run("service type can be corrected", func(t *testing.T) {
		got, err := svc.UpdateServiceRecord(record.ID, vehicle.ID, owner.ID, ServiceRecordUpdate{
			ServiceTypeID: &brakes.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, brakes.ID, got.ServiceTypeID)
	})

	t.Run("reading below the odometer is rejected", func(t *testing.T) {
		m := int64(1100)
		_, err := svc.UpdateServiceRecord(record.ID, vehicle.ID, owner.ID, ServiceRecordUpdate{Mileage: &m})
		assert.True(t, apperr.IsMileageReduce(err))
	})

	t.Run("delete then reread", func(t *testing.T) {
		require.NoError(t, svc.DeleteServiceRecord(record.ID, vehicle.ID, owner.ID))
		_, err := svc.GetServiceRecord(record.ID, vehicle.ID, owner.ID)
		assert.True(t, apperr.IsNotFound(err))
	})
}
