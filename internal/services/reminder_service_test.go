package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drivelog/drivelog-be/internal/apperr"
)

func TestReminderLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewReminderService(db)
	owner := seedUser(t, db)
	vehicle := seedVehicle(t, db, owner.ID, 60000)
	inspection := seedServiceType(t, db, "Inspection")

	reminder, err := svc.CreateReminder(vehicle.ID, owner.ID, ReminderCreate{
		ServiceTypeID: inspection.ID,
		NextMileage:   70000,
		NextDate:      time.Now().AddDate(1, 0, 0),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(70000), reminder.NextMileage)

	t.Run("unknown service type", func(t *testing.T) {
		_, err := svc.CreateReminder(vehicle.ID, owner.ID, ReminderCreate{
			ServiceTypeID: "missing",
			NextMileage:   70000,
			NextDate:      time.Now(),
		})
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("cross-owner vehicle is hidden", func(t *testing.T) {
		stranger := seedUser(t, db)
		_, err := svc.GetReminder(reminder.ID, vehicle.ID, stranger.ID)
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("a reminder may point below the odometer", func(t *testing.T) {
		// Planned-service targets are not odometer readings, so the
		// monotonicity rule does not apply to them.
		m := int64(100)
		got, err := svc.UpdateReminder(reminder.ID, vehicle.ID, owner.ID, ReminderUpdate{NextMileage: &m})
		require.NoError(t, err)
		assert.Equal(t, int64(100), got.NextMileage)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, svc.DeleteReminder(reminder.ID, vehicle.ID, owner.ID))
		_, err := svc.GetReminder(reminder.ID, vehicle.ID, owner.ID)
		assert.True(t, apperr.IsNotFound(err))
	})
}
