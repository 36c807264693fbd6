package models

import "time"

// ServiceType is a catalog entry describing a kind of maintenance work,
// e.g. oil change or brake pads. The catalog is global, not per-user.
type ServiceType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ServiceRecord represents a maintenance visit logged against a vehicle.
// Like fuel records, it carries a mileage reading that feeds the vehicle's
// monotonic mileage invariant.
type ServiceRecord struct {
	ID            string    `json:"id"`
	VehicleID     string    `json:"vehicleId"`
	ServiceTypeID string    `json:"serviceTypeId"`
	Price         float64   `json:"price"`
	Mileage       int64     `json:"mileage"`
	Location      Location  `json:"location"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Reminder schedules a future maintenance target for a vehicle. There is no
// monotonicity constraint between reminders.
type Reminder struct {
	ID            string    `json:"id"`
	VehicleID     string    `json:"vehicleId"`
	ServiceTypeID string    `json:"serviceTypeId"`
	NextMileage   int64     `json:"nextMileage"`
	NextDate      time.Time `json:"nextDate"`
	CreatedAt     time.Time `json:"createdAt"`
}
