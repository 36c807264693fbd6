package models

import "time"

// Vehicle represents a vehicle owned by a user. Mileage is monotonically
// non-decreasing over the vehicle's lifetime.
type Vehicle struct {
	ID                string    `json:"id"`
	OwnerID           string    `json:"ownerId"`
	Name              string    `json:"name"`
	Brand             string    `json:"brand"`
	Model             string    `json:"model"`
	Gen               string    `json:"gen"`
	Year              int       `json:"year"`
	Color             string    `json:"color"`
	Mileage           int64     `json:"mileage"`
	VIN               string    `json:"vin"`
	RegistrationPlate string    `json:"registrationPlate"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
