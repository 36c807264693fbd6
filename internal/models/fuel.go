package models

import "time"

// FuelType enumerates the kinds of fuel a fill-up can record.
type FuelType string

const (
	FuelPetrol92    FuelType = "petrol_92"
	FuelPetrol95    FuelType = "petrol_95"
	FuelPetrol98    FuelType = "petrol_98"
	FuelPetrol100   FuelType = "petrol_100"
	FuelDiesel      FuelType = "diesel"
	FuelGas         FuelType = "gas"
	FuelElectricity FuelType = "electricity"
)

// Valid reports whether ft is one of the known fuel types.
func (ft FuelType) Valid() bool {
	switch ft {
	case FuelPetrol92, FuelPetrol95, FuelPetrol98, FuelPetrol100, FuelDiesel, FuelGas, FuelElectricity:
		return true
	}
	return false
}

// Fuel represents a single fill-up for a vehicle. The mileage reading taken
// at the pump drives the vehicle's monotonic mileage invariant.
type Fuel struct {
	ID        string    `json:"id"`
	VehicleID string    `json:"vehicleId"`
	FuelType  FuelType  `json:"fuelType"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	Mileage   int64     `json:"mileage"`
	IsFull    bool      `json:"isFull"`
	Location  Location  `json:"location"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
