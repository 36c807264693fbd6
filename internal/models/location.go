package models

import "time"

// Location is a geographic point attached to fuel stops, service visits and events.
type Location struct {
	ID        string    `json:"id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"createdAt"`
}
