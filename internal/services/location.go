package services

import (
	"github.com/google/uuid"
)

// LocationCreate carries the coordinates of a new geographic point.
type LocationCreate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// insertLocation stores a location row and returns its id. Locations are
// always created in the same transaction as the record that references them.
func insertLocation(q querier, in LocationCreate) (string, error) {
	id := uuid.New().String()
	_, err := q.Exec("INSERT INTO locations(id, latitude, longitude) VALUES(?, ?, ?)", id, in.Latitude, in.Longitude)
	if err != nil {
		return "", err
	}
	return id, nil
}

// updateLocation rewrites a location's coordinates in place.
func updateLocation(q querier, id string, in LocationCreate) error {
	_, err := q.Exec("UPDATE locations SET latitude = ?, longitude = ? WHERE id = ?", in.Latitude, in.Longitude, id)
	return err
}
