package models

import "time"

// APIKey grants access to the service-type admin surface. Keys are
// independent of user accounts and can be revoked without deleting them.
type APIKey struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Description string    `json:"description"`
	IsRevoked   bool      `json:"isRevoked"`
	CreatedAt   time.Time `json:"createdAt"`
}
