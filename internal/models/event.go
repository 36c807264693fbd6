package models

import "time"

// EventState tracks the lifecycle of a community event.
type EventState string

const (
	EventPlanned  EventState = "planned"
	EventDone     EventState = "done"
	EventCanceled EventState = "canceled"
)

// Valid reports whether s is a known event state.
func (s EventState) Valid() bool {
	switch s {
	case EventPlanned, EventDone, EventCanceled:
		return true
	}
	return false
}

// Confirmation is a user's attendance answer for an event.
type Confirmation string

const (
	ConfirmYes      Confirmation = "yes"
	ConfirmMaybeYes Confirmation = "maybe_yes"
	ConfirmMaybe    Confirmation = "maybe"
	ConfirmMaybeNo  Confirmation = "maybe_no"
	ConfirmNo       Confirmation = "no"
)

// Valid reports whether c is a known confirmation answer.
func (c Confirmation) Valid() bool {
	switch c {
	case ConfirmYes, ConfirmMaybeYes, ConfirmMaybe, ConfirmMaybeNo, ConfirmNo:
		return true
	}
	return false
}

// Event is a post-like publication with a place, a start time and a state.
// Titles are unique across events. Only the author may modify or delete it.
type Event struct {
	ID          string     `json:"id"`
	AuthorID    string     `json:"authorId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Thumbnail   string     `json:"thumbnail,omitempty"`
	Body        string     `json:"body"`
	StartedAt   time.Time  `json:"startedAt"`
	State       EventState `json:"state"`
	Location    Location   `json:"location"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// EventConfirmation records one user's answer for one event.
type EventConfirmation struct {
	ID           string       `json:"id"`
	EventID      string       `json:"eventId"`
	UserID       string       `json:"userId"`
	Confirmation Confirmation `json:"confirmation"`
	CreatedAt    time.Time    `json:"createdAt"`
}
