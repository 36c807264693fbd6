package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/drivelog/drivelog-be/internal/apperr"
	"github.com/drivelog/drivelog-be/internal/models"
	ws "github.com/drivelog/drivelog-be/internal/websocket"
)

// EventCreate carries the fields for a new event.
type EventCreate struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Thumbnail   string         `json:"thumbnail"`
	Body        string         `json:"body"`
	StartedAt   time.Time      `json:"startedAt"`
	Location    LocationCreate `json:"location"`
}

// EventUpdate carries optional event fields; nil means leave unchanged.
type EventUpdate struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Thumbnail   *string            `json:"thumbnail"`
	Body        *string            `json:"body"`
	StartedAt   *time.Time         `json:"startedAt"`
	State       *models.EventState `json:"state"`
	Location    *LocationCreate    `json:"location"`
}

// EventFilter narrows the event listing.
type EventFilter struct {
	AuthorID string
	State    models.EventState
	Limit    int
	Offset   int
}

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	CreateEvent(authorID string, in EventCreate) (models.Event, error)
	GetEvents(filter EventFilter) ([]models.Event, error)
	GetEventByID(id string) (models.Event, error)
	UpdateEvent(eventID, userID string, in EventUpdate) (models.Event, error)
	DeleteEvent(eventID, userID string) error
	ConfirmEvent(eventID, userID string, answer models.Confirmation) (models.EventConfirmation, error)
	GetConfirmations(eventID string) ([]models.EventConfirmation, error)
}

// EventService provides business logic for community events. Titles are
// unique across all events; mutation is author-only and signals Forbidden.
type EventService struct {
	db  *sql.DB
	hub *ws.Hub
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB, hub *ws.Hub) *EventService {
	return &EventService{db: db, hub: hub}
}

const eventColumns = `e.id, e.author_id, e.title, COALESCE(e.description, ''), COALESCE(e.thumbnail, ''),
	e.body, e.started_at, e.state, l.id, l.latitude, l.longitude, l.created_at, e.created_at, e.updated_at`

const eventFrom = " FROM events e JOIN locations l ON l.id = e.location_id "

func scanEvent(row interface{ Scan(...any) error }) (models.Event, error) {
	var ev models.Event
	err := row.Scan(&ev.ID, &ev.AuthorID, &ev.Title, &ev.Description, &ev.Thumbnail,
		&ev.Body, &ev.StartedAt, &ev.State,
		&ev.Location.ID, &ev.Location.Latitude, &ev.Location.Longitude, &ev.Location.CreatedAt,
		&ev.CreatedAt, &ev.UpdatedAt)
	return ev, err
}

// CreateEvent publishes a new event and notifies feed subscribers.
func (s *EventService) CreateEvent(authorID string, in EventCreate) (models.Event, error) {
	if in.Title == "" {
		return models.Event{}, apperr.Invalid("title", "is required")
	}

	if taken, err := s.isTitleTaken(in.Title); err != nil {
		return models.Event{}, err
	} else if taken {
		return models.Event{}, apperr.Taken("title")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Event{}, err
	}
	defer tx.Rollback()

	locationID, err := insertLocation(tx, in.Location)
	if err != nil {
		if isConstraintViolation(err) {
			return models.Event{}, fmt.Errorf("event: %w", apperr.ErrCreateConflict)
		}
		return models.Event{}, err
	}

	id := uuid.New().String()
	_, err = tx.Exec(
		`INSERT INTO events(id, author_id, location_id, title, description, thumbnail, body, started_at, state)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, authorID, locationID, in.Title, nullable(in.Description), nullable(in.Thumbnail),
		in.Body, in.StartedAt, models.EventPlanned,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Event{}, apperr.Taken("title")
		}
		if isConstraintViolation(err) {
			return models.Event{}, fmt.Errorf("event: %w", apperr.ErrCreateConflict)
		}
		return models.Event{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Event{}, err
	}

	event, err := s.GetEventByID(id)
	if err != nil {
		return models.Event{}, err
	}

	s.broadcast("event.created", event)
	return event, nil
}

// GetEvents lists events, optionally filtered by author and state, soonest first.
func (s *EventService) GetEvents(filter EventFilter) ([]models.Event, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.State != "" && !filter.State.Valid() {
		return nil, apperr.Invalid("state", "unknown event state")
	}

	query := "SELECT " + eventColumns + eventFrom + "WHERE 1=1"
	args := []any{}
	if filter.AuthorID != "" {
		query += " AND e.author_id = ?"
		args = append(args, filter.AuthorID)
	}
	if filter.State != "" {
		query += " AND e.state = ?"
		args = append(args, filter.State)
	}
	query += " ORDER BY e.started_at LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// GetEventByID retrieves a single event. Reads are public.
func (s *EventService) GetEventByID(id string) (models.Event, error) {
	row := s.db.QueryRow("SELECT "+eventColumns+eventFrom+"WHERE e.id = ?", id)
	ev, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Event{}, apperr.NotFound("event", id)
		}
		return models.Event{}, err
	}
	return ev, nil
}

// UpdateEvent applies a partial update after the author check.
func (s *EventService) UpdateEvent(eventID, userID string, in EventUpdate) (models.Event, error) {
	event, err := s.GetEventByID(eventID)
	if err != nil {
		return models.Event{}, err
	}
	if event.AuthorID != userID {
		return models.Event{}, apperr.Forbidden("event")
	}
	if in.State != nil && !in.State.Valid() {
		return models.Event{}, apperr.Invalid("state", "unknown event state")
	}
	if in.Title != nil && *in.Title != event.Title {
		if taken, err := s.isTitleTaken(*in.Title); err != nil {
			return models.Event{}, err
		} else if taken {
			return models.Event{}, apperr.Taken("title")
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return models.Event{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE events SET
			title = COALESCE(?, title),
			description = COALESCE(?, description),
			thumbnail = COALESCE(?, thumbnail),
			body = COALESCE(?, body),
			started_at = COALESCE(?, started_at),
			state = COALESCE(?, state),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		in.Title, in.Description, in.Thumbnail, in.Body, in.StartedAt, in.State, eventID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Event{}, apperr.Taken("title")
		}
		if isConstraintViolation(err) {
			return models.Event{}, fmt.Errorf("event: %w", apperr.ErrUpdateConflict)
		}
		return models.Event{}, err
	}

	if in.Location != nil {
		if err := updateLocation(tx, event.Location.ID, *in.Location); err != nil {
			if isConstraintViolation(err) {
				return models.Event{}, fmt.Errorf("event: %w", apperr.ErrUpdateConflict)
			}
			return models.Event{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Event{}, err
	}

	return s.GetEventByID(eventID)
}

// DeleteEvent removes an event and, via cascade, its confirmations.
func (s *EventService) DeleteEvent(eventID, userID string) error {
	event, err := s.GetEventByID(eventID)
	if err != nil {
		return err
	}
	if event.AuthorID != userID {
		return apperr.Forbidden("event")
	}

	if _, err := s.db.Exec("DELETE FROM events WHERE id = ?", eventID); err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("event: %w", apperr.ErrDeleteConflict)
		}
		return err
	}
	return nil
}

// ConfirmEvent records or replaces the user's attendance answer. One answer
// per user per event.
func (s *EventService) ConfirmEvent(eventID, userID string, answer models.Confirmation) (models.EventConfirmation, error) {
	if !answer.Valid() {
		return models.EventConfirmation{}, apperr.Invalid("confirmation", "unknown answer")
	}
	if _, err := s.GetEventByID(eventID); err != nil {
		return models.EventConfirmation{}, err
	}

	id := uuid.New().String()
	_, err := s.db.Exec(
		`INSERT INTO event_confirmations(id, event_id, user_id, confirmation) VALUES(?, ?, ?, ?)
		 ON CONFLICT(event_id, user_id) DO UPDATE SET confirmation = excluded.confirmation`,
		id, eventID, userID, answer,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return models.EventConfirmation{}, fmt.Errorf("event confirmation: %w", apperr.ErrCreateConflict)
		}
		return models.EventConfirmation{}, err
	}

	var c models.EventConfirmation
	row := s.db.QueryRow(
		"SELECT id, event_id, user_id, confirmation, created_at FROM event_confirmations WHERE event_id = ? AND user_id = ?",
		eventID, userID,
	)
	if err := row.Scan(&c.ID, &c.EventID, &c.UserID, &c.Confirmation, &c.CreatedAt); err != nil {
		return models.EventConfirmation{}, err
	}
	return c, nil
}

// GetConfirmations lists all attendance answers for an event.
func (s *EventService) GetConfirmations(eventID string) ([]models.EventConfirmation, error) {
	if _, err := s.GetEventByID(eventID); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		"SELECT id, event_id, user_id, confirmation, created_at FROM event_confirmations WHERE event_id = ? ORDER BY created_at",
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var confirmations []models.EventConfirmation
	for rows.Next() {
		var c models.EventConfirmation
		if err := rows.Scan(&c.ID, &c.EventID, &c.UserID, &c.Confirmation, &c.CreatedAt); err != nil {
			return nil, err
		}
		confirmations = append(confirmations, c)
	}
	return confirmations, rows.Err()
}

func (s *EventService) isTitleTaken(title string) (bool, error) {
	var id string
	err := s.db.QueryRow("SELECT id FROM events WHERE title = ?", title).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *EventService) broadcast(action string, payload any) {
	if s.hub == nil {
		return
	}
	msg, err := json.Marshal(ws.Message{Action: action, Payload: payload})
	if err != nil {
		return
	}
	s.hub.BroadcastTo(ws.TopicEvents, msg)
}
