// Package apperr defines the error kinds shared by every service. Services
// return these kinds; the handler layer alone maps them to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a genuinely absent entity and an entity that
	// belongs to another user (cross-tenant access is hidden, not refused).
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the entity exists and ownership was explicitly
	// denied. Only posts, comments and events signal this.
	ErrForbidden = errors.New("forbidden")

	// ErrAlreadyTaken means a candidate unique value is already in use.
	ErrAlreadyTaken = errors.New("already taken")

	// ErrMileageReduce means a proposed mileage is below the vehicle's
	// current stored mileage.
	ErrMileageReduce = errors.New("mileage reduce")

	// ErrInvalidInput covers malformed values, e.g. an unparseable phone number.
	ErrInvalidInput = errors.New("invalid input")

	ErrCreateConflict = errors.New("create conflict")
	ErrUpdateConflict = errors.New("update conflict")
	ErrDeleteConflict = errors.New("delete conflict")
)

// NotFound wraps ErrNotFound with the entity name, and the id when known.
func NotFound(entity, id string) error {
	if id == "" {
		return fmt.Errorf("%s: %w", entity, ErrNotFound)
	}
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}

// Forbidden wraps ErrForbidden with the entity name.
func Forbidden(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrForbidden)
}

// Taken wraps ErrAlreadyTaken with the field name.
func Taken(field string) error {
	return fmt.Errorf("%s: %w", field, ErrAlreadyTaken)
}

// Invalid wraps ErrInvalidInput with the field name and a reason.
func Invalid(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

func IsNotFound(err error) bool      { return errors.Is(err, ErrNotFound) }
func IsForbidden(err error) bool     { return errors.Is(err, ErrForbidden) }
func IsAlreadyTaken(err error) bool  { return errors.Is(err, ErrAlreadyTaken) }
func IsMileageReduce(err error) bool { return errors.Is(err, ErrMileageReduce) }
func IsInvalidInput(err error) bool  { return errors.Is(err, ErrInvalidInput) }

// IsConflict reports whether err is any of the write-time constraint kinds.
func IsConflict(err error) bool {
	return errors.Is(err, ErrCreateConflict) ||
		errors.Is(err, ErrUpdateConflict) ||
		errors.Is(err, ErrDeleteConflict)
}
