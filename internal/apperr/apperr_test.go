package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFound(t *testing.T) {
	err := NotFound("vehicle", "abc123")

	expected := `vehicle "abc123": not found`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected error to wrap ErrNotFound")
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound should return true")
	}
}

func TestNotFound_NoID(t *testing.T) {
	err := NotFound("vehicle", "")

	expected := "vehicle: not found"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestForbidden(t *testing.T) {
	err := Forbidden("post")

	if !errors.Is(err, ErrForbidden) {
		t.Error("expected error to wrap ErrForbidden")
	}
	if !IsForbidden(err) {
		t.Error("IsForbidden should return true")
	}
	if IsNotFound(err) {
		t.Error("a forbidden error must never look like not found")
	}
}

func TestTaken(t *testing.T) {
	err := Taken("vin")

	expected := "vin: already taken"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
	if !IsAlreadyTaken(err) {
		t.Error("IsAlreadyTaken should return true")
	}
}

func TestInvalid(t *testing.T) {
	err := Invalid("phone", "not parseable")

	if !IsInvalidInput(err) {
		t.Error("IsInvalidInput should return true")
	}
	if IsAlreadyTaken(err) {
		t.Error("invalid input is distinct from already taken")
	}
}

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"create", fmt.Errorf("fuel: %w", ErrCreateConflict), true},
		{"update", fmt.Errorf("fuel: %w", ErrUpdateConflict), true},
		{"delete", fmt.Errorf("fuel: %w", ErrDeleteConflict), true},
		{"not found", ErrNotFound, false},
		{"mileage", ErrMileageReduce, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConflict(tt.err); got != tt.want {
				t.Errorf("IsConflict(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
