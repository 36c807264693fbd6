// Package phone validates phone numbers before they reach the uniqueness check.
package phone

import (
	"github.com/nyaruka/phonenumbers"

	"github.com/drivelog/drivelog-be/internal/apperr"
)

// Validate checks that raw is a parseable, possible and valid phone number in
// international form. An invalid number is InvalidInput, which callers must
// keep distinct from a taken one.
func Validate(raw string) error {
	num, err := phonenumbers.Parse(raw, "")
	if err != nil {
		return apperr.Invalid("phone", "not parseable")
	}
	if !phonenumbers.IsPossibleNumber(num) {
		return apperr.Invalid("phone", "not a possible number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return apperr.Invalid("phone", "not a valid number")
	}
	return nil
}
