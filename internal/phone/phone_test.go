package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/drivelog/drivelog-be/internal/apperr"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"us number", "+14155552671", false},
		{"ru number", "+79261234567", false},
		{"de number", "+4915123456789", false},
		{"garbage", "hello", true},
		{"empty", "", true},
		{"missing country code", "5552671", true},
		{"too short", "+1415555", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, apperr.IsInvalidInput(err), "invalid phone must map to InvalidInput")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
