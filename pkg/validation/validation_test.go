package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Email    string `json:"email" validate:"required,email"`
	PIN      string `json:"pin" validate:"required,pin"`
	Start    string `json:"startDate" validate:"required,isodate"`
	Timezone string `json:"timezone" validate:"omitempty,timezone"`
}

func TestStruct(t *testing.T) {
	ok := sampleRequest{Email: "a@b.co", PIN: "1234", Start: "2024-01-01", Timezone: "Europe/Istanbul"}
	assert.NoError(t, Struct(ok))

	bad := sampleRequest{Email: "nope", PIN: "12a", Start: "01/02/2024", Timezone: "Mars/Base"}
	err := Struct(bad)
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "email: invalid email format")
		assert.Contains(t, err.Error(), "pin: must be 4 to 8 digits")
		assert.Contains(t, err.Error(), "startDate: must be a date in YYYY-MM-DD format")
		assert.Contains(t, err.Error(), "timezone: must be a valid IANA timezone")
	}
}

func TestIsPIN(t *testing.T) {
	for _, p := range []string{"1234", "12345678", "0000"} {
		assert.True(t, IsPIN(p), p)
	}
	for _, p := range []string{"123", "123456789", "12 34", "abcd", ""} {
		assert.False(t, IsPIN(p), p)
	}
}
