package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Code     string `json:"employee_code" validate:"required,min=3,max=20,employeecode"`
	Password string `json:"password" validate:"required,strongpassword"`
	GSTIN    string `json:"gstin" validate:"omitempty,gstin"`
}

func TestStrongPassword(t *testing.T) {
	cases := map[string]bool{
		"Vgt@2024x":   true,
		"short1A@":    true,
		"Sh1@":        false,
		"alllower1@":  false,
		"ALLUPPER1@":  false,
		"NoDigits@@":  false,
		"NoSpecial1":  false,
		"Has Space1@": false,
	}
	for pw, want := range cases {
		assert.Equal(t, want, StrongPassword(pw), pw)
	}
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	err := Struct(sample{Code: "ab", Password: "weak"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "employee_code")
	assert.Contains(t, err.Error(), "password")
}

func TestStructAcceptsValidInput(t *testing.T) {
	err := Struct(sample{Code: "EMP001", Password: "Vgt@2024x", GSTIN: "27AAPFU0939F1ZV"})
	assert.NoError(t, err)
}

func TestStructRejectsBadGSTIN(t *testing.T) {
	err := Struct(sample{Code: "EMP001", Password: "Vgt@2024x", GSTIN: "27AAPFU0939F1Z"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "GSTIN")
}

func TestStructReturnsFieldErrors(t *testing.T) {
	err := Struct(sample{Code: "EMP001"})

	var fields Errors
	require.True(t, errors.As(err, &fields))
	require.Len(t, fields, 1)
	assert.Equal(t, "password", fields[0].Field)
	assert.Equal(t, "password is required", fields[0].Message)
	assert.Equal(t, "password is required", err.Error())
}
