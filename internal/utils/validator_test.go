// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name                 string `json:"name" validate:"required"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password" validate:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" validate:"eqfield=Password"`
}

func TestGetValidationErrorsEmptyRequest(t *testing.T) {
	errs := GetValidationErrors(ValidateStruct(&sampleRequest{}))

	require.NotEmpty(t, errs)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Equal(t, "Kolom name wajib diisi.", errs["name"][0])
}

func TestGetValidationErrorsBadEmail(t *testing.T) {
	req := &sampleRequest{
		Name:                 "Budi",
		Email:                "not-an-email",
		Password:             "rahasia123",
		PasswordConfirmation: "rahasia123",
	}
	errs := GetValidationErrors(ValidateStruct(req))

	require.Contains(t, errs, "email")
	assert.Equal(t, "Format email tidak valid.", errs["email"][0])
	assert.NotContains(t, errs, "name")
}

func TestGetValidationErrorsMismatchedConfirmation(t *testing.T) {
	req := &sampleRequest{
		Name:                 "Budi",
		Email:                "budi@example.com",
		Password:             "rahasia123",
		PasswordConfirmation: "berbeda456",
	}
	errs := GetValidationErrors(ValidateStruct(req))

	require.Contains(t, errs, "password_confirmation")
}

func TestGetValidationErrorsValid(t *testing.T) {
	req := &sampleRequest{
		Name:                 "Budi",
		Email:                "budi@example.com",
		Password:             "rahasia123",
		PasswordConfirmation: "rahasia123",
	}
	assert.Empty(t, GetValidationErrors(ValidateStruct(req)))
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "recipient_name", toSnakeCase("RecipientName"))
	assert.Equal(t, "email", toSnakeCase("Email"))
}
