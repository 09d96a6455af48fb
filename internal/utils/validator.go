// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// GetValidationErrors converts validator errors into the per-field error
// lists the API envelope carries. Field names come from the json tag via
// RegisterTagNameFunc-free snake_casing of the struct field.
func GetValidationErrors(err error) map[string][]string {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string][]string{"request": {"Permintaan tidak valid."}}
	}

	errors := make(map[string][]string, len(validationErrs))
	for _, e := range validationErrs {
		field := toSnakeCase(e.Field())
		errors[field] = append(errors[field], validationMessage(field, e))
	}

	return errors
}

func validationMessage(field string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "Kolom " + field + " wajib diisi."
	case "email":
		return "Format email tidak valid."
	case "min":
		if e.Kind().String() == "string" {
			return "Kolom " + field + " minimal " + e.Param() + " karakter."
		}
		return "Kolom " + field + " minimal " + e.Param() + "."
	case "max":
		if e.Kind().String() == "string" {
			return "Kolom " + field + " maksimal " + e.Param() + " karakter."
		}
		return "Kolom " + field + " maksimal " + e.Param() + "."
	case "eqfield":
		return "Konfirmasi " + field + " tidak cocok."
	case "oneof":
		return "Nilai " + field + " tidak dikenal."
	case "gte":
		return "Kolom " + field + " minimal " + e.Param() + "."
	default:
		return "Kolom " + field + " tidak valid."
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
