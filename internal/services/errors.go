// internal/services/errors.go
package services

import "errors"

// Sentinel errors the handlers map onto HTTP statuses. Anything else
// coming out of a service is treated as unexpected, logged, and rendered
// as a generic 500.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError is a business-rule violation attributable to a single
// input field (insufficient stock, self-chat, seller mismatch). Handlers
// render it as a 422 with a per-field errors map.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
