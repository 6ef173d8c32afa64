package apperr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Handlers classify errors against these exactly once
// when mapping to an HTTP status.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrStore     = errors.New("store error")
)

// ValidationError carries a field-keyed map of constraint violations
// ("missing", "type" or "min") produced by the schema layer.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// NotFound wraps ErrNotFound with the entity and key that missed.
func NotFound(entity string, key any) error {
	return fmt.Errorf("%s %v: %w", entity, key, ErrNotFound)
}

// Forbidden wraps ErrForbidden with a short reason.
func Forbidden(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrForbidden)
}

// Store wraps an unexpected database error. The original error is preserved
// for logging but must never reach the client.
func Store(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrStore)
}

// AsValidation reports whether err is (or wraps) a ValidationError.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
