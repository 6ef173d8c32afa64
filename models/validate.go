package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dealerhub/dealership-backend/apperr"
)

// Violation reasons reported per offending field.
const (
	ViolationMissing = "missing"
	ViolationType    = "type"
	ViolationMin     = "min"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report violations under the wire name, not the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks a record against its schema tags and returns a
// *apperr.ValidationError keyed by field when any constraint is violated.
func Validate(record any) error {
	err := validate.Struct(record)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = violationReason(fe.Tag())
	}
	return &apperr.ValidationError{Fields: fields}
}

func violationReason(tag string) string {
	switch tag {
	case "required":
		return ViolationMissing
	case "gte", "min":
		return ViolationMin
	default:
		return tag
	}
}

// DecodeViolation translates a JSON unmarshal type mismatch into the same
// field-keyed shape as Validate, so handlers report one consistent map.
func DecodeViolation(err error) (*apperr.ValidationError, bool) {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return &apperr.ValidationError{
			Fields: map[string]string{ute.Field: ViolationType},
		}, true
	}
	return nil, false
}
