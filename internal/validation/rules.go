// Package validation provides custom validation rules for the application.
package validation

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/attestations/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
// Built on By rather than a string rule because string rules skip empty
// values, and empty is exactly what a blank check must reject.
var NotBlank = validation.By(func(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_not_blank_type", "must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "must not be blank")
	}
	return nil
})

// UUID validates that a string is a well-formed UUID
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// UUIDList validates that every element of a []string is a well-formed UUID
var UUIDList = validation.By(func(value interface{}) error {
	items, ok := value.([]string)
	if !ok {
		return validation.NewError("validation_uuid_list_type", "must be a list of strings")
	}
	for _, item := range items {
		if _, err := uuid.Parse(item); err != nil {
			return validation.NewError("validation_uuid_list", "must contain only valid UUIDs")
		}
	}
	return nil
})

// JSONValue validates that a value holds syntactically valid JSON. The content
// itself stays uninterpreted; this only guards what JSON database columns
// would reject anyway.
var JSONValue = validation.By(func(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case json.RawMessage:
		data = v
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return validation.NewError("validation_json_type", "must be a JSON value")
	}
	if len(data) == 0 {
		return nil // Let Required handle empty values
	}
	if !json.Valid(data) {
		return validation.NewError("validation_json", "must be valid JSON")
	}
	return nil
})
