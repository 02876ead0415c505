package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yigit/notehub/internal/pkg/apperrors"
)

// StringValidation checks a single string field
type StringValidation struct {
	Field    string
	Value    string
	MaxLen   int
	Required bool
}

// NewStringValidation creates a new string validation; the value is required by default
func NewStringValidation(field, value string) *StringValidation {
	return &StringValidation{
		Field:    field,
		Value:    value,
		Required: true,
	}
}

// WithMaxLength sets maximum length in characters
func (v *StringValidation) WithMaxLength(max int) *StringValidation {
	v.MaxLen = max
	return v
}

// WithRequired sets if field is required
func (v *StringValidation) WithRequired(required bool) *StringValidation {
	v.Required = required
	return v
}

// Validate returns a field validation error, or nil.
// A value made only of whitespace counts as empty.
func (v *StringValidation) Validate() error {
	if strings.TrimSpace(v.Value) == "" {
		if v.Required {
			return apperrors.NewFieldValidationError(v.Field, fmt.Sprintf("%s is required", v.Field))
		}
		return nil
	}

	if v.MaxLen > 0 && utf8.RuneCountInString(v.Value) > v.MaxLen {
		return apperrors.NewFieldValidationError(v.Field, fmt.Sprintf("%s must be at most %d characters", v.Field, v.MaxLen))
	}

	return nil
}

// RangeValidation checks an integer against inclusive bounds
type RangeValidation struct {
	Field string
	Value int
	Min   int
	Max   int
}

// NewRangeValidation creates a new inclusive range validation
func NewRangeValidation(field string, value, min, max int) *RangeValidation {
	return &RangeValidation{
		Field: field,
		Value: value,
		Min:   min,
		Max:   max,
	}
}

// Validate returns a field validation error, or nil
func (v *RangeValidation) Validate() error {
	if v.Value < v.Min || v.Value > v.Max {
		return apperrors.NewFieldValidationError(v.Field, fmt.Sprintf("%s must be between %d and %d", v.Field, v.Min, v.Max))
	}
	return nil
}

// Validator is anything that can report a validation failure
type Validator interface {
	Validate() error
}

// First runs the validators in order and returns the first failure
func First(validators ...Validator) error {
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
