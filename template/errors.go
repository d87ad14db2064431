package template

import "fmt"

// FieldError is the hard-failure tier: a named field holds a value the
// engine cannot work with. Soft findings never use this type; they are
// collected as values and returned alongside results.
type FieldError struct {
	Field  string
	Value  any
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Reason, e.Value)
}

// NewFieldError builds a FieldError for field with the offending value.
func NewFieldError(field string, value any, reason string) *FieldError {
	return &FieldError{Field: field, Value: value, Reason: reason}
}
