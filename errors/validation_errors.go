// errors/validation_errors.go
package errors

import "errors"

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrEmptyPolicy      = errors.New("policy content cannot be empty")
	ErrInvalidHrn       = errors.New("invalid HRN format")
)
