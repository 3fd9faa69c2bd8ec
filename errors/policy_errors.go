// errors/policy_errors.go
package errors

import "errors"

var (
	ErrPolicyNotFound    = errors.New("policy not found")
	ErrDatabaseOperation = errors.New("database operation failed")
	ErrInvalidPolicyData = errors.New("invalid policy data")
	ErrInternalServer    = errors.New("internal server error")
	ErrUnauthorized      = errors.New("unauthorized")
)
