// errors/analysis_errors.go
package errors

import "errors"

var (
	ErrAnalysisFailed     = errors.New("conflict analysis failed")
	ErrThresholdExceeded  = errors.New("performance threshold exceeded")
	ErrTooManyPolicies    = errors.New("too many policies")
	ErrConfigurationError = errors.New("configuration error")
)
