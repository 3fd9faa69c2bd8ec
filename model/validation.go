// model/validation.go
package model

// ValidationErrorType classifies a validation diagnostic.
type ValidationErrorType string

const (
	SyntaxError       ValidationErrorType = "SyntaxError"
	SemanticError     ValidationErrorType = "SemanticError"
	HrnError          ValidationErrorType = "HrnError"
	SchemaError       ValidationErrorType = "SchemaError"
	UnknownEntityType ValidationErrorType = "UnknownEntityType"
	UnknownAction     ValidationErrorType = "UnknownAction"
	UnknownAttribute  ValidationErrorType = "UnknownAttribute"
	TypeMismatch      ValidationErrorType = "TypeMismatch"
)

// WarningSeverity grades non-fatal diagnostics.
type WarningSeverity string

const (
	WarningLow    WarningSeverity = "Low"
	WarningMedium WarningSeverity = "Medium"
	WarningHigh   WarningSeverity = "High"
)

// PolicyLocation points at a position in policy source text.
type PolicyLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// ValidationError is a single fatal diagnostic. Errors are data, not
// exceptions: validators accumulate them and never abort the pipeline.
type ValidationError struct {
	Kind         ValidationErrorType `json:"kind"`
	Message      string              `json:"message"`
	Location     *PolicyLocation     `json:"location,omitempty"`
	SuggestedFix string              `json:"suggested_fix,omitempty"`
	DocLink      string              `json:"doc_link,omitempty"`
}

// ValidationWarning is a non-fatal diagnostic. Warnings never affect
// validity.
type ValidationWarning struct {
	Message  string          `json:"message"`
	Location *PolicyLocation `json:"location,omitempty"`
	Severity WarningSeverity `json:"severity"`
}

// SchemaInfo carries the identity of the schema snapshot a validation
// ran against.
type SchemaInfo struct {
	SchemaID        string `json:"schema_id"`
	Version         string `json:"version"`
	EntityTypeCount int    `json:"entity_type_count"`
	ActionCount     int    `json:"action_count"`
}

// PolicyValidationResult aggregates the outcome of all validation stages.
type PolicyValidationResult struct {
	IsValid        bool                `json:"is_valid"`
	SyntaxErrors   []ValidationError   `json:"syntax_errors"`
	SemanticErrors []ValidationError   `json:"semantic_errors"`
	HrnErrors      []ValidationError   `json:"hrn_errors"`
	Warnings       []ValidationWarning `json:"warnings"`
	SchemaInfo     *SchemaInfo         `json:"schema_info,omitempty"`
}

// Valid reports whether all three error lists are empty. IsValid must
// always equal this; use Finalize after mutating the lists.
func (r *PolicyValidationResult) Valid() bool {
	return len(r.SyntaxErrors) == 0 && len(r.SemanticErrors) == 0 && len(r.HrnErrors) == 0
}

// Finalize recomputes IsValid from the error lists.
func (r *PolicyValidationResult) Finalize() {
	r.IsValid = r.Valid()
}

// ValidationOptions tune a single validation call. Nil fields take their
// defaults.
type ValidationOptions struct {
	IncludeWarnings *bool   `json:"include_warnings,omitempty"`
	DeepValidation  *bool   `json:"deep_validation,omitempty"`
	SchemaVersion   *string `json:"schema_version,omitempty"`
	TimeoutMs       *uint64 `json:"timeout_ms,omitempty"`
}

// WarningsEnabled reports whether warnings should be kept in the result.
func (o *ValidationOptions) WarningsEnabled() bool {
	if o == nil || o.IncludeWarnings == nil {
		return true
	}
	return *o.IncludeWarnings
}

// DeepValidationEnabled reports whether batch validation also runs the
// cross-policy conflict analysis.
func (o *ValidationOptions) DeepValidationEnabled() bool {
	if o == nil || o.DeepValidation == nil {
		return true
	}
	return *o.DeepValidation
}

// SchemaName returns the requested schema version, or empty for the
// registry default.
func (o *ValidationOptions) SchemaName() string {
	if o == nil || o.SchemaVersion == nil {
		return ""
	}
	return *o.SchemaVersion
}

// ValidationMetrics reports timing for a single validation call.
type ValidationMetrics struct {
	TotalDurationMs    uint64 `json:"total_duration_ms"`
	SyntaxDurationMs   uint64 `json:"syntax_duration_ms"`
	SemanticDurationMs uint64 `json:"semantic_duration_ms"`
	HrnDurationMs      uint64 `json:"hrn_duration_ms"`
}
