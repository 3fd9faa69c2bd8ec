// model/requests.go
package model

// ValidatePolicyRequest is the input for single-policy validation.
type ValidatePolicyRequest struct {
	Content     string             `json:"content"`
	Options     *ValidationOptions `json:"options,omitempty"`
	RequestedBy string             `json:"requested_by"`
}

// ValidatePolicyResponse is the outcome of single-policy validation.
type ValidatePolicyResponse struct {
	ValidationID string                 `json:"validation_id"`
	IsValid      bool                   `json:"is_valid"`
	Result       PolicyValidationResult `json:"result"`
	Metrics      ValidationMetrics      `json:"metrics"`
	Cached       bool                   `json:"cached"`
}

// ValidateBatchRequest validates several policies in one call.
type ValidateBatchRequest struct {
	Policies    []PolicyForAnalysis `json:"policies"`
	Options     *ValidationOptions  `json:"options,omitempty"`
	RequestedBy string              `json:"requested_by"`
}

// BatchValidationEntry pairs a policy id with its validation result.
type BatchValidationEntry struct {
	PolicyID string                 `json:"policy_id"`
	IsValid  bool                   `json:"is_valid"`
	Result   PolicyValidationResult `json:"result"`
}

// ValidateBatchResponse is the outcome of batch validation. The
// cross-policy analysis is present only when deep validation ran.
type ValidateBatchResponse struct {
	ValidationID        string                 `json:"validation_id"`
	Results             []BatchValidationEntry `json:"results"`
	AllValid            bool                   `json:"all_valid"`
	CrossPolicyAnalysis *ConflictAnalysis      `json:"cross_policy_analysis,omitempty"`
	TotalDurationMs     uint64                 `json:"total_duration_ms"`
}

// DetectConflictsRequest is the input for conflict analysis.
type DetectConflictsRequest struct {
	Policies []PolicyForAnalysis `json:"policies"`
	Options  *AnalysisOptions    `json:"options,omitempty"`
}

// DetectConflictsResponse is the full conflict analysis report.
type DetectConflictsResponse struct {
	OperationID  string                  `json:"operation_id"`
	Analysis     ConflictAnalysis        `json:"analysis"`
	Metrics      ConflictAnalysisMetrics `json:"metrics"`
	HasConflicts bool                    `json:"has_conflicts"`
}

// AnalyzeCoverageRequest asks for coverage of the given policies, or of
// every active stored policy when both lists are empty.
type AnalyzeCoverageRequest struct {
	Policies      []PolicyForAnalysis `json:"policies,omitempty"`
	PolicyIDs     []string            `json:"policy_ids,omitempty"`
	SchemaVersion *string             `json:"schema_version,omitempty"`
}

// AnalyzeCoverageResponse is the coverage report plus derived gaps and
// suggestions.
type AnalyzeCoverageResponse struct {
	Report      CoverageReport       `json:"report"`
	Gaps        []CoverageGap        `json:"gaps"`
	Suggestions []CoverageSuggestion `json:"suggestions"`
}
