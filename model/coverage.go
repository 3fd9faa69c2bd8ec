// model/coverage.go
package model

// EntityCoverage reports how much of one entity type's attribute surface
// is referenced by at least one policy.
type EntityCoverage struct {
	EntityType         string   `json:"entity_type"`
	TotalAttributes    int      `json:"total_attributes"`
	CoveredAttributes  int      `json:"covered_attributes"`
	CoveragePercentage float64  `json:"coverage_percentage"`
	MissingAttributes  []string `json:"missing_attributes"`
}

// ActionCoverage reports which policies mention a schema action.
type ActionCoverage struct {
	ActionName       string   `json:"action_name"`
	IsCovered        bool     `json:"is_covered"`
	CoveringPolicies []string `json:"covering_policies"`
}

// CoverageReport is the full coverage picture for a policy set against a
// schema snapshot.
type CoverageReport struct {
	TotalEntities      int                       `json:"total_entities"`
	CoveredEntities    int                       `json:"covered_entities"`
	TotalActions       int                       `json:"total_actions"`
	CoveredActions     int                       `json:"covered_actions"`
	CoveragePercentage float64                   `json:"coverage_percentage"`
	EntityCoverage     map[string]EntityCoverage `json:"entity_coverage"`
	ActionCoverage     map[string]ActionCoverage `json:"action_coverage"`
}

// CalculateCoveragePercentage recomputes the combined percentage from the
// entity and action totals. Zero totals yield zero.
func (r *CoverageReport) CalculateCoveragePercentage() {
	total := r.TotalEntities + r.TotalActions
	if total == 0 {
		r.CoveragePercentage = 0.0
		return
	}
	covered := r.CoveredEntities + r.CoveredActions
	r.CoveragePercentage = float64(covered) / float64(total) * 100.0
}

// CoverageGapType classifies a coverage gap.
type CoverageGapType string

const (
	UncoveredEntity  CoverageGapType = "UncoveredEntity"
	MissingAttribute CoverageGapType = "MissingAttribute"
	UncoveredAction  CoverageGapType = "UncoveredAction"
)

// GapSeverity grades a coverage gap.
type GapSeverity string

const (
	GapSeverityHigh   GapSeverity = "High"
	GapSeverityMedium GapSeverity = "Medium"
	GapSeverityLow    GapSeverity = "Low"
)

// CoverageGap is a single hole in policy coverage.
type CoverageGap struct {
	GapType       CoverageGapType `json:"gap_type"`
	EntityType    string          `json:"entity_type,omitempty"`
	ActionName    string          `json:"action_name,omitempty"`
	AttributeName string          `json:"attribute_name,omitempty"`
	Description   string          `json:"description"`
	Severity      GapSeverity     `json:"severity"`
}

// SuggestionType classifies a coverage suggestion.
type SuggestionType string

const (
	CreatePolicy SuggestionType = "CreatePolicy"
	ModifyPolicy SuggestionType = "ModifyPolicy"
)

// SuggestionPriority grades a coverage suggestion.
type SuggestionPriority string

const (
	SuggestionPriorityHigh   SuggestionPriority = "High"
	SuggestionPriorityMedium SuggestionPriority = "Medium"
	SuggestionPriorityLow    SuggestionPriority = "Low"
)

// CoverageSuggestion recommends a concrete action to close a gap.
type CoverageSuggestion struct {
	SuggestionType    SuggestionType     `json:"suggestion_type"`
	TargetGap         CoverageGap        `json:"target_gap"`
	RecommendedAction string             `json:"recommended_action"`
	PolicyTemplate    string             `json:"policy_template,omitempty"`
	Priority          SuggestionPriority `json:"priority"`
}
