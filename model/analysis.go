// model/analysis.go
package model

// ConflictType classifies a conflict finding.
type ConflictType string

const (
	DirectContradiction      ConflictType = "DirectContradiction"
	OverlappingPermissions   ConflictType = "OverlappingPermissions"
	AmbiguousPrecedence      ConflictType = "AmbiguousPrecedence"
	CircularDependency       ConflictType = "CircularDependency"
	InconsistentConditions   ConflictType = "InconsistentConditions"
	ResourceAccessConflict   ConflictType = "ResourceAccessConflict"
	ActionPermissionConflict ConflictType = "ActionPermissionConflict"
)

// ConflictSeverity grades how urgent a conflict finding is.
type ConflictSeverity string

const (
	SeverityCritical ConflictSeverity = "Critical"
	SeverityHigh     ConflictSeverity = "High"
	SeverityMedium   ConflictSeverity = "Medium"
	SeverityLow      ConflictSeverity = "Low"
	SeverityInfo     ConflictSeverity = "Info"
)

// PolicyConflict is a pairwise (or larger) conflict finding. Findings
// always reference at least two policies.
type PolicyConflict struct {
	ConflictType        ConflictType      `json:"conflict_type"`
	InvolvedPolicies    []PolicyReference `json:"involved_policies"`
	Description         string            `json:"description"`
	Severity            ConflictSeverity  `json:"severity"`
	SuggestedResolution string            `json:"suggested_resolution,omitempty"`
	Location            *PolicyLocation   `json:"location,omitempty"`
}

// PolicyRedundancy reports a policy whose effect is subsumed by others.
type PolicyRedundancy struct {
	RedundantPolicy     PolicyReference   `json:"redundant_policy"`
	SupersedingPolicies []PolicyReference `json:"superseding_policies"`
	Explanation         string            `json:"explanation,omitempty"`
	Confidence          float64           `json:"confidence"`
}

// UnreachablePolicy reports a policy that can never take effect because
// earlier policies always match first.
type UnreachablePolicy struct {
	Policy                 PolicyReference   `json:"policy"`
	BlockingPolicies       []PolicyReference `json:"blocking_policies"`
	Explanation            string            `json:"explanation,omitempty"`
	ReachabilityConditions string            `json:"reachability_conditions,omitempty"`
}

// ConflictSummary totals a full analysis run.
type ConflictSummary struct {
	TotalPolicies     int     `json:"total_policies"`
	TotalConflicts    int     `json:"total_conflicts"`
	TotalRedundancies int     `json:"total_redundancies"`
	TotalUnreachable  int     `json:"total_unreachable"`
	ConflictScore     float64 `json:"conflict_score"`
}

// ConflictAnalysis is the complete report for one analysis run.
type ConflictAnalysis struct {
	Conflicts           []PolicyConflict    `json:"conflicts"`
	Redundancies        []PolicyRedundancy  `json:"redundancies"`
	UnreachablePolicies []UnreachablePolicy `json:"unreachable_policies"`
	Summary             ConflictSummary     `json:"summary"`
}

// HasFindings reports whether the analysis produced any finding at all.
func (a *ConflictAnalysis) HasFindings() bool {
	return len(a.Conflicts) > 0 || len(a.Redundancies) > 0 || len(a.UnreachablePolicies) > 0
}

// AnalysisOptions tune a single conflict analysis run. Nil fields take
// their defaults.
type AnalysisOptions struct {
	DetectRedundancies  *bool    `json:"detect_redundancies,omitempty"`
	FindUnreachable     *bool    `json:"find_unreachable,omitempty"`
	RedundancyThreshold *float64 `json:"redundancy_threshold,omitempty"`
	IncludeExplanations *bool    `json:"include_explanations,omitempty"`
	TimeoutMs           *uint64  `json:"timeout_ms,omitempty"`
}

// RedundanciesEnabled reports whether the redundancy detector runs.
func (o *AnalysisOptions) RedundanciesEnabled() bool {
	if o == nil || o.DetectRedundancies == nil {
		return true
	}
	return *o.DetectRedundancies
}

// UnreachableEnabled reports whether the unreachability detector runs.
func (o *AnalysisOptions) UnreachableEnabled() bool {
	if o == nil || o.FindUnreachable == nil {
		return true
	}
	return *o.FindUnreachable
}

// ExplanationsEnabled reports whether the resolution suggester backfills
// empty explanation fields.
func (o *AnalysisOptions) ExplanationsEnabled() bool {
	if o == nil || o.IncludeExplanations == nil {
		return true
	}
	return *o.IncludeExplanations
}

// Threshold returns the redundancy similarity threshold, defaulting to
// fallback when unset.
func (o *AnalysisOptions) Threshold(fallback float64) float64 {
	if o == nil || o.RedundancyThreshold == nil {
		return fallback
	}
	return *o.RedundancyThreshold
}

// PerformanceThresholds bound a single analysis run. They are checked
// after the run completes; an over-budget run is reported as an error
// rather than preempted.
type PerformanceThresholds struct {
	MaxAnalysisTimeMs uint64  `json:"max_analysis_time_ms"`
	WarningTimeMs     uint64  `json:"warning_time_ms"`
	MaxCombinations   uint64  `json:"max_combinations"`
	MaxMemoryBytes    *uint64 `json:"max_memory_bytes,omitempty"`
}

// DefaultPerformanceThresholds returns the engine defaults.
func DefaultPerformanceThresholds() PerformanceThresholds {
	return PerformanceThresholds{
		MaxAnalysisTimeMs: 30000,
		WarningTimeMs:     5000,
		MaxCombinations:   1000000,
	}
}

// ConflictAnalysisMetrics reports timing and workload for one analysis
// run, keyed by its operation id.
type ConflictAnalysisMetrics struct {
	TotalDurationMs        uint64  `json:"total_duration_ms"`
	ConflictDetectionMs    uint64  `json:"conflict_detection_ms"`
	RedundancyAnalysisMs   uint64  `json:"redundancy_analysis_ms"`
	ReachabilityAnalysisMs uint64  `json:"reachability_analysis_ms"`
	CombinationsAnalyzed   uint64  `json:"combinations_analyzed"`
	MemoryUsageBytes       *uint64 `json:"memory_usage_bytes,omitempty"`
}

// PriorityAdjustment is a reordering hint emitted for policies involved
// in severe conflicts.
type PriorityAdjustment struct {
	PolicyID          string `json:"policy_id"`
	CurrentPriority   *int   `json:"current_priority,omitempty"`
	SuggestedPriority int    `json:"suggested_priority"`
	Reason            string `json:"reason"`
}
