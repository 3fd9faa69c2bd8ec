// analysis/ports.go
package analysis

import (
	"context"

	"github.com/sentra-iam/sentra/model"
)

// ConflictDetector finds direct contradictions between policy pairs.
type ConflictDetector interface {
	DetectDirectConflicts(ctx context.Context, policies []model.PolicyForAnalysis) ([]model.PolicyConflict, error)
	CheckPolicyPair(ctx context.Context, a, b model.PolicyForAnalysis) (*model.PolicyConflict, error)
}

// OverlapAnalyzer measures how much permission surface policies share.
type OverlapAnalyzer interface {
	AnalyzePermissionOverlaps(ctx context.Context, policies []model.PolicyForAnalysis) ([]model.PolicyConflict, error)
	OverlapScore(a, b model.PolicyForAnalysis) float64
	FindCommonPatterns(policies []model.PolicyForAnalysis) []string
}

// RedundancyDetector finds policies subsumed by similar ones.
type RedundancyDetector interface {
	DetectRedundancies(ctx context.Context, policies []model.PolicyForAnalysis, threshold float64) ([]model.PolicyRedundancy, error)
}

// UnreachabilityDetector finds policies shadowed by earlier, more
// general ones.
type UnreachabilityDetector interface {
	DetectUnreachablePolicies(ctx context.Context, policies []model.PolicyForAnalysis) ([]model.UnreachablePolicy, error)
}

// ResolutionSuggester maps findings onto remediation text.
type ResolutionSuggester interface {
	SuggestConflictResolution(conflict *model.PolicyConflict) string
	ExplainRedundancy(redundancy *model.PolicyRedundancy) string
	ExplainUnreachability(unreachable *model.UnreachablePolicy) string
	SuggestPriorityAdjustments(conflicts []model.PolicyConflict) []model.PriorityAdjustment
}

// MetricsCollector tracks per-operation analysis timings.
type MetricsCollector interface {
	StartAnalysis(operationID string)
	RecordStep(operationID, step string, durationMs uint64)
	RecordCombinations(operationID string, count uint64)
	FinishAnalysis(operationID string) model.ConflictAnalysisMetrics
}

// ConfigProvider supplies engine tuning values to the orchestrator.
type ConfigProvider interface {
	DefaultOptions() model.AnalysisOptions
	AnalysisTimeoutMs() uint64
	PerformanceThresholds() model.PerformanceThresholds
	RedundancyThreshold() float64
	MaxPolicies() int
}
