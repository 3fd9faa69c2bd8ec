// analysis/orchestrator_test.go
package analysis_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentra-iam/sentra/analysis"
	sentra_errors "github.com/sentra-iam/sentra/errors"
	logger "github.com/sentra-iam/sentra/logging"
	"github.com/sentra-iam/sentra/model"
	"github.com/sentra-iam/sentra/schema"
	"github.com/sentra-iam/sentra/validation"
)

func TestMain(m *testing.M) {
	logger.InitLogger("../logging")
	code := m.Run()
	logger.Sync()
	os.Exit(code)
}

func newOrchestrator() *analysis.Orchestrator {
	validator := validation.NewValidator(schema.NewRegistry())
	return analysis.NewDefaultOrchestrator(validator)
}

type stubConfigProvider struct {
	maxPolicies int
	thresholds  model.PerformanceThresholds
}

func (s stubConfigProvider) DefaultOptions() model.AnalysisOptions { return model.AnalysisOptions{} }
func (s stubConfigProvider) AnalysisTimeoutMs() uint64             { return s.thresholds.MaxAnalysisTimeMs }
func (s stubConfigProvider) PerformanceThresholds() model.PerformanceThresholds {
	return s.thresholds
}
func (s stubConfigProvider) RedundancyThreshold() float64 { return 0.8 }
func (s stubConfigProvider) MaxPolicies() int             { return s.maxPolicies }

type stubConflictDetector struct {
	conflicts []model.PolicyConflict
}

func (s stubConflictDetector) DetectDirectConflicts(ctx context.Context, policies []model.PolicyForAnalysis) ([]model.PolicyConflict, error) {
	return s.conflicts, nil
}

func (s stubConflictDetector) CheckPolicyPair(ctx context.Context, a, b model.PolicyForAnalysis) (*model.PolicyConflict, error) {
	return nil, nil
}

func TestExecute_EmptyPolicySet(t *testing.T) {
	orchestrator := newOrchestrator()

	_, _, err := orchestrator.Execute(context.Background(), nil, nil)
	assert.ErrorIs(t, err, sentra_errors.ErrValidationFailed)
	assert.Contains(t, err.Error(), "At least one policy is required for conflict analysis")
}

func TestExecute_TooManyPolicies(t *testing.T) {
	orchestrator := newOrchestrator()

	policies := make([]model.PolicyForAnalysis, 1001)
	for i := range policies {
		policies[i] = model.PolicyForAnalysis{
			ID:      fmt.Sprintf("p%d", i),
			Content: `permit (principal, action, resource);`,
		}
	}

	_, _, err := orchestrator.Execute(context.Background(), policies, nil)
	assert.ErrorIs(t, err, sentra_errors.ErrTooManyPolicies)
	assert.Contains(t, err.Error(), "Too many policies for analysis (maximum 1000)")
}

func TestExecute_PermitForbidPair(t *testing.T) {
	orchestrator := newOrchestrator()

	policies := []model.PolicyForAnalysis{
		{ID: "p1", Content: `permit (principal, action, resource);`},
		{ID: "p2", Content: `forbid (principal, action, resource);`},
	}

	result, metrics, err := orchestrator.Execute(context.Background(), policies, nil)
	assert.NoError(t, err)

	assert.Len(t, result.Conflicts, 1)
	assert.Equal(t, model.DirectContradiction, result.Conflicts[0].ConflictType)
	assert.Empty(t, result.Redundancies)
	assert.Empty(t, result.UnreachablePolicies)

	assert.Equal(t, 2, result.Summary.TotalPolicies)
	assert.Equal(t, 1, result.Summary.TotalConflicts)
	assert.Equal(t, 0.5, result.Summary.ConflictScore)

	// n(n-1)/2 pair checks plus the n^2 matrix for n=2
	assert.Equal(t, uint64(5), metrics.CombinationsAnalyzed)
}

func TestExecute_CombinationCounts(t *testing.T) {
	orchestrator := newOrchestrator()

	tests := []struct {
		policies int
		expected uint64
	}{
		{2, 5},
		{3, 12},
		{4, 22},
	}

	for _, tt := range tests {
		policies := make([]model.PolicyForAnalysis, tt.policies)
		for i := range policies {
			policies[i] = model.PolicyForAnalysis{
				ID:      fmt.Sprintf("p%d", i),
				Content: fmt.Sprintf(`permit (principal, action in ["op%d"], resource);`, i),
			}
		}
		_, metrics, err := orchestrator.Execute(context.Background(), policies, nil)
		assert.NoError(t, err)
		assert.Equal(t, tt.expected, metrics.CombinationsAnalyzed)
	}
}

func TestExecute_RedundancyPassToggle(t *testing.T) {
	orchestrator := newOrchestrator()

	policies := []model.PolicyForAnalysis{
		{ID: "p1", Content: `permit (principal, action, resource);`},
		{ID: "p2", Content: `permit (principal, action, resource);`},
	}

	result, _, err := orchestrator.Execute(context.Background(), policies, nil)
	assert.NoError(t, err)
	assert.Len(t, result.Redundancies, 2)
	assert.Equal(t, 1.0, result.Summary.ConflictScore)

	disabled := false
	result, _, err = orchestrator.Execute(context.Background(), policies, &model.AnalysisOptions{DetectRedundancies: &disabled})
	assert.NoError(t, err)
	assert.Empty(t, result.Redundancies)
	assert.Equal(t, 0.0, result.Summary.ConflictScore)
}

func TestExecute_ExplanationBackfill(t *testing.T) {
	stub := stubConflictDetector{conflicts: []model.PolicyConflict{{
		ConflictType:     model.AmbiguousPrecedence,
		InvolvedPolicies: []model.PolicyReference{{ID: "p1"}, {ID: "p2"}},
		Severity:         model.SeverityInfo,
	}}}
	orchestrator := analysis.NewOrchestrator(
		stub,
		analysis.NewPatternOverlapAnalyzer(),
		analysis.NewSimilarityRedundancyDetector(),
		analysis.NewOrderBasedUnreachabilityDetector(),
		analysis.NewCannedResolutionSuggester(),
		analysis.NewInMemoryMetricsCollector(),
		stubConfigProvider{maxPolicies: 1000, thresholds: model.DefaultPerformanceThresholds()},
	)

	policies := []model.PolicyForAnalysis{{ID: "p1", Content: `permit (principal, action, resource);`}}

	result, _, err := orchestrator.Execute(context.Background(), policies, nil)
	assert.NoError(t, err)
	assert.Len(t, result.Conflicts, 1)
	assert.Equal(t, "Define clear precedence rules or reorder policies", result.Conflicts[0].SuggestedResolution)

	disabled := false
	result, _, err = orchestrator.Execute(context.Background(), policies, &model.AnalysisOptions{IncludeExplanations: &disabled})
	assert.NoError(t, err)
	assert.Empty(t, result.Conflicts[0].SuggestedResolution)
}

func TestExecute_CombinationsThresholdExceeded(t *testing.T) {
	thresholds := model.DefaultPerformanceThresholds()
	thresholds.MaxCombinations = 3
	orchestrator := analysis.NewOrchestrator(
		stubConflictDetector{},
		analysis.NewPatternOverlapAnalyzer(),
		analysis.NewSimilarityRedundancyDetector(),
		analysis.NewOrderBasedUnreachabilityDetector(),
		analysis.NewCannedResolutionSuggester(),
		analysis.NewInMemoryMetricsCollector(),
		stubConfigProvider{maxPolicies: 1000, thresholds: thresholds},
	)

	policies := []model.PolicyForAnalysis{
		{ID: "p1", Content: `permit (principal, action in ["read"], resource);`},
		{ID: "p2", Content: `permit (principal, action in ["write"], resource);`},
	}

	result, metrics, err := orchestrator.Execute(context.Background(), policies, nil)
	assert.ErrorIs(t, err, sentra_errors.ErrThresholdExceeded)
	assert.Contains(t, err.Error(), "Conflict analysis exceeded maximum combinations threshold: 5 > 3")

	// The completed analysis and metrics are still returned alongside the error
	assert.Equal(t, 2, result.Summary.TotalPolicies)
	assert.Equal(t, uint64(5), metrics.CombinationsAnalyzed)
}
