// model/analysis_test.go
package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentra-iam/sentra/model"
)

func TestAnalysisOptions_Defaults(t *testing.T) {
	var opts *model.AnalysisOptions

	assert.True(t, opts.RedundanciesEnabled())
	assert.True(t, opts.UnreachableEnabled())
	assert.True(t, opts.ExplanationsEnabled())
	assert.Equal(t, 0.8, opts.Threshold(0.8))

	disabled := false
	threshold := 0.95
	opts = &model.AnalysisOptions{
		DetectRedundancies:  &disabled,
		FindUnreachable:     &disabled,
		IncludeExplanations: &disabled,
		RedundancyThreshold: &threshold,
	}
	assert.False(t, opts.RedundanciesEnabled())
	assert.False(t, opts.UnreachableEnabled())
	assert.False(t, opts.ExplanationsEnabled())
	assert.Equal(t, 0.95, opts.Threshold(0.8))
}

func TestAnalysisOptions_JSONRoundTrip(t *testing.T) {
	disabled := false
	threshold := 0.9
	timeout := uint64(15000)
	opts := model.AnalysisOptions{
		DetectRedundancies:  &disabled,
		RedundancyThreshold: &threshold,
		TimeoutMs:           &timeout,
	}

	data, err := json.Marshal(opts)
	assert.NoError(t, err)

	var decoded model.AnalysisOptions
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.False(t, decoded.RedundanciesEnabled())
	assert.Equal(t, 0.9, decoded.Threshold(0.8))
	assert.Equal(t, uint64(15000), *decoded.TimeoutMs)
	// Omitted fields stay nil and keep their defaults
	assert.Nil(t, decoded.FindUnreachable)
	assert.True(t, decoded.UnreachableEnabled())
	assert.Nil(t, decoded.IncludeExplanations)
	assert.True(t, decoded.ExplanationsEnabled())
}

func TestConflictAnalysis_HasFindings(t *testing.T) {
	analysis := model.ConflictAnalysis{}
	assert.False(t, analysis.HasFindings())

	analysis.Redundancies = []model.PolicyRedundancy{{RedundantPolicy: model.PolicyReference{ID: "p1"}}}
	assert.True(t, analysis.HasFindings())
}

func TestDefaultPerformanceThresholds(t *testing.T) {
	thresholds := model.DefaultPerformanceThresholds()
	assert.Equal(t, uint64(30000), thresholds.MaxAnalysisTimeMs)
	assert.Equal(t, uint64(5000), thresholds.WarningTimeMs)
	assert.Equal(t, uint64(1000000), thresholds.MaxCombinations)
	assert.Nil(t, thresholds.MaxMemoryBytes)
}

func TestPolicyForAnalysis_Ref(t *testing.T) {
	policy := model.PolicyForAnalysis{ID: "p1", Name: "allow-read", Content: "permit (principal, action, resource);"}
	ref := policy.Ref()
	assert.Equal(t, "p1", ref.ID)
	assert.Equal(t, "allow-read", ref.Name)
}

func TestStoredPolicy_ForAnalysis(t *testing.T) {
	priority := 5
	stored := model.StoredPolicy{
		ID:       "p1",
		Name:     "allow-read",
		Content:  "permit (principal, action, resource);",
		Active:   true,
		Priority: &priority,
		Version:  2,
	}

	converted := stored.ForAnalysis()
	assert.Equal(t, "p1", converted.ID)
	assert.Equal(t, "allow-read", converted.Name)
	assert.Equal(t, stored.Content, converted.Content)
	assert.Equal(t, &priority, converted.Priority)
}

func TestCoverageReport_CalculateCoveragePercentage(t *testing.T) {
	report := model.CoverageReport{
		TotalEntities:   4,
		CoveredEntities: 3,
		TotalActions:    6,
		CoveredActions:  4,
	}
	report.CalculateCoveragePercentage()
	assert.InDelta(t, 70.0, report.CoveragePercentage, 0.0001)

	empty := model.CoverageReport{}
	empty.CalculateCoveragePercentage()
	assert.Equal(t, 0.0, empty.CoveragePercentage)
}
