// analysis/suggester_test.go
package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentra-iam/sentra/analysis"
	"github.com/sentra-iam/sentra/model"
)

func TestSuggestConflictResolution(t *testing.T) {
	suggester := analysis.NewCannedResolutionSuggester()

	tests := []struct {
		conflictType model.ConflictType
		expected     string
	}{
		{model.DirectContradiction, "Review policy precedence rules or add more specific conditions to resolve the contradiction"},
		{model.OverlappingPermissions, "Consider consolidating overlapping policies or adding priority levels"},
		{model.AmbiguousPrecedence, "Define clear precedence rules or reorder policies"},
		{model.CircularDependency, "Break circular dependencies by restructuring policy conditions"},
		{model.InconsistentConditions, "Review and align policy conditions for consistency"},
		{model.ResourceAccessConflict, "Clarify resource access patterns and permissions"},
		{model.ActionPermissionConflict, "Review action permissions and ensure they are properly scoped"},
	}

	for _, tt := range tests {
		t.Run(string(tt.conflictType), func(t *testing.T) {
			conflict := &model.PolicyConflict{ConflictType: tt.conflictType}
			assert.Equal(t, tt.expected, suggester.SuggestConflictResolution(conflict))
		})
	}
}

func TestExplainRedundancy(t *testing.T) {
	suggester := analysis.NewCannedResolutionSuggester()

	redundancy := &model.PolicyRedundancy{
		RedundantPolicy:     model.PolicyReference{ID: "p1"},
		SupersedingPolicies: []model.PolicyReference{{ID: "p2"}, {ID: "p3"}},
	}

	assert.Equal(t,
		"Policy 'p1' appears to be redundant because it is superseded by 2 other policies with similar effects",
		suggester.ExplainRedundancy(redundancy))
}

func TestExplainUnreachability(t *testing.T) {
	suggester := analysis.NewCannedResolutionSuggester()

	unreachable := &model.UnreachablePolicy{
		Policy:           model.PolicyReference{ID: "p9"},
		BlockingPolicies: []model.PolicyReference{{ID: "p1"}},
	}

	assert.Equal(t,
		"Policy 'p9' is unreachable because 1 blocking policies will always match first",
		suggester.ExplainUnreachability(unreachable))
}

func TestSuggestPriorityAdjustments(t *testing.T) {
	suggester := analysis.NewCannedResolutionSuggester()

	conflicts := []model.PolicyConflict{
		{
			ConflictType:     model.DirectContradiction,
			Severity:         model.SeverityCritical,
			InvolvedPolicies: []model.PolicyReference{{ID: "p1"}, {ID: "p2"}},
		},
		{
			ConflictType:     model.OverlappingPermissions,
			Severity:         model.SeverityLow,
			InvolvedPolicies: []model.PolicyReference{{ID: "p3"}},
		},
		{
			ConflictType:     model.AmbiguousPrecedence,
			Severity:         model.SeverityHigh,
			InvolvedPolicies: []model.PolicyReference{{ID: "p4"}},
		},
	}

	adjustments := suggester.SuggestPriorityAdjustments(conflicts)
	assert.Len(t, adjustments, 3)

	assert.Equal(t, "p1", adjustments[0].PolicyID)
	assert.Equal(t, 10, adjustments[0].SuggestedPriority)
	assert.Equal(t, "Resolve directcontradiction conflict", adjustments[0].Reason)

	assert.Equal(t, "p2", adjustments[1].PolicyID)
	assert.Equal(t, 10, adjustments[1].SuggestedPriority)

	// The Low severity conflict is skipped; the High one keeps its
	// position-based priority
	assert.Equal(t, "p4", adjustments[2].PolicyID)
	assert.Equal(t, 30, adjustments[2].SuggestedPriority)
	assert.Equal(t, "Resolve ambiguousprecedence conflict", adjustments[2].Reason)
}
