// analysis/contradiction_test.go
package analysis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentra-iam/sentra/analysis"
	"github.com/sentra-iam/sentra/model"
	"github.com/sentra-iam/sentra/schema"
	"github.com/sentra-iam/sentra/validation"
)

func newContradictionDetector() *analysis.ContradictionDetector {
	validator := validation.NewValidator(schema.NewRegistry())
	return analysis.NewContradictionDetector(validator)
}

func TestCheckPolicyPair_PermitVsForbid(t *testing.T) {
	detector := newContradictionDetector()

	permit := model.PolicyForAnalysis{ID: "p1", Content: `permit (principal, action, resource);`}
	forbid := model.PolicyForAnalysis{ID: "p2", Content: `forbid (principal, action, resource);`}

	conflict, err := detector.CheckPolicyPair(context.Background(), permit, forbid)
	assert.NoError(t, err)
	assert.NotNil(t, conflict)
	assert.Equal(t, model.DirectContradiction, conflict.ConflictType)
	assert.Equal(t, model.SeverityHigh, conflict.Severity)
	assert.Equal(t, "Policies have conflicting effects (permit vs forbid) on overlapping patterns", conflict.Description)
	assert.Equal(t, "Review policy precedence or refine policy conditions", conflict.SuggestedResolution)
	assert.Equal(t, []model.PolicyReference{{ID: "p1"}, {ID: "p2"}}, conflict.InvolvedPolicies)
}

func TestCheckPolicyPair_SameEffectNoConflict(t *testing.T) {
	detector := newContradictionDetector()

	a := model.PolicyForAnalysis{ID: "p1", Content: `permit (principal, action, resource);`}
	b := model.PolicyForAnalysis{ID: "p2", Content: `permit (principal, action, resource) when { resource.visibility == "public" };`}

	conflict, err := detector.CheckPolicyPair(context.Background(), a, b)
	assert.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestCheckPolicyPair_NoSharedKeywords(t *testing.T) {
	detector := newContradictionDetector()

	// Unparseable fragments skip the semantic pass; the lexical heuristic
	// needs a shared structural keyword to fire.
	a := model.PolicyForAnalysis{ID: "p1", Content: "permit everything"}
	b := model.PolicyForAnalysis{ID: "p2", Content: "forbid nothing"}

	conflict, err := detector.CheckPolicyPair(context.Background(), a, b)
	assert.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestDetectDirectConflicts_AllPairs(t *testing.T) {
	detector := newContradictionDetector()

	policies := []model.PolicyForAnalysis{
		{ID: "p1", Content: `permit (principal, action, resource);`},
		{ID: "p2", Content: `forbid (principal, action, resource);`},
		{ID: "p3", Content: `permit (principal, action, resource) when { resource.visibility == "public" };`},
	}

	conflicts, err := detector.DetectDirectConflicts(context.Background(), policies)
	assert.NoError(t, err)
	assert.Len(t, conflicts, 2)
	for _, conflict := range conflicts {
		assert.Equal(t, model.DirectContradiction, conflict.ConflictType)
		assert.Len(t, conflict.InvolvedPolicies, 2)
	}
	// The permit/permit pair never conflicts
	assert.Equal(t, "p1", conflicts[0].InvolvedPolicies[0].ID)
	assert.Equal(t, "p2", conflicts[0].InvolvedPolicies[1].ID)
	assert.Equal(t, "p2", conflicts[1].InvolvedPolicies[0].ID)
	assert.Equal(t, "p3", conflicts[1].InvolvedPolicies[1].ID)
}
