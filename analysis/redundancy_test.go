// analysis/redundancy_test.go
package analysis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentra-iam/sentra/analysis"
	"github.com/sentra-iam/sentra/model"
)

func TestDetectRedundancies_IdenticalPolicies(t *testing.T) {
	detector := analysis.NewSimilarityRedundancyDetector()

	policies := []model.PolicyForAnalysis{
		{ID: "p1", Content: `permit (principal, action, resource);`},
		{ID: "p2", Content: `permit (principal, action, resource);`},
	}

	redundancies, err := detector.DetectRedundancies(context.Background(), policies, 0.8)
	assert.NoError(t, err)
	assert.Len(t, redundancies, 2)

	assert.Equal(t, "p1", redundancies[0].RedundantPolicy.ID)
	assert.Equal(t, []model.PolicyReference{{ID: "p2"}}, redundancies[0].SupersedingPolicies)
	assert.Equal(t, "p2", redundancies[1].RedundantPolicy.ID)
	assert.Equal(t, []model.PolicyReference{{ID: "p1"}}, redundancies[1].SupersedingPolicies)

	for _, redundancy := range redundancies {
		assert.Equal(t, "Policy appears to be redundant based on content similarity", redundancy.Explanation)
		assert.Equal(t, 0.85, redundancy.Confidence)
	}
}

func TestDetectRedundancies_DistinctPolicies(t *testing.T) {
	detector := analysis.NewSimilarityRedundancyDetector()

	policies := []model.PolicyForAnalysis{
		{ID: "p1", Content: `permit (principal == User::"alice", action, resource);`},
		{ID: "p2", Content: `forbid (principal == ServiceAccount::"builder", action, resource) when { resource.visibility == "private" };`},
	}

	redundancies, err := detector.DetectRedundancies(context.Background(), policies, 0.8)
	assert.NoError(t, err)
	assert.Empty(t, redundancies)
}

func TestDetectRedundancies_ThresholdRespected(t *testing.T) {
	detector := analysis.NewSimilarityRedundancyDetector()

	// Six of eight distinct words shared: similarity 0.75
	policies := []model.PolicyForAnalysis{
		{ID: "p1", Content: `permit ( principal action resource ) ;`},
		{ID: "p2", Content: `forbid ( principal action resource ) ;`},
	}

	flagged, err := detector.DetectRedundancies(context.Background(), policies, 0.5)
	assert.NoError(t, err)
	assert.Len(t, flagged, 2)

	unflagged, err := detector.DetectRedundancies(context.Background(), policies, 0.9)
	assert.NoError(t, err)
	assert.Empty(t, unflagged)
}
