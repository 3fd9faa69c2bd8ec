// analysis/redundancy.go
package analysis

import (
	"context"
	"strings"

	"github.com/sentra-iam/sentra/model"
)

// redundancyConfidence is the flat confidence attached to similarity
// based redundancy findings.
const redundancyConfidence = 0.85

// SimilarityRedundancyDetector flags a policy as redundant when its
// word-level Jaccard similarity with another policy exceeds the
// configured threshold.
type SimilarityRedundancyDetector struct{}

func NewSimilarityRedundancyDetector() *SimilarityRedundancyDetector {
	return &SimilarityRedundancyDetector{}
}

// DetectRedundancies checks every policy against all others and reports
// one redundancy finding per policy that has similar peers.
func (d *SimilarityRedundancyDetector) DetectRedundancies(ctx context.Context, policies []model.PolicyForAnalysis, threshold float64) ([]model.PolicyRedundancy, error) {
	var redundancies []model.PolicyRedundancy
	for i, policy := range policies {
		var superseding []model.PolicyReference
		for j, other := range policies {
			if i == j {
				continue
			}
			if wordSimilarity(policy.Content, other.Content) > threshold {
				superseding = append(superseding, model.PolicyReference{ID: other.ID})
			}
		}
		if len(superseding) > 0 {
			redundancies = append(redundancies, model.PolicyRedundancy{
				RedundantPolicy:     model.PolicyReference{ID: policy.ID},
				SupersedingPolicies: superseding,
				Explanation:         "Policy appears to be redundant based on content similarity",
				Confidence:          redundancyConfidence,
			})
		}
	}
	return redundancies, nil
}

// wordSimilarity is the Jaccard similarity over whitespace-separated
// words.
func wordSimilarity(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)

	intersection := 0
	for word := range wordsA {
		if _, ok := wordsB[word]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func wordSet(content string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, word := range strings.Fields(content) {
		words[word] = struct{}{}
	}
	return words
}
