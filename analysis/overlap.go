// analysis/overlap.go
package analysis

import (
	"context"
	"fmt"
	"sort"

	"github.com/sentra-iam/sentra/model"
)

const (
	overlapThreshold     = 0.7
	overlapHighThreshold = 0.9
)

// PatternOverlapAnalyzer scores policy pairs by the Jaccard similarity
// of their quoted string literals. Scores above 0.7 become findings.
type PatternOverlapAnalyzer struct{}

func NewPatternOverlapAnalyzer() *PatternOverlapAnalyzer {
	return &PatternOverlapAnalyzer{}
}

// AnalyzePermissionOverlaps reports an OverlappingPermissions conflict
// for every pair whose pattern overlap exceeds the threshold.
func (a *PatternOverlapAnalyzer) AnalyzePermissionOverlaps(ctx context.Context, policies []model.PolicyForAnalysis) ([]model.PolicyConflict, error) {
	var overlaps []model.PolicyConflict
	for i := 0; i < len(policies); i++ {
		for j := i + 1; j < len(policies); j++ {
			score := a.OverlapScore(policies[i], policies[j])
			if score <= overlapThreshold {
				continue
			}
			severity := model.SeverityMedium
			if score > overlapHighThreshold {
				severity = model.SeverityHigh
			}
			overlaps = append(overlaps, model.PolicyConflict{
				ConflictType:        model.OverlappingPermissions,
				InvolvedPolicies:    []model.PolicyReference{{ID: policies[i].ID}, {ID: policies[j].ID}},
				Description:         fmt.Sprintf("Policies have %.1f%% overlapping permissions", score*100.0),
				Severity:            severity,
				SuggestedResolution: "Consider consolidating overlapping policies",
			})
		}
	}
	return overlaps, nil
}

// OverlapScore is the Jaccard similarity of the two policies' quoted
// literal patterns, 0 when neither has any.
func (a *PatternOverlapAnalyzer) OverlapScore(p1, p2 model.PolicyForAnalysis) float64 {
	patterns1 := extractPatterns(p1.Content)
	patterns2 := extractPatterns(p2.Content)

	intersection := 0
	for pattern := range patterns1 {
		if _, ok := patterns2[pattern]; ok {
			intersection++
		}
	}
	union := len(patterns1) + len(patterns2) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// FindCommonPatterns returns every quoted literal shared by at least two
// policies.
func (a *PatternOverlapAnalyzer) FindCommonPatterns(policies []model.PolicyForAnalysis) []string {
	counts := make(map[string]int)
	for _, policy := range policies {
		for pattern := range extractPatterns(policy.Content) {
			counts[pattern]++
		}
	}
	var common []string
	for pattern, count := range counts {
		if count > 1 {
			common = append(common, pattern)
		}
	}
	sort.Strings(common)
	return common
}

// extractPatterns collects the non-empty quoted string literals of a
// policy as its permission "patterns".
func extractPatterns(content string) map[string]struct{} {
	patterns := make(map[string]struct{})
	inQuotes := false
	var current []rune
	for _, ch := range content {
		switch {
		case ch == '"':
			if inQuotes && len(current) > 0 {
				patterns[string(current)] = struct{}{}
				current = current[:0]
			}
			inQuotes = !inQuotes
		case inQuotes:
			current = append(current, ch)
		}
	}
	return patterns
}
