// analysis/unreachable.go
package analysis

import (
	"context"
	"strings"

	"github.com/sentra-iam/sentra/model"
)

// OrderBasedUnreachabilityDetector flags policies shadowed by an earlier
// policy that is both more general (fewer conditions) and stronger in
// effect (forbid over permit). Only preceding policies can block; order
// is evaluation order.
type OrderBasedUnreachabilityDetector struct{}

func NewOrderBasedUnreachabilityDetector() *OrderBasedUnreachabilityDetector {
	return &OrderBasedUnreachabilityDetector{}
}

// DetectUnreachablePolicies scans each policy against those before it
// and reports the first blocking policy found.
func (d *OrderBasedUnreachabilityDetector) DetectUnreachablePolicies(ctx context.Context, policies []model.PolicyForAnalysis) ([]model.UnreachablePolicy, error) {
	var unreachable []model.UnreachablePolicy
	for i, policy := range policies {
		if finding := d.checkAgainstPreceding(policy, policies[:i]); finding != nil {
			unreachable = append(unreachable, *finding)
		}
	}
	return unreachable, nil
}

func (d *OrderBasedUnreachabilityDetector) checkAgainstPreceding(target model.PolicyForAnalysis, preceding []model.PolicyForAnalysis) *model.UnreachablePolicy {
	for _, earlier := range preceding {
		if isMoreGeneral(earlier, target) && hasStrongerEffect(earlier, target) {
			return &model.UnreachablePolicy{
				Policy:                 model.PolicyReference{ID: target.ID},
				BlockingPolicies:       []model.PolicyReference{{ID: earlier.ID}},
				Explanation:            "Policy is unreachable due to more general preceding policy",
				ReachabilityConditions: "Add more specific conditions or reorder policies",
			}
		}
	}
	return nil
}

// isMoreGeneral treats fewer when/unless clauses as more general.
func isMoreGeneral(a, b model.PolicyForAnalysis) bool {
	return conditionCount(a.Content) < conditionCount(b.Content)
}

// hasStrongerEffect treats forbid as stronger than permit.
func hasStrongerEffect(a, b model.PolicyForAnalysis) bool {
	return strings.Contains(a.Content, "forbid") && strings.Contains(b.Content, "permit")
}

func conditionCount(content string) int {
	return strings.Count(content, "when") + strings.Count(content, "unless")
}
