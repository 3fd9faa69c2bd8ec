// analysis/suggester.go
package analysis

import (
	"fmt"
	"strings"

	"github.com/sentra-iam/sentra/model"
)

// CannedResolutionSuggester maps every conflict type onto a fixed
// remediation string. The mapping is total; there is no default arm.
type CannedResolutionSuggester struct{}

func NewCannedResolutionSuggester() *CannedResolutionSuggester {
	return &CannedResolutionSuggester{}
}

// SuggestConflictResolution returns the canned remediation text for the
// conflict's type.
func (s *CannedResolutionSuggester) SuggestConflictResolution(conflict *model.PolicyConflict) string {
	switch conflict.ConflictType {
	case model.DirectContradiction:
		return "Review policy precedence rules or add more specific conditions to resolve the contradiction"
	case model.OverlappingPermissions:
		return "Consider consolidating overlapping policies or adding priority levels"
	case model.AmbiguousPrecedence:
		return "Define clear precedence rules or reorder policies"
	case model.CircularDependency:
		return "Break circular dependencies by restructuring policy conditions"
	case model.InconsistentConditions:
		return "Review and align policy conditions for consistency"
	case model.ResourceAccessConflict:
		return "Clarify resource access patterns and permissions"
	case model.ActionPermissionConflict:
		return "Review action permissions and ensure they are properly scoped"
	}
	return ""
}

// ExplainRedundancy renders a redundancy finding as prose.
func (s *CannedResolutionSuggester) ExplainRedundancy(redundancy *model.PolicyRedundancy) string {
	return fmt.Sprintf(
		"Policy '%s' appears to be redundant because it is superseded by %d other policies with similar effects",
		redundancy.RedundantPolicy.ID,
		len(redundancy.SupersedingPolicies),
	)
}

// ExplainUnreachability renders an unreachability finding as prose.
func (s *CannedResolutionSuggester) ExplainUnreachability(unreachable *model.UnreachablePolicy) string {
	return fmt.Sprintf(
		"Policy '%s' is unreachable because %d blocking policies will always match first",
		unreachable.Policy.ID,
		len(unreachable.BlockingPolicies),
	)
}

// SuggestPriorityAdjustments emits one reordering hint per policy
// referenced by a Critical or High severity conflict. The suggested
// priority is a deterministic, non-optimal hint.
func (s *CannedResolutionSuggester) SuggestPriorityAdjustments(conflicts []model.PolicyConflict) []model.PriorityAdjustment {
	var adjustments []model.PriorityAdjustment
	for i, conflict := range conflicts {
		if conflict.Severity != model.SeverityCritical && conflict.Severity != model.SeverityHigh {
			continue
		}
		for _, ref := range conflict.InvolvedPolicies {
			adjustments = append(adjustments, model.PriorityAdjustment{
				PolicyID:          ref.ID,
				SuggestedPriority: (i + 1) * 10,
				Reason:            fmt.Sprintf("Resolve %s conflict", strings.ToLower(string(conflict.ConflictType))),
			})
		}
	}
	return adjustments
}
