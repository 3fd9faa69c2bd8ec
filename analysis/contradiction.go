// analysis/contradiction.go
package analysis

import (
	"context"
	"strings"

	"github.com/sentra-iam/sentra/model"
	"github.com/sentra-iam/sentra/validation"
)

// ContradictionDetector finds direct conflicts between policy pairs. It
// revalidates each pair as a combined fragment and inspects the semantic
// diagnostics for conflict keywords, then falls back to a lexical
// permit-versus-forbid heuristic.
type ContradictionDetector struct {
	validator *validation.Validator
}

func NewContradictionDetector(validator *validation.Validator) *ContradictionDetector {
	return &ContradictionDetector{validator: validator}
}

// DetectDirectConflicts checks every unordered policy pair and reports
// at most one conflict per pair.
func (d *ContradictionDetector) DetectDirectConflicts(ctx context.Context, policies []model.PolicyForAnalysis) ([]model.PolicyConflict, error) {
	var conflicts []model.PolicyConflict
	for i := 0; i < len(policies); i++ {
		for j := i + 1; j < len(policies); j++ {
			conflict, err := d.CheckPolicyPair(ctx, policies[i], policies[j])
			if err != nil {
				return nil, err
			}
			if conflict != nil {
				conflicts = append(conflicts, *conflict)
			}
		}
	}
	return conflicts, nil
}

// CheckPolicyPair analyzes a single pair for a direct conflict.
func (d *ContradictionDetector) CheckPolicyPair(ctx context.Context, a, b model.PolicyForAnalysis) (*model.PolicyConflict, error) {
	combined := a.Content + "\n" + b.Content
	diagnostics, err := d.validator.SemanticDiagnostics(ctx, combined)
	if err != nil {
		return nil, err
	}

	for _, diag := range diagnostics {
		if isConflictDiagnostic(diag.Message) {
			return &model.PolicyConflict{
				ConflictType:     classifyConflictType(diag.Message),
				InvolvedPolicies: []model.PolicyReference{a.Ref(), b.Ref()},
				Description:      diag.Message,
				Severity:         conflictSeverityFor(diag.Message),
				// Resolution is filled in by the suggester
			}, nil
		}
	}

	return d.detectLogicalConflict(a, b), nil
}

// detectLogicalConflict applies the lexical heuristic: opposite effects
// plus any shared structural keyword count as a contradiction.
func (d *ContradictionDetector) detectLogicalConflict(a, b model.PolicyForAnalysis) *model.PolicyConflict {
	aPermits := strings.Contains(a.Content, "permit")
	aForbids := strings.Contains(a.Content, "forbid")
	bPermits := strings.Contains(b.Content, "permit")
	bForbids := strings.Contains(b.Content, "forbid")

	if !((aPermits && bForbids) || (aForbids && bPermits)) {
		return nil
	}
	if !haveOverlappingPatterns(a.Content, b.Content) {
		return nil
	}

	return &model.PolicyConflict{
		ConflictType:        model.DirectContradiction,
		InvolvedPolicies:    []model.PolicyReference{{ID: a.ID}, {ID: b.ID}},
		Description:         "Policies have conflicting effects (permit vs forbid) on overlapping patterns",
		Severity:            model.SeverityHigh,
		SuggestedResolution: "Review policy precedence or refine policy conditions",
	}
}

func haveOverlappingPatterns(a, b string) bool {
	for _, keyword := range []string{"principal", "action", "resource", "when", "unless"} {
		if strings.Contains(a, keyword) && strings.Contains(b, keyword) {
			return true
		}
	}
	return false
}

func isConflictDiagnostic(message string) bool {
	return strings.Contains(message, "conflict") ||
		strings.Contains(message, "contradiction") ||
		strings.Contains(message, "ambiguous") ||
		strings.Contains(message, "overlapping")
}

func classifyConflictType(message string) model.ConflictType {
	switch {
	case strings.Contains(message, "contradiction"):
		return model.DirectContradiction
	case strings.Contains(message, "overlapping"):
		return model.OverlappingPermissions
	case strings.Contains(message, "ambiguous"):
		return model.AmbiguousPrecedence
	case strings.Contains(message, "circular"):
		return model.CircularDependency
	case strings.Contains(message, "condition"):
		return model.InconsistentConditions
	case strings.Contains(message, "resource"):
		return model.ResourceAccessConflict
	case strings.Contains(message, "action"):
		return model.ActionPermissionConflict
	default:
		return model.DirectContradiction
	}
}

func conflictSeverityFor(message string) model.ConflictSeverity {
	switch {
	case strings.Contains(message, "critical"):
		return model.SeverityCritical
	case strings.Contains(message, "security"):
		return model.SeverityHigh
	case strings.Contains(message, "warning"):
		return model.SeverityLow
	default:
		return model.SeverityMedium
	}
}
