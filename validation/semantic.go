// validation/semantic.go
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sentra-iam/sentra/model"
	"github.com/sentra-iam/sentra/schema"
)

const semanticDocLink = "https://docs.sentra.dev/policies/validation"

var (
	attributeRefRe = regexp.MustCompile(`\b(principal|resource|context)\.([A-Za-z_][A-Za-z0-9_]*)`)
	comparisonRe   = regexp.MustCompile(`\b(principal|resource)\.([A-Za-z_][A-Za-z0-9_]*)\s*(==|!=|<=|>=|<|>)\s*("[^"]*"|\d+|true|false)`)
)

// SemanticValidator type-checks parsed policies against a schema
// snapshot. Diagnostics are classified into fine-grained kinds by
// keyword inspection of the diagnostic text; anything unclassifiable
// stays a generic semantic error.
type SemanticValidator struct{}

func NewSemanticValidator() *SemanticValidator {
	return &SemanticValidator{}
}

// Validate returns semantic errors and non-fatal warnings for the given
// policies. Warnings never affect validity.
func (v *SemanticValidator) Validate(policies []*Policy, s *schema.Schema) ([]model.ValidationError, []model.ValidationWarning) {
	var errs []model.ValidationError
	var warnings []model.ValidationWarning

	for i, policy := range policies {
		errs = append(errs, v.checkScopes(policy, s)...)
		errs = append(errs, v.checkActions(policy, s)...)
		errs = append(errs, v.checkConditions(policy, s)...)
		warnings = append(warnings, v.checkStructure(i, policy)...)
	}

	return errs, warnings
}

func (v *SemanticValidator) checkScopes(policy *Policy, s *schema.Schema) []model.ValidationError {
	var errs []model.ValidationError
	for _, constraint := range []ScopeConstraint{policy.Principal, policy.Resource} {
		if constraint.Op == ScopeAny {
			continue
		}
		simple := constraint.SimpleType()
		if !s.HasEntityType(simple) {
			errs = append(errs, v.newError(policy,
				fmt.Sprintf("unknown entity type %q", constraint.EntityType)))
		}
	}
	return errs
}

func (v *SemanticValidator) checkActions(policy *Policy, s *schema.Schema) []model.ValidationError {
	var errs []model.ValidationError
	for _, name := range policy.Action.Names {
		if !s.HasAction(name) {
			errs = append(errs, v.newError(policy,
				fmt.Sprintf("unknown action %q", name)))
			continue
		}
		if policy.Principal.Op != ScopeAny {
			pt := policy.Principal.SimpleType()
			if s.HasEntityType(pt) && !s.ActionAppliesToPrincipal(name, pt) {
				errs = append(errs, v.newError(policy,
					fmt.Sprintf("action %q cannot be applied to principal type %q", name, pt)))
			}
		}
		if policy.Resource.Op != ScopeAny {
			rt := policy.Resource.SimpleType()
			if s.HasEntityType(rt) && !s.ActionAppliesToResource(name, rt) {
				errs = append(errs, v.newError(policy,
					fmt.Sprintf("action %q cannot be applied to resource type %q", name, rt)))
			}
		}
	}
	return errs
}

func (v *SemanticValidator) checkConditions(policy *Policy, s *schema.Schema) []model.ValidationError {
	var errs []model.ValidationError
	for _, cond := range policy.Conditions {
		for _, ref := range attributeRefRe.FindAllStringSubmatch(cond.Body, -1) {
			object, attribute := ref[1], ref[2]
			if object == "context" {
				continue
			}
			errs = append(errs, v.checkAttributeRef(policy, cond, object, attribute, s)...)
		}
		for _, cmp := range comparisonRe.FindAllStringSubmatch(cond.Body, -1) {
			object, attribute, literal := cmp[1], cmp[2], cmp[4]
			errs = append(errs, v.checkComparison(policy, cond, object, attribute, literal, s)...)
		}
	}
	return errs
}

func (v *SemanticValidator) checkAttributeRef(policy *Policy, cond Condition, object, attribute string, s *schema.Schema) []model.ValidationError {
	entityType, known := v.scopeTypeFor(policy, object)
	if known {
		if !s.HasEntityType(entityType) {
			// Scope check already reported the unknown entity type
			return nil
		}
		if !s.HasAttribute(entityType, attribute) {
			return []model.ValidationError{v.newConditionError(cond,
				fmt.Sprintf("unknown attribute %q on entity type %q", attribute, entityType))}
		}
		return nil
	}

	// Unconstrained scope: accept the attribute if any entity type in the
	// schema defines it
	for _, name := range s.EntityTypeNames() {
		if s.HasAttribute(name, attribute) {
			return nil
		}
	}
	return []model.ValidationError{v.newConditionError(cond,
		fmt.Sprintf("unknown attribute %q referenced on %s", attribute, object))}
}

func (v *SemanticValidator) checkComparison(policy *Policy, cond Condition, object, attribute, literal string, s *schema.Schema) []model.ValidationError {
	entityType, known := v.scopeTypeFor(policy, object)
	if !known || !s.HasEntityType(entityType) {
		return nil
	}
	declared, ok := s.AttributeType(entityType, attribute)
	if !ok {
		// Attribute-reference check already reported this
		return nil
	}
	actual := literalType(literal)
	if declared != actual {
		return []model.ValidationError{v.newConditionError(cond,
			fmt.Sprintf("type mismatch: attribute %q of entity type %q is %s but compared with a %s literal",
				attribute, entityType, declared, actual))}
	}
	return nil
}

// scopeTypeFor resolves which entity type a principal/resource reference
// is constrained to, when the policy pins one down.
func (v *SemanticValidator) scopeTypeFor(policy *Policy, object string) (string, bool) {
	var constraint ScopeConstraint
	switch object {
	case "principal":
		constraint = policy.Principal
	case "resource":
		constraint = policy.Resource
	default:
		return "", false
	}
	if constraint.Op == ScopeAny || constraint.EntityType == "" {
		return "", false
	}
	return constraint.SimpleType(), true
}

func (v *SemanticValidator) checkStructure(index int, policy *Policy) []model.ValidationWarning {
	var warnings []model.ValidationWarning
	location := &model.PolicyLocation{Line: policy.Line, Column: policy.Column}

	unconstrained := policy.Principal.Op == ScopeAny &&
		policy.Action.Op == ScopeAny &&
		policy.Resource.Op == ScopeAny
	if unconstrained {
		warnings = append(warnings, model.ValidationWarning{
			Message:  fmt.Sprintf("Policy %d may be incomplete - missing principal, action, or resource constraints", index),
			Location: location,
			Severity: model.WarningLow,
		})
	}

	if policy.Effect == EffectPermit && len(policy.Conditions) == 0 {
		warnings = append(warnings, model.ValidationWarning{
			Message:  fmt.Sprintf("Policy %d is very permissive - consider adding conditions", index),
			Location: location,
			Severity: model.WarningMedium,
		})
	}

	for _, cond := range policy.Conditions {
		condLocation := &model.PolicyLocation{Line: cond.Line, Column: cond.Column}
		if strings.Contains(cond.Body, "context.") {
			warnings = append(warnings, model.ValidationWarning{
				Message:  "References to the request context are deprecated - use principal or resource attributes",
				Location: condLocation,
				Severity: model.WarningLow,
			})
		}
		if strings.Contains(cond.Body, " like ") {
			warnings = append(warnings, model.ValidationWarning{
				Message:  "Pattern matching with 'like' may impact evaluation performance",
				Location: condLocation,
				Severity: model.WarningLow,
			})
		}
	}

	return warnings
}

func (v *SemanticValidator) newError(policy *Policy, message string) model.ValidationError {
	return model.ValidationError{
		Kind:     classifyDiagnostic(message),
		Message:  message,
		Location: &model.PolicyLocation{Line: policy.Line, Column: policy.Column},
		DocLink:  semanticDocLink,
	}
}

func (v *SemanticValidator) newConditionError(cond Condition, message string) model.ValidationError {
	return model.ValidationError{
		Kind:     classifyDiagnostic(message),
		Message:  message,
		Location: &model.PolicyLocation{Line: cond.Line, Column: cond.Column},
		DocLink:  semanticDocLink,
	}
}

// classifyDiagnostic maps a diagnostic message onto a fine-grained error
// kind by keyword inspection. Unclassifiable messages stay generic.
func classifyDiagnostic(message string) model.ValidationErrorType {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "unknown entity type"):
		return model.UnknownEntityType
	case strings.Contains(lower, "unknown action"):
		return model.UnknownAction
	case strings.Contains(lower, "unknown attribute"):
		return model.UnknownAttribute
	case strings.Contains(lower, "type mismatch"):
		return model.TypeMismatch
	default:
		return model.SemanticError
	}
}

func literalType(literal string) string {
	switch {
	case strings.HasPrefix(literal, `"`):
		return "String"
	case literal == "true" || literal == "false":
		return "Boolean"
	default:
		return "Long"
	}
}
