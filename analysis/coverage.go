// analysis/coverage.go
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sentra-iam/sentra/model"
	"github.com/sentra-iam/sentra/schema"
)

// CoverageAnalyzer measures how much of a schema's entity and action
// surface is referenced by a policy set. Matching is textual: an
// attribute counts as covered when its name appears in a policy that
// also mentions the owning entity type.
type CoverageAnalyzer struct {
	schema *schema.Schema
}

func NewCoverageAnalyzer(s *schema.Schema) *CoverageAnalyzer {
	return &CoverageAnalyzer{schema: s}
}

// Analyze builds the full coverage report for the policy set.
func (a *CoverageAnalyzer) Analyze(policies []model.PolicyForAnalysis) model.CoverageReport {
	report := model.CoverageReport{
		TotalEntities:  len(a.schema.EntityTypes),
		TotalActions:   len(a.schema.Actions),
		EntityCoverage: make(map[string]model.EntityCoverage),
		ActionCoverage: make(map[string]model.ActionCoverage),
	}

	for _, entityType := range a.schema.EntityTypeNames() {
		coverage := a.analyzeEntityCoverage(entityType, policies)
		if coverage.CoveragePercentage > 0 {
			report.CoveredEntities++
		}
		report.EntityCoverage[entityType] = coverage
	}

	for _, action := range a.schema.ActionNames() {
		coverage := a.analyzeActionCoverage(action, policies)
		if coverage.IsCovered {
			report.CoveredActions++
		}
		report.ActionCoverage[action] = coverage
	}

	report.CalculateCoveragePercentage()
	return report
}

// analyzeEntityCoverage checks each attribute of the entity type against
// policies that mention the type. A type with no attributes counts as
// fully covered once any policy mentions it.
func (a *CoverageAnalyzer) analyzeEntityCoverage(entityType string, policies []model.PolicyForAnalysis) model.EntityCoverage {
	attributes := a.schema.EntityTypes[entityType].Attributes
	coverage := model.EntityCoverage{
		EntityType:        entityType,
		TotalAttributes:   len(attributes),
		MissingAttributes: []string{},
	}

	var mentioning []string
	for _, policy := range policies {
		if strings.Contains(policy.Content, entityType) {
			mentioning = append(mentioning, policy.Content)
		}
	}

	if len(attributes) == 0 {
		if len(mentioning) > 0 {
			coverage.CoveragePercentage = 100.0
		}
		return coverage
	}

	names := make([]string, 0, len(attributes))
	for name := range attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		covered := false
		for _, content := range mentioning {
			if strings.Contains(content, name) {
				covered = true
				break
			}
		}
		if covered {
			coverage.CoveredAttributes++
		} else {
			coverage.MissingAttributes = append(coverage.MissingAttributes, name)
		}
	}

	coverage.CoveragePercentage = float64(coverage.CoveredAttributes) / float64(coverage.TotalAttributes) * 100.0
	return coverage
}

func (a *CoverageAnalyzer) analyzeActionCoverage(action string, policies []model.PolicyForAnalysis) model.ActionCoverage {
	coverage := model.ActionCoverage{
		ActionName:       action,
		CoveringPolicies: []string{},
	}
	for _, policy := range policies {
		if strings.Contains(policy.Content, action) {
			coverage.CoveringPolicies = append(coverage.CoveringPolicies, policy.ID)
		}
	}
	coverage.IsCovered = len(coverage.CoveringPolicies) > 0
	return coverage
}

// FindGaps lists every hole in the report: entity types without any
// coverage, attributes no policy references, and actions no policy
// mentions.
func (a *CoverageAnalyzer) FindGaps(report *model.CoverageReport) []model.CoverageGap {
	gaps := []model.CoverageGap{}

	for _, entityType := range sortedKeys(report.EntityCoverage) {
		coverage := report.EntityCoverage[entityType]
		if coverage.CoveragePercentage == 0 {
			gaps = append(gaps, model.CoverageGap{
				GapType:     model.UncoveredEntity,
				EntityType:  entityType,
				Description: fmt.Sprintf("Entity type '%s' has no policy coverage", entityType),
				Severity:    model.GapSeverityHigh,
			})
			continue
		}
		for _, attribute := range coverage.MissingAttributes {
			gaps = append(gaps, model.CoverageGap{
				GapType:       model.MissingAttribute,
				EntityType:    entityType,
				AttributeName: attribute,
				Description:   fmt.Sprintf("Attribute '%s' of entity '%s' is not covered by any policy", attribute, entityType),
				Severity:      model.GapSeverityMedium,
			})
		}
	}

	for _, action := range sortedActionKeys(report.ActionCoverage) {
		if !report.ActionCoverage[action].IsCovered {
			gaps = append(gaps, model.CoverageGap{
				GapType:     model.UncoveredAction,
				ActionName:  action,
				Description: fmt.Sprintf("Action '%s' is not covered by any policy", action),
				Severity:    model.GapSeverityHigh,
			})
		}
	}

	return gaps
}

// SuggestImprovements turns uncovered-entity and uncovered-action gaps
// into ready-to-edit policy templates.
func (a *CoverageAnalyzer) SuggestImprovements(gaps []model.CoverageGap) []model.CoverageSuggestion {
	suggestions := []model.CoverageSuggestion{}
	for _, gap := range gaps {
		switch gap.GapType {
		case model.UncoveredEntity:
			suggestions = append(suggestions, model.CoverageSuggestion{
				SuggestionType:    model.CreatePolicy,
				TargetGap:         gap,
				RecommendedAction: fmt.Sprintf("Create a policy to cover entity type '%s'", gap.EntityType),
				PolicyTemplate:    fmt.Sprintf("permit (principal, action, resource) when { resource is %s };", gap.EntityType),
				Priority:          model.SuggestionPriorityHigh,
			})
		case model.UncoveredAction:
			suggestions = append(suggestions, model.CoverageSuggestion{
				SuggestionType:    model.CreatePolicy,
				TargetGap:         gap,
				RecommendedAction: fmt.Sprintf("Create a policy to cover action '%s'", gap.ActionName),
				PolicyTemplate:    fmt.Sprintf("permit (principal, action == %q, resource);", gap.ActionName),
				Priority:          model.SuggestionPriorityHigh,
			})
		}
	}
	return suggestions
}

func sortedKeys(m map[string]model.EntityCoverage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedActionKeys(m map[string]model.ActionCoverage) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
