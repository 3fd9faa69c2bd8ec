// analysis/coverage_test.go
package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentra-iam/sentra/analysis"
	"github.com/sentra-iam/sentra/model"
	"github.com/sentra-iam/sentra/schema"
)

const userSchemaJSON = `{
	"schema_id": "coverage-test",
	"version": "1.0.0",
	"entity_types": {
		"User": {
			"attributes": {
				"id": {"type": "String", "required": true},
				"email": {"type": "String", "required": true},
				"role": {"type": "String", "required": false}
			}
		}
	},
	"actions": {}
}`

const mediaSchemaJSON = `{
	"schema_id": "media-test",
	"version": "1.0.0",
	"entity_types": {
		"Doc": {"attributes": {}},
		"Photo": {"attributes": {}},
		"Video": {"attributes": {}},
		"Secret": {"attributes": {}}
	},
	"actions": {
		"view": {"applies_to": {}},
		"edit": {"applies_to": {}},
		"share": {"applies_to": {}},
		"print": {"applies_to": {}},
		"archive": {"applies_to": {}},
		"purge": {"applies_to": {}}
	}
}`

func mustParseSchema(t *testing.T, content string) *schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(content))
	assert.NoError(t, err)
	return s
}

func TestAnalyze_AttributeCoverage(t *testing.T) {
	analyzer := analysis.NewCoverageAnalyzer(mustParseSchema(t, userSchemaJSON))

	policies := []model.PolicyForAnalysis{{
		ID:      "p1",
		Content: `permit (principal == User::"alice", action, resource) when { principal.email == "alice@example.com" };`,
	}}

	report := analyzer.Analyze(policies)
	assert.Equal(t, 1, report.TotalEntities)
	assert.Equal(t, 1, report.CoveredEntities)

	coverage := report.EntityCoverage["User"]
	assert.Equal(t, 3, coverage.TotalAttributes)
	assert.Equal(t, 1, coverage.CoveredAttributes)
	assert.InDelta(t, 33.33, coverage.CoveragePercentage, 0.01)
	assert.Equal(t, []string{"id", "role"}, coverage.MissingAttributes)
}

func TestAnalyze_CombinedCoverage(t *testing.T) {
	analyzer := analysis.NewCoverageAnalyzer(mustParseSchema(t, mediaSchemaJSON))

	policies := []model.PolicyForAnalysis{
		{ID: "p1", Content: `permit (principal, action == "view", resource is Doc);`},
		{ID: "p2", Content: `permit (principal, action in ["edit", "share"], resource is Photo);`},
		{ID: "p3", Content: `permit (principal, action == "print", resource is Video);`},
	}

	report := analyzer.Analyze(policies)
	assert.Equal(t, 4, report.TotalEntities)
	assert.Equal(t, 3, report.CoveredEntities)
	assert.Equal(t, 6, report.TotalActions)
	assert.Equal(t, 4, report.CoveredActions)
	assert.InDelta(t, 70.0, report.CoveragePercentage, 0.0001)

	assert.True(t, report.ActionCoverage["view"].IsCovered)
	assert.Equal(t, []string{"p1"}, report.ActionCoverage["view"].CoveringPolicies)
	assert.False(t, report.ActionCoverage["purge"].IsCovered)
	assert.Empty(t, report.ActionCoverage["purge"].CoveringPolicies)
}

func TestAnalyze_NoPolicies(t *testing.T) {
	analyzer := analysis.NewCoverageAnalyzer(mustParseSchema(t, mediaSchemaJSON))

	report := analyzer.Analyze(nil)
	assert.Equal(t, 0, report.CoveredEntities)
	assert.Equal(t, 0, report.CoveredActions)
	assert.Equal(t, 0.0, report.CoveragePercentage)
}

func TestFindGaps(t *testing.T) {
	analyzer := analysis.NewCoverageAnalyzer(mustParseSchema(t, mediaSchemaJSON))

	policies := []model.PolicyForAnalysis{
		{ID: "p1", Content: `permit (principal, action == "view", resource is Doc);`},
		{ID: "p2", Content: `permit (principal, action in ["edit", "share"], resource is Photo);`},
		{ID: "p3", Content: `permit (principal, action == "print", resource is Video);`},
	}

	report := analyzer.Analyze(policies)
	gaps := analyzer.FindGaps(&report)
	assert.Len(t, gaps, 3)

	assert.Equal(t, model.UncoveredEntity, gaps[0].GapType)
	assert.Equal(t, "Secret", gaps[0].EntityType)
	assert.Equal(t, "Entity type 'Secret' has no policy coverage", gaps[0].Description)
	assert.Equal(t, model.GapSeverityHigh, gaps[0].Severity)

	assert.Equal(t, model.UncoveredAction, gaps[1].GapType)
	assert.Equal(t, "archive", gaps[1].ActionName)
	assert.Equal(t, "Action 'archive' is not covered by any policy", gaps[1].Description)

	assert.Equal(t, model.UncoveredAction, gaps[2].GapType)
	assert.Equal(t, "purge", gaps[2].ActionName)
}

func TestFindGaps_MissingAttributes(t *testing.T) {
	analyzer := analysis.NewCoverageAnalyzer(mustParseSchema(t, userSchemaJSON))

	policies := []model.PolicyForAnalysis{{
		ID:      "p1",
		Content: `permit (principal == User::"alice", action, resource) when { principal.email == "alice@example.com" };`,
	}}

	report := analyzer.Analyze(policies)
	gaps := analyzer.FindGaps(&report)
	assert.Len(t, gaps, 2)

	assert.Equal(t, model.MissingAttribute, gaps[0].GapType)
	assert.Equal(t, "User", gaps[0].EntityType)
	assert.Equal(t, "id", gaps[0].AttributeName)
	assert.Equal(t, "Attribute 'id' of entity 'User' is not covered by any policy", gaps[0].Description)
	assert.Equal(t, model.GapSeverityMedium, gaps[0].Severity)

	assert.Equal(t, "role", gaps[1].AttributeName)
	assert.Equal(t, "Attribute 'role' of entity 'User' is not covered by any policy", gaps[1].Description)
}

func TestSuggestImprovements(t *testing.T) {
	analyzer := analysis.NewCoverageAnalyzer(mustParseSchema(t, mediaSchemaJSON))

	gaps := []model.CoverageGap{
		{GapType: model.UncoveredEntity, EntityType: "Secret"},
		{GapType: model.UncoveredAction, ActionName: "purge"},
		{GapType: model.MissingAttribute, EntityType: "User", AttributeName: "role"},
	}

	suggestions := analyzer.SuggestImprovements(gaps)
	assert.Len(t, suggestions, 2)

	assert.Equal(t, model.CreatePolicy, suggestions[0].SuggestionType)
	assert.Equal(t, "Create a policy to cover entity type 'Secret'", suggestions[0].RecommendedAction)
	assert.Equal(t, `permit (principal, action, resource) when { resource is Secret };`, suggestions[0].PolicyTemplate)
	assert.Equal(t, model.SuggestionPriorityHigh, suggestions[0].Priority)

	assert.Equal(t, "Create a policy to cover action 'purge'", suggestions[1].RecommendedAction)
	assert.Equal(t, `permit (principal, action == "purge", resource);`, suggestions[1].PolicyTemplate)
}
