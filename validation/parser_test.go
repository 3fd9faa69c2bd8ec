// validation/parser_test.go
package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentra-iam/sentra/validation"
)

func TestParsePolicy_FullForm(t *testing.T) {
	policy, err := validation.ParsePolicy(`
		permit (principal == User::"alice", action == Action::"read", resource is Repository)
		when { principal.email == "alice@example.com" };
	`)
	assert.NoError(t, err)

	assert.Equal(t, validation.EffectPermit, policy.Effect)
	assert.Equal(t, validation.ScopeEq, policy.Principal.Op)
	assert.Equal(t, "User", policy.Principal.EntityType)
	assert.Equal(t, "alice", policy.Principal.EntityID)
	assert.Equal(t, validation.ScopeEq, policy.Action.Op)
	assert.Equal(t, []string{"read"}, policy.Action.Names)
	assert.Equal(t, validation.ScopeIs, policy.Resource.Op)
	assert.Equal(t, "Repository", policy.Resource.EntityType)

	assert.Len(t, policy.Conditions, 1)
	assert.Equal(t, validation.ConditionWhen, policy.Conditions[0].Kind)
	assert.Equal(t, `principal.email == "alice@example.com"`, policy.Conditions[0].Body)
}

func TestParsePolicy_UnconstrainedScopes(t *testing.T) {
	policy, err := validation.ParsePolicy(`forbid (principal, action, resource);`)
	assert.NoError(t, err)

	assert.Equal(t, validation.EffectForbid, policy.Effect)
	assert.Equal(t, validation.ScopeAny, policy.Principal.Op)
	assert.Equal(t, validation.ScopeAny, policy.Action.Op)
	assert.Equal(t, validation.ScopeAny, policy.Resource.Op)
	assert.Empty(t, policy.Conditions)
}

func TestParsePolicy_ActionList(t *testing.T) {
	policy, err := validation.ParsePolicy(`permit (principal, action in [Action::"read", Action::"write"], resource);`)
	assert.NoError(t, err)

	assert.Equal(t, validation.ScopeIn, policy.Action.Op)
	assert.Equal(t, []string{"read", "write"}, policy.Action.Names)
}

func TestParsePolicy_NamespacedEntityType(t *testing.T) {
	policy, err := validation.ParsePolicy(`permit (principal == Sentra::IAM::User::"alice", action, resource);`)
	assert.NoError(t, err)

	assert.Equal(t, "Sentra::IAM::User", policy.Principal.EntityType)
	assert.Equal(t, "User", policy.Principal.SimpleType())
	assert.Equal(t, "alice", policy.Principal.EntityID)
}

func TestParsePolicy_AnnotationsAndComments(t *testing.T) {
	policy, err := validation.ParsePolicy(`
		// grants read access to public repositories
		@id("repo-read")
		permit (principal, action == Action::"read", resource is Repository)
		unless { resource.visibility == "private" };
	`)
	assert.NoError(t, err)
	assert.Equal(t, validation.EffectPermit, policy.Effect)
	assert.Len(t, policy.Conditions, 1)
	assert.Equal(t, validation.ConditionUnless, policy.Conditions[0].Kind)
}

func TestParsePolicySet_MultipleStatements(t *testing.T) {
	policies, err := validation.ParsePolicySet(`
		permit (principal, action == Action::"read", resource);
		forbid (principal, action == Action::"delete", resource);
	`)
	assert.NoError(t, err)
	assert.Len(t, policies, 2)
	assert.Equal(t, validation.EffectPermit, policies[0].Effect)
	assert.Equal(t, validation.EffectForbid, policies[1].Effect)
}

func TestParsePolicy_RejectsMultipleStatements(t *testing.T) {
	_, err := validation.ParsePolicy(`
		permit (principal, action, resource);
		permit (principal, action, resource);
	`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "expected a single policy statement, found 2")
}

func TestParsePolicySet_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		message string
	}{
		{"empty input", "   \n  ", "no policy statements found"},
		{"missing semicolon", `permit (principal, action, resource)`, `expected ";"`},
		{"bad effect", `allow (principal, action, resource);`, `expected "permit" or "forbid"`},
		{"unterminated string", `permit (principal == User::"alice, action, resource);`, "unterminated string literal"},
		{"unterminated condition", `permit (principal, action, resource) when { principal.role == "admin"`, "unterminated when clause"},
		{"empty condition", `permit (principal, action, resource) when { };`, "empty when clause"},
		{"unexpected character", `permit (principal, action, resource) when { principal.role # "admin" };`, "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validation.ParsePolicySet(tt.content)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseError_Position(t *testing.T) {
	_, err := validation.ParsePolicySet("permit (principal action, resource);")
	assert.Error(t, err)

	var parseErr *validation.ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 1, parseErr.Line)
	assert.Equal(t, 19, parseErr.Column)
	assert.Contains(t, parseErr.Error(), "at line 1, column 19")
}
