// util/validation_util.go

package util

import (
	"fmt"

	"github.com/sentra-iam/sentra/config"
	"github.com/sentra-iam/sentra/model"
)

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

// ValidatePolicyContent checks a single policy body against the request limits.
func (v *ValidationUtil) ValidatePolicyContent(content string) error {
	if content == "" {
		return fmt.Errorf("policy content cannot be empty")
	}
	maxBytes := config.GetInt("analysis.maxPolicyContentBytes")
	if maxBytes > 0 && len(content) > maxBytes {
		return fmt.Errorf("policy content exceeds maximum size of %d bytes", maxBytes)
	}
	return nil
}

// ValidatePolicyBatch checks a batch of policies submitted for validation
// or conflict analysis: ids and contents must be non-empty, ids must be
// unique, and the batch must fit within the configured limits.
func (v *ValidationUtil) ValidatePolicyBatch(policies []model.PolicyForAnalysis) error {
	if len(policies) == 0 {
		return fmt.Errorf("at least one policy is required")
	}
	maxPolicies := config.GetInt("analysis.maxPolicies")
	if maxPolicies > 0 && len(policies) > maxPolicies {
		return fmt.Errorf("too many policies in request (maximum %d)", maxPolicies)
	}

	seen := make(map[string]struct{}, len(policies))
	for i, policy := range policies {
		if policy.ID == "" {
			return fmt.Errorf("policy at index %d has an empty id", i)
		}
		if _, dup := seen[policy.ID]; dup {
			return fmt.Errorf("duplicate policy id %q", policy.ID)
		}
		seen[policy.ID] = struct{}{}
		if err := v.ValidatePolicyContent(policy.Content); err != nil {
			return fmt.Errorf("policy %q: %w", policy.ID, err)
		}
	}
	return nil
}

// ValidateStoredPolicy checks a policy before it is persisted.
func (v *ValidationUtil) ValidateStoredPolicy(policy model.StoredPolicy) error {
	if policy.ID == "" {
		return fmt.Errorf("policy ID cannot be empty")
	}
	if policy.Name == "" {
		return fmt.Errorf("policy name cannot be empty")
	}
	return v.ValidatePolicyContent(policy.Content)
}
