// model/policy.go
package model

// PolicyForAnalysis is the unit of input for validation and conflict
// analysis. It lives only for the duration of a single call; persistence
// is handled separately by the policy store.
type PolicyForAnalysis struct {
	ID       string `json:"id"`
	Content  string `json:"content"`
	Name     string `json:"name,omitempty"`
	Priority *int   `json:"priority,omitempty"`
}

// PolicyReference identifies a policy inside a finding.
type PolicyReference struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Line   *int   `json:"line,omitempty"`
	Column *int   `json:"column,omitempty"`
}

// Ref returns a reference to the policy for use in findings.
func (p PolicyForAnalysis) Ref() PolicyReference {
	return PolicyReference{ID: p.ID, Name: p.Name}
}

// StoredPolicy is the persisted form of a policy in the graph store.
type StoredPolicy struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content"`
	Active      bool   `json:"active"`
	Priority    *int   `json:"priority,omitempty"`
	Version     int    `json:"version"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

// ForAnalysis converts a stored policy into the in-memory analysis form.
func (p StoredPolicy) ForAnalysis() PolicyForAnalysis {
	return PolicyForAnalysis{
		ID:       p.ID,
		Content:  p.Content,
		Name:     p.Name,
		Priority: p.Priority,
	}
}
