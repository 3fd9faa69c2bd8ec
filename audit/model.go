// audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

// AuditLog records one validation or analysis operation.
type AuditLog struct {
	Timestamp   time.Time       `json:"timestamp"`
	OperationID string          `json:"operation_id"`
	Operation   string          `json:"operation"`
	RequestedBy string          `json:"requested_by,omitempty"`
	SchemaID    string          `json:"schema_id,omitempty"`
	PolicyCount int             `json:"policy_count"`
	Success     bool            `json:"success"`
	DurationMs  uint64          `json:"duration_ms"`
	Details     json.RawMessage `json:"details,omitempty"`
}
