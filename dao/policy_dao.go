// dao/policy_dao.go
package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/sentra-iam/sentra/audit"
	sentra_errors "github.com/sentra-iam/sentra/errors"
	logger "github.com/sentra-iam/sentra/logging"
	"github.com/sentra-iam/sentra/model"
	helper_util "github.com/sentra-iam/sentra/util/helper"
)

type PolicyDAO struct {
	Driver       neo4j.Driver
	AuditService audit.Service
}

func NewPolicyDAO(driver neo4j.Driver, auditService audit.Service) *PolicyDAO {
	dao := &PolicyDAO{Driver: driver, AuditService: auditService}
	// Ensure unique constraint on Policy ID
	ctx := context.Background()
	if err := dao.EnsureUniqueConstraint(ctx); err != nil {
		logger.Fatal("Failed to ensure unique constraint", zap.Error(err))
	}
	return dao
}

// EnsureUniqueConstraint ensures the unique constraint on the Policy ID
func (dao *PolicyDAO) EnsureUniqueConstraint(ctx context.Context) error {
	logger.Info("Ensuring unique constraint on Policy ID")
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		if err := session.Close(); err != nil {
			logger.Error("Failed to close Neo4j session", zap.Error(err))
		}
	}()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        CREATE CONSTRAINT unique_policy_id IF NOT EXISTS
        FOR (p:POLICY) REQUIRE p.id IS UNIQUE
        `
		_, err := transaction.Run(query, nil)
		if err != nil {
			logger.Error("Failed to create unique constraint", zap.Error(err))
			return nil, fmt.Errorf("failed to create unique constraint: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to ensure unique constraint on Policy ID", zap.Error(err))
		return err
	}

	logger.Info("Successfully ensured unique constraint on Policy ID")
	return nil
}

// UpsertPolicy creates or replaces a policy node in Neo4j
func (dao *PolicyDAO) UpsertPolicy(ctx context.Context, policy model.StoredPolicy) (string, error) {
	start := time.Now()
	logger.Info("Upserting policy", zap.String("policyName", policy.Name))
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	if policy.ID == "" {
		policy.ID = uuid.New().String() // Generate a new UUID if ID is not provided
	}
	now := time.Now().Format(time.RFC3339)
	if policy.CreatedAt == "" {
		policy.CreatedAt = now
	}
	policy.UpdatedAt = now

	result, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
            MERGE (p:POLICY {id: $id})
            ON CREATE SET p += $props
            ON MATCH SET p += $props
            RETURN p.id as id
        `
		props := map[string]interface{}{
			"name":        policy.Name,
			"description": policy.Description,
			"content":     policy.Content,
			"active":      policy.Active,
			"version":     policy.Version,
			"createdAt":   policy.CreatedAt,
			"updatedAt":   policy.UpdatedAt,
		}
		if policy.Priority != nil {
			props["priority"] = *policy.Priority
		}
		parameters := map[string]interface{}{
			"id":    policy.ID,
			"props": props,
		}
		upsertResult, err := transaction.Run(query, parameters)
		if err != nil {
			return nil, sentra_errors.ErrDatabaseOperation
		}
		if upsertResult.Next() {
			id, found := upsertResult.Record().Get("id")
			if !found {
				return nil, sentra_errors.ErrInternalServer
			}
			return id, nil
		}
		return nil, sentra_errors.ErrInternalServer
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to upsert policy",
			zap.Error(err),
			zap.String("policyName", policy.Name),
			zap.Duration("duration", duration))
		return "", err
	}

	policyID := fmt.Sprintf("%v", result)
	logger.Info("Policy upserted successfully",
		zap.String("policyID", policyID),
		zap.Duration("duration", duration))

	// Audit trail
	details, _ := json.Marshal(map[string]string{"policy_id": policyID, "name": policy.Name})
	auditLog := audit.AuditLog{
		Timestamp:   time.Now(),
		OperationID: uuid.New().String(),
		Operation:   "UPSERT_POLICY",
		PolicyCount: 1,
		Success:     true,
		DurationMs:  uint64(duration.Milliseconds()),
		Details:     details,
	}
	if err := dao.AuditService.LogOperation(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
	return policyID, nil
}

// GetPolicy retrieves a policy from Neo4j by its ID
func (dao *PolicyDAO) GetPolicy(ctx context.Context, policyID string) (*model.StoredPolicy, error) {
	start := time.Now()
	logger.Info("Retrieving policy", zap.String("policyID", policyID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (p:POLICY {id: $id})
    RETURN p
    `
	result, err := session.Run(query, map[string]interface{}{"id": policyID})
	if err != nil {
		logger.Error("Failed to execute get policy query",
			zap.Error(err),
			zap.String("policyID", policyID),
			zap.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to execute get policy query: %w", err)
	}

	if result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		policy, err := mapNodeToPolicy(node)
		if err != nil {
			logger.Error("Failed to map policy node to struct",
				zap.Error(err),
				zap.String("policyID", policyID),
				zap.Duration("duration", time.Since(start)))
			return nil, fmt.Errorf("failed to map policy node to struct: %w", err)
		}
		logger.Info("Policy retrieved successfully",
			zap.String("policyID", policyID),
			zap.Duration("duration", time.Since(start)))
		return policy, nil
	}

	logger.Warn("Policy not found",
		zap.String("policyID", policyID),
		zap.Duration("duration", time.Since(start)))
	return nil, sentra_errors.ErrPolicyNotFound
}

// GetPoliciesByIDs retrieves the given policies, preserving request order
func (dao *PolicyDAO) GetPoliciesByIDs(ctx context.Context, policyIDs []string) ([]*model.StoredPolicy, error) {
	start := time.Now()
	logger.Info("Retrieving policies by ids", zap.Int("count", len(policyIDs)))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (p:POLICY)
    WHERE p.id IN $ids
    RETURN p
    `
	result, err := session.Run(query, map[string]interface{}{"ids": policyIDs})
	if err != nil {
		logger.Error("Failed to execute get policies query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to execute get policies query: %w", err)
	}

	byID := make(map[string]*model.StoredPolicy, len(policyIDs))
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		policy, err := mapNodeToPolicy(node)
		if err != nil {
			return nil, fmt.Errorf("failed to map policy node to struct: %w", err)
		}
		byID[policy.ID] = policy
	}

	policies := make([]*model.StoredPolicy, 0, len(policyIDs))
	for _, id := range policyIDs {
		policy, ok := byID[id]
		if !ok {
			logger.Warn("Policy not found", zap.String("policyID", id))
			return nil, sentra_errors.ErrPolicyNotFound
		}
		policies = append(policies, policy)
	}

	logger.Info("Policies retrieved successfully",
		zap.Int("count", len(policies)),
		zap.Duration("duration", time.Since(start)))
	return policies, nil
}

// GetAllActivePolicies retrieves every active policy ordered by priority
func (dao *PolicyDAO) GetAllActivePolicies(ctx context.Context) ([]*model.StoredPolicy, error) {
	start := time.Now()
	logger.Info("Retrieving all active policies")

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (p:POLICY {active: true})
    RETURN p
    ORDER BY coalesce(p.priority, 0) DESC, p.createdAt ASC
    `
	result, err := session.Run(query, nil)
	if err != nil {
		logger.Error("Failed to execute active policies query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to execute active policies query: %w", err)
	}

	var policies []*model.StoredPolicy
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		policy, err := mapNodeToPolicy(node)
		if err != nil {
			return nil, fmt.Errorf("failed to map policy node to struct: %w", err)
		}
		policies = append(policies, policy)
	}

	logger.Info("Active policies retrieved successfully",
		zap.Int("count", len(policies)),
		zap.Duration("duration", time.Since(start)))
	return policies, nil
}

// ListPolicies retrieves all policies from Neo4j with pagination
func (dao *PolicyDAO) ListPolicies(ctx context.Context, limit int, offset int) ([]*model.StoredPolicy, error) {
	start := time.Now()
	logger.Info("Listing policies", zap.Int("limit", limit), zap.Int("offset", offset))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	query := `
    MATCH (p:POLICY)
    RETURN p
    ORDER BY p.createdAt DESC
    SKIP $offset
    LIMIT $limit
    `
	result, err := session.Run(query, map[string]interface{}{
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		logger.Error("Failed to execute list policies query",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("failed to execute list policies query: %w", err)
	}

	var policies []*model.StoredPolicy
	for result.Next() {
		node := result.Record().Values[0].(neo4j.Node)
		policy, err := mapNodeToPolicy(node)
		if err != nil {
			logger.Error("Failed to map policy node to struct",
				zap.Error(err),
				zap.Duration("duration", time.Since(start)))
			return nil, fmt.Errorf("failed to map policy node to struct: %w", err)
		}
		policies = append(policies, policy)
	}

	logger.Info("Policies listed successfully",
		zap.Int("count", len(policies)),
		zap.Duration("duration", time.Since(start)))

	return policies, nil
}

// DeletePolicy deletes a policy from Neo4j
func (dao *PolicyDAO) DeletePolicy(ctx context.Context, policyID string) error {
	start := time.Now()
	logger.Info("Deleting policy", zap.String("policyID", policyID))

	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (p:POLICY {id: $id})
        DETACH DELETE p
        `
		result, err := transaction.Run(query, map[string]interface{}{"id": policyID})
		if err != nil {
			return nil, fmt.Errorf("failed to execute delete query: %w", err)
		}
		summary, err := result.Consume()
		if err != nil {
			return nil, fmt.Errorf("failed to consume delete result: %w", err)
		}
		if summary.Counters().NodesDeleted() == 0 {
			return nil, sentra_errors.ErrPolicyNotFound
		}
		return nil, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to delete policy",
			zap.Error(err),
			zap.String("policyID", policyID),
			zap.Duration("duration", duration))
		return fmt.Errorf("failed to delete policy: %w", err)
	}

	logger.Info("Policy deleted successfully",
		zap.String("policyID", policyID),
		zap.Duration("duration", duration))

	// Audit trail
	details, _ := json.Marshal(map[string]string{"policy_id": policyID})
	auditLog := audit.AuditLog{
		Timestamp:   time.Now(),
		OperationID: uuid.New().String(),
		Operation:   "DELETE_POLICY",
		PolicyCount: 1,
		Success:     true,
		DurationMs:  uint64(duration.Milliseconds()),
		Details:     details,
	}
	if err := dao.AuditService.LogOperation(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}

	return nil
}

// Helper function to map Neo4j Node to StoredPolicy struct
func mapNodeToPolicy(node neo4j.Node) (*model.StoredPolicy, error) {
	props := node.Props
	policy := &model.StoredPolicy{}

	// ID
	if id, ok := props["id"].(string); ok {
		policy.ID = id
	} else {
		return nil, fmt.Errorf("failed to assert type for policy ID: %v", props["id"])
	}

	// Name
	if name, ok := props["name"].(string); ok {
		policy.Name = name
	} else {
		return nil, fmt.Errorf("failed to assert type for policy name: %v", props["name"])
	}

	// Description
	if description, ok := props["description"].(string); ok {
		policy.Description = description
	}

	// Content
	if content, ok := props["content"].(string); ok {
		policy.Content = content
	} else {
		return nil, fmt.Errorf("failed to assert type for policy content: %v", props["content"])
	}

	// Active
	if active, ok := props["active"].(bool); ok {
		policy.Active = active
	} else {
		return nil, fmt.Errorf("failed to assert type for policy active: %v", props["active"])
	}

	// Priority
	if priority, ok := props["priority"].(int64); ok {
		p := int(priority)
		policy.Priority = &p
	}

	// Version
	if version, ok := props["version"].(int64); ok {
		policy.Version = int(version)
	} else {
		return nil, fmt.Errorf("failed to assert type for policy version: %v", props["version"])
	}

	// Timestamps may come back as strings or native temporal values
	if createdAt, err := helper_util.ParseNullableTime(props["createdAt"]); err == nil && createdAt != nil {
		policy.CreatedAt = createdAt.Format(time.RFC3339)
	}
	if updatedAt, err := helper_util.ParseNullableTime(props["updatedAt"]); err == nil && updatedAt != nil {
		policy.UpdatedAt = updatedAt.Format(time.RFC3339)
	}

	return policy, nil
}
