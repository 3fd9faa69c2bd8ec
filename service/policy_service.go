package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/sentra-iam/sentra/dao"
	sentra_errors "github.com/sentra-iam/sentra/errors"
	logger "github.com/sentra-iam/sentra/logging"
	"github.com/sentra-iam/sentra/model"
	"github.com/sentra-iam/sentra/util"
)

// IPolicyService defines the stored-policy operations
type IPolicyService interface {
	SavePolicy(ctx context.Context, policy model.StoredPolicy) (*model.StoredPolicy, error)
	GetPolicy(ctx context.Context, policyID string) (*model.StoredPolicy, error)
	ListPolicies(ctx context.Context, limit int, offset int) ([]*model.StoredPolicy, error)
	DeletePolicy(ctx context.Context, policyID string) error
}

// PolicyService handles business logic for stored policy operations
type PolicyService struct {
	policyDAO       *dao.PolicyDAO
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

// NewPolicyService creates a new instance of PolicyService
func NewPolicyService(policyDAO *dao.PolicyDAO, validationUtil *util.ValidationUtil, cacheService *util.CacheService, notificationSvc *util.NotificationService, eventBus *util.EventBus) *PolicyService {
	service := &PolicyService{
		policyDAO:       policyDAO,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	// Set up event subscriptions
	eventBus.Subscribe("policy.saved", service.handlePolicySaved)
	eventBus.Subscribe("policy.deleted", service.handlePolicyDeleted)

	return service
}

func (s *PolicyService) handlePolicySaved(ctx context.Context, event util.Event) error {
	policy, ok := event.Payload.(model.StoredPolicy)
	if !ok {
		logger.Error("Invalid event payload type", zap.Any("payload", event.Payload))
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	logger.Info("Policy saved event received", zap.String("policyID", policy.ID))

	if err := s.notificationSvc.NotifyPolicyChange(ctx, "updated", policy); err != nil {
		logger.Warn("Failed to send policy change notification", zap.Error(err), zap.String("policyID", policy.ID))
	}

	return nil
}

func (s *PolicyService) handlePolicyDeleted(ctx context.Context, event util.Event) error {
	policyID, ok := event.Payload.(string)
	if !ok {
		logger.Error("Invalid event payload type", zap.Any("payload", event.Payload))
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	logger.Info("Policy deleted event received", zap.String("policyID", policyID))

	if err := s.notificationSvc.NotifyPolicyChange(ctx, "deleted", model.StoredPolicy{ID: policyID}); err != nil {
		logger.Warn("Failed to send policy deletion notification", zap.Error(err), zap.String("policyID", policyID))
	}

	return nil
}

// SavePolicy creates or updates a stored policy
func (s *PolicyService) SavePolicy(ctx context.Context, policy model.StoredPolicy) (*model.StoredPolicy, error) {
	if err := s.validationUtil.ValidateStoredPolicy(policy); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}

	if policy.Version == 0 {
		policy.Version = 1
	}

	policyID, err := s.policyDAO.UpsertPolicy(ctx, policy)
	if err != nil {
		logger.Error("Error saving policy", zap.Error(err), zap.String("policyID", policy.ID))
		return nil, fmt.Errorf("failed to save policy: %w", err)
	}

	policy.ID = policyID

	// Update cache
	if err := s.cacheService.SetPolicy(ctx, policy); err != nil {
		logger.Warn("Failed to cache policy", zap.Error(err), zap.String("policyID", policyID))
	}

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, "policy.saved", policy)

	logger.Info("Policy saved successfully", zap.String("policyID", policyID))
	return &policy, nil
}

// GetPolicy retrieves a stored policy by its ID
func (s *PolicyService) GetPolicy(ctx context.Context, policyID string) (*model.StoredPolicy, error) {
	// Try to get from cache first
	cachedPolicy, err := s.cacheService.GetPolicy(ctx, policyID)
	if err == nil && cachedPolicy != nil {
		return cachedPolicy, nil
	}

	policy, err := s.policyDAO.GetPolicy(ctx, policyID)
	if err != nil {
		if errors.Is(err, sentra_errors.ErrPolicyNotFound) {
			return nil, sentra_errors.ErrPolicyNotFound
		}
		logger.Error("Error retrieving policy", zap.Error(err), zap.String("policyID", policyID))
		return nil, sentra_errors.ErrInternalServer
	}

	// Update cache
	if err := s.cacheService.SetPolicy(ctx, *policy); err != nil {
		logger.Warn("Failed to cache policy", zap.Error(err), zap.String("policyID", policyID))
	}

	return policy, nil
}

// ListPolicies retrieves all stored policies with pagination
func (s *PolicyService) ListPolicies(ctx context.Context, limit int, offset int) ([]*model.StoredPolicy, error) {
	policies, err := s.policyDAO.ListPolicies(ctx, limit, offset)
	if err != nil {
		logger.Error("Error listing policies", zap.Error(err), zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, fmt.Errorf("failed to list policies: %w", err)
	}

	return policies, nil
}

// DeletePolicy removes a stored policy
func (s *PolicyService) DeletePolicy(ctx context.Context, policyID string) error {
	err := s.policyDAO.DeletePolicy(ctx, policyID)
	if err != nil {
		logger.Error("Error deleting policy", zap.Error(err), zap.String("policyID", policyID))
		return fmt.Errorf("failed to delete policy: %w", err)
	}

	// Remove from cache
	if err := s.cacheService.DeletePolicy(ctx, policyID); err != nil {
		logger.Warn("Failed to delete policy from cache", zap.Error(err), zap.String("policyID", policyID))
	}

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, "policy.deleted", policyID)

	logger.Info("Policy deleted successfully", zap.String("policyID", policyID))
	return nil
}
