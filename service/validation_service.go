package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sentra-iam/sentra/analysis"
	"github.com/sentra-iam/sentra/audit"
	sentra_errors "github.com/sentra-iam/sentra/errors"
	logger "github.com/sentra-iam/sentra/logging"
	"github.com/sentra-iam/sentra/model"
	"github.com/sentra-iam/sentra/util"
	"github.com/sentra-iam/sentra/validation"
)

// IValidationService defines the validation operations exposed over HTTP
type IValidationService interface {
	ValidatePolicy(ctx context.Context, req model.ValidatePolicyRequest) (*model.ValidatePolicyResponse, error)
	ValidateBatch(ctx context.Context, req model.ValidateBatchRequest) (*model.ValidateBatchResponse, error)
}

// ValidationService handles business logic for policy validation
type ValidationService struct {
	validator       *validation.Validator
	orchestrator    *analysis.Orchestrator
	validationUtil  *util.ValidationUtil
	cacheService    *util.CacheService
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	auditService    audit.Service
}

// NewValidationService creates a new instance of ValidationService
func NewValidationService(
	validator *validation.Validator,
	orchestrator *analysis.Orchestrator,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	auditService audit.Service,
) *ValidationService {
	service := &ValidationService{
		validator:       validator,
		orchestrator:    orchestrator,
		validationUtil:  validationUtil,
		cacheService:    cacheService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		auditService:    auditService,
	}

	// Set up event subscriptions
	eventBus.Subscribe("policy.validated", service.handlePolicyValidated)

	return service
}

func (s *ValidationService) handlePolicyValidated(ctx context.Context, event util.Event) error {
	response, ok := event.Payload.(model.ValidatePolicyResponse)
	if !ok {
		logger.Error("Invalid event payload type", zap.Any("payload", event.Payload))
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	logger.Info("Policy validated event received",
		zap.String("validationID", response.ValidationID),
		zap.Bool("isValid", response.IsValid))

	if !response.IsValid {
		errorCount := len(response.Result.SyntaxErrors) +
			len(response.Result.SemanticErrors) +
			len(response.Result.HrnErrors)
		if err := s.notificationSvc.NotifyValidationFailure(ctx, response.ValidationID, errorCount); err != nil {
			logger.Warn("Failed to send validation failure notification",
				zap.Error(err),
				zap.String("validationID", response.ValidationID))
		}
	}

	return nil
}

// ValidatePolicy validates a single policy document
func (s *ValidationService) ValidatePolicy(ctx context.Context, req model.ValidatePolicyRequest) (*model.ValidatePolicyResponse, error) {
	start := time.Now()
	validationID := uuid.New().String()

	if err := s.validationUtil.ValidatePolicyContent(req.Content); err != nil {
		return nil, fmt.Errorf("%w: %v", sentra_errors.ErrValidationFailed, err)
	}

	schemaName := req.Options.SchemaName()

	// Try the cache first
	cached, err := s.cacheService.GetValidationResult(ctx, req.Content, schemaName)
	if err != nil {
		logger.Warn("Failed to read validation result cache", zap.Error(err))
	}
	if cached != nil {
		logger.Info("Validation result served from cache", zap.String("validationID", validationID))
		return &model.ValidatePolicyResponse{
			ValidationID: validationID,
			IsValid:      cached.IsValid,
			Result:       *cached,
			Cached:       true,
		}, nil
	}

	result, metrics, err := s.validator.Validate(ctx, req.Content, req.Options)
	if err != nil {
		logger.Error("Validation pipeline failed", zap.Error(err), zap.String("validationID", validationID))
		return nil, err
	}

	if err := s.cacheService.SetValidationResult(ctx, req.Content, schemaName, &result); err != nil {
		logger.Warn("Failed to cache validation result", zap.Error(err), zap.String("validationID", validationID))
	}

	response := &model.ValidatePolicyResponse{
		ValidationID: validationID,
		IsValid:      result.IsValid,
		Result:       result,
		Metrics:      metrics,
	}

	s.recordValidationAudit(ctx, validationID, "VALIDATE_POLICY", req.RequestedBy, 1, result.IsValid, start, result.SchemaInfo)

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, "policy.validated", *response)

	logger.Info("Policy validated successfully",
		zap.String("validationID", validationID),
		zap.Bool("isValid", result.IsValid))
	return response, nil
}

// ValidateBatch validates a set of policies and, when deep validation is
// requested, also runs the cross-policy conflict analysis over the set
func (s *ValidationService) ValidateBatch(ctx context.Context, req model.ValidateBatchRequest) (*model.ValidateBatchResponse, error) {
	start := time.Now()
	validationID := uuid.New().String()

	if err := s.validationUtil.ValidatePolicyBatch(req.Policies); err != nil {
		return nil, fmt.Errorf("%w: %v", sentra_errors.ErrValidationFailed, err)
	}

	entries := make([]model.BatchValidationEntry, len(req.Policies))

	g, gctx := errgroup.WithContext(ctx)

	// Limit concurrency to avoid overwhelming the system
	semaphore := make(chan struct{}, 10)

	for i, policy := range req.Policies {
		i, policy := i, policy
		g.Go(func() error {
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			result, _, err := s.validator.Validate(gctx, policy.Content, req.Options)
			if err != nil {
				return fmt.Errorf("policy %q: %w", policy.ID, err)
			}
			entries[i] = model.BatchValidationEntry{
				PolicyID: policy.ID,
				IsValid:  result.IsValid,
				Result:   result,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Error in batch validation", zap.Error(err), zap.String("validationID", validationID))
		return nil, fmt.Errorf("failed to validate policy batch: %w", err)
	}

	allValid := true
	for _, entry := range entries {
		if !entry.IsValid {
			allValid = false
			break
		}
	}

	response := &model.ValidateBatchResponse{
		ValidationID: validationID,
		Results:      entries,
		AllValid:     allValid,
	}

	if req.Options.DeepValidationEnabled() {
		crossAnalysis, _, err := s.orchestrator.Execute(ctx, req.Policies, nil)
		if err != nil {
			logger.Error("Cross-policy analysis failed", zap.Error(err), zap.String("validationID", validationID))
			return nil, fmt.Errorf("cross-policy analysis failed: %w", err)
		}
		response.CrossPolicyAnalysis = &crossAnalysis
	}

	response.TotalDurationMs = uint64(time.Since(start).Milliseconds())

	s.recordValidationAudit(ctx, validationID, "VALIDATE_BATCH", req.RequestedBy, len(req.Policies), allValid, start, nil)

	logger.Info("Policy batch validated successfully",
		zap.String("validationID", validationID),
		zap.Int("count", len(req.Policies)),
		zap.Bool("allValid", allValid))
	return response, nil
}

func (s *ValidationService) recordValidationAudit(ctx context.Context, operationID, operation, requestedBy string, policyCount int, success bool, start time.Time, info *model.SchemaInfo) {
	schemaID := ""
	if info != nil {
		schemaID = info.SchemaID
	}
	details, _ := json.Marshal(map[string]interface{}{"valid": success})
	auditLog := audit.AuditLog{
		Timestamp:   time.Now(),
		OperationID: operationID,
		Operation:   operation,
		RequestedBy: requestedBy,
		SchemaID:    schemaID,
		PolicyCount: policyCount,
		Success:     success,
		DurationMs:  uint64(time.Since(start).Milliseconds()),
		Details:     details,
	}
	if err := s.auditService.LogOperation(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}
