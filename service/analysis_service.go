package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sentra-iam/sentra/analysis"
	"github.com/sentra-iam/sentra/audit"
	"github.com/sentra-iam/sentra/dao"
	sentra_errors "github.com/sentra-iam/sentra/errors"
	logger "github.com/sentra-iam/sentra/logging"
	"github.com/sentra-iam/sentra/model"
	"github.com/sentra-iam/sentra/schema"
	"github.com/sentra-iam/sentra/util"
)

// IAnalysisService defines the conflict and coverage analysis operations
type IAnalysisService interface {
	DetectConflicts(ctx context.Context, req model.DetectConflictsRequest) (*model.DetectConflictsResponse, error)
	AnalyzeCoverage(ctx context.Context, req model.AnalyzeCoverageRequest) (*model.AnalyzeCoverageResponse, error)
	AnalyzeStoredPolicies(ctx context.Context, opts *model.AnalysisOptions) (*model.DetectConflictsResponse, error)
}

// AnalysisService handles business logic for policy set analysis
type AnalysisService struct {
	orchestrator    *analysis.Orchestrator
	registry        *schema.Registry
	policyDAO       *dao.PolicyDAO
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
	auditService    audit.Service
}

// NewAnalysisService creates a new instance of AnalysisService
func NewAnalysisService(
	orchestrator *analysis.Orchestrator,
	registry *schema.Registry,
	policyDAO *dao.PolicyDAO,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	auditService audit.Service,
) *AnalysisService {
	service := &AnalysisService{
		orchestrator:    orchestrator,
		registry:        registry,
		policyDAO:       policyDAO,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
		auditService:    auditService,
	}

	// Set up event subscriptions
	eventBus.Subscribe("policy.analyzed", service.handlePolicyAnalyzed)

	return service
}

func (s *AnalysisService) handlePolicyAnalyzed(ctx context.Context, event util.Event) error {
	response, ok := event.Payload.(model.DetectConflictsResponse)
	if !ok {
		logger.Error("Invalid event payload type", zap.Any("payload", event.Payload))
		return fmt.Errorf("invalid event payload type: %T", event.Payload)
	}

	logger.Info("Policy analyzed event received",
		zap.String("operationID", response.OperationID),
		zap.Bool("hasConflicts", response.HasConflicts))

	if response.HasConflicts {
		if err := s.notificationSvc.NotifyConflictsFound(ctx, response.Analysis.Summary); err != nil {
			logger.Warn("Failed to send conflict notification",
				zap.Error(err),
				zap.String("operationID", response.OperationID))
		}
	}

	return nil
}

// DetectConflicts runs the full conflict analysis pipeline over the
// submitted policy set
func (s *AnalysisService) DetectConflicts(ctx context.Context, req model.DetectConflictsRequest) (*model.DetectConflictsResponse, error) {
	start := time.Now()
	operationID := uuid.New().String()

	conflictAnalysis, metrics, err := s.orchestrator.Execute(ctx, req.Policies, req.Options)
	if err != nil {
		logger.Error("Conflict analysis failed",
			zap.Error(err),
			zap.String("operationID", operationID),
			zap.Int("policyCount", len(req.Policies)))
		return nil, err
	}

	response := &model.DetectConflictsResponse{
		OperationID:  operationID,
		Analysis:     conflictAnalysis,
		Metrics:      metrics,
		HasConflicts: conflictAnalysis.HasFindings(),
	}

	s.recordAnalysisAudit(ctx, operationID, "DETECT_CONFLICTS", len(req.Policies), start, &conflictAnalysis.Summary)

	// Publish event for asynchronous processing
	s.eventBus.Publish(ctx, "policy.analyzed", *response)

	logger.Info("Conflict analysis completed",
		zap.String("operationID", operationID),
		zap.Int("policyCount", len(req.Policies)),
		zap.Bool("hasConflicts", response.HasConflicts))
	return response, nil
}

// AnalyzeCoverage builds a coverage report for the given policies against
// a schema snapshot. Policies may be passed inline, referenced by id, or
// omitted to cover every active stored policy.
func (s *AnalysisService) AnalyzeCoverage(ctx context.Context, req model.AnalyzeCoverageRequest) (*model.AnalyzeCoverageResponse, error) {
	start := time.Now()
	operationID := uuid.New().String()

	policies, err := s.resolvePolicies(ctx, req)
	if err != nil {
		return nil, err
	}

	schemaName := ""
	if req.SchemaVersion != nil {
		schemaName = *req.SchemaVersion
	}
	snapshot, err := s.registry.Load(schemaName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", sentra_errors.ErrSchemaLoadFailed, err)
	}

	analyzer := analysis.NewCoverageAnalyzer(snapshot)
	report := analyzer.Analyze(policies)
	gaps := analyzer.FindGaps(&report)
	suggestions := analyzer.SuggestImprovements(gaps)

	s.recordAnalysisAudit(ctx, operationID, "ANALYZE_COVERAGE", len(policies), start, nil)

	logger.Info("Coverage analysis completed",
		zap.String("operationID", operationID),
		zap.Int("policyCount", len(policies)),
		zap.Float64("coveragePercentage", report.CoveragePercentage),
		zap.Int("gapCount", len(gaps)))
	return &model.AnalyzeCoverageResponse{
		Report:      report,
		Gaps:        gaps,
		Suggestions: suggestions,
	}, nil
}

// AnalyzeStoredPolicies runs conflict analysis over every active policy
// in the store
func (s *AnalysisService) AnalyzeStoredPolicies(ctx context.Context, opts *model.AnalysisOptions) (*model.DetectConflictsResponse, error) {
	stored, err := s.policyDAO.GetAllActivePolicies(ctx)
	if err != nil {
		logger.Error("Failed to load active policies for analysis", zap.Error(err))
		return nil, fmt.Errorf("failed to load active policies: %w", err)
	}

	policies := make([]model.PolicyForAnalysis, len(stored))
	for i, policy := range stored {
		policies[i] = policy.ForAnalysis()
	}

	return s.DetectConflicts(ctx, model.DetectConflictsRequest{Policies: policies, Options: opts})
}

func (s *AnalysisService) resolvePolicies(ctx context.Context, req model.AnalyzeCoverageRequest) ([]model.PolicyForAnalysis, error) {
	if len(req.Policies) > 0 {
		return req.Policies, nil
	}

	var stored []*model.StoredPolicy
	var err error
	if len(req.PolicyIDs) > 0 {
		stored, err = s.policyDAO.GetPoliciesByIDs(ctx, req.PolicyIDs)
	} else {
		stored, err = s.policyDAO.GetAllActivePolicies(ctx)
	}
	if err != nil {
		logger.Error("Failed to load stored policies for coverage", zap.Error(err))
		return nil, fmt.Errorf("failed to load stored policies: %w", err)
	}

	policies := make([]model.PolicyForAnalysis, len(stored))
	for i, policy := range stored {
		policies[i] = policy.ForAnalysis()
	}
	return policies, nil
}

func (s *AnalysisService) recordAnalysisAudit(ctx context.Context, operationID, operation string, policyCount int, start time.Time, summary *model.ConflictSummary) {
	var details json.RawMessage
	if summary != nil {
		details, _ = json.Marshal(summary)
	}
	auditLog := audit.AuditLog{
		Timestamp:   time.Now(),
		OperationID: operationID,
		Operation:   operation,
		PolicyCount: policyCount,
		Success:     true,
		DurationMs:  uint64(time.Since(start).Milliseconds()),
		Details:     details,
	}
	if err := s.auditService.LogOperation(ctx, auditLog); err != nil {
		logger.Error("Failed to create audit log", zap.Error(err))
	}
}
