// util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/sentra-iam/sentra/logging"
	"github.com/sentra-iam/sentra/model"
)

type NotificationService struct {
	// You might want to add dependencies here, such as a message queue client
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyPolicyChange(ctx context.Context, changeType string, policy model.StoredPolicy) error {
	// In a real implementation, you might send this to a message queue or external notification service
	switch changeType {
	case "created":
		logger.Info("NOTIFICATION: New policy created",
			zap.String("policyID", policy.ID),
			zap.String("policyName", policy.Name))
	case "updated":
		logger.Info("NOTIFICATION: Policy updated",
			zap.String("policyID", policy.ID),
			zap.String("policyName", policy.Name))
	case "deleted":
		logger.Info("NOTIFICATION: Policy deleted",
			zap.String("policyID", policy.ID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}

	return nil
}

// NotifyValidationFailure flags a policy that failed validation.
func (n *NotificationService) NotifyValidationFailure(ctx context.Context, policyID string, errorCount int) error {
	logger.Info("NOTIFICATION: Policy failed validation",
		zap.String("policyID", policyID),
		zap.Int("errorCount", errorCount))
	return nil
}

// NotifyConflictsFound flags an analysis run that produced findings.
func (n *NotificationService) NotifyConflictsFound(ctx context.Context, summary model.ConflictSummary) error {
	logger.Info("NOTIFICATION: Policy conflicts detected",
		zap.Int("totalConflicts", summary.TotalConflicts),
		zap.Int("totalRedundancies", summary.TotalRedundancies),
		zap.Int("totalUnreachable", summary.TotalUnreachable),
		zap.Float64("conflictScore", summary.ConflictScore))
	return nil
}

func (n *NotificationService) NotifyAdmins(ctx context.Context, message string) error {
	// Logic to notify all system administrators
	logger.Info("Notifying admins", zap.String("message", message))
	return nil
}

func (n *NotificationService) SendEmail(ctx context.Context, recipient, subject, body string) error {
	// Mock email sending
	logger.Info("Sending email",
		zap.String("recipient", recipient),
		zap.String("subject", subject))

	return nil
}
