// audit/service.go
package audit

import (
	"context"
	"time"
)

type Service interface {
	LogOperation(ctx context.Context, log AuditLog) error
	QueryLogs(ctx context.Context, from, to time.Time, operation, operationID string) ([]AuditLog, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) LogOperation(ctx context.Context, log AuditLog) error {
	return s.repo.LogOperation(ctx, log)
}

func (s *service) QueryLogs(ctx context.Context, from, to time.Time, operation, operationID string) ([]AuditLog, error) {
	return s.repo.QueryLogs(ctx, from, to, operation, operationID)
}
