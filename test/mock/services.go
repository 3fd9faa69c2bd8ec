// test/mock/services.go
package mock

import (
	"context"

	"github.com/sentra-iam/sentra/model"
	"github.com/stretchr/testify/mock"
)

// MockValidationService is a mock implementation of service.IValidationService
type MockValidationService struct {
	mock.Mock
}

func (m *MockValidationService) ValidatePolicy(ctx context.Context, req model.ValidatePolicyRequest) (*model.ValidatePolicyResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ValidatePolicyResponse), args.Error(1)
}

func (m *MockValidationService) ValidateBatch(ctx context.Context, req model.ValidateBatchRequest) (*model.ValidateBatchResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ValidateBatchResponse), args.Error(1)
}

// MockAnalysisService is a mock implementation of service.IAnalysisService
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) DetectConflicts(ctx context.Context, req model.DetectConflictsRequest) (*model.DetectConflictsResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DetectConflictsResponse), args.Error(1)
}

func (m *MockAnalysisService) AnalyzeCoverage(ctx context.Context, req model.AnalyzeCoverageRequest) (*model.AnalyzeCoverageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalyzeCoverageResponse), args.Error(1)
}

func (m *MockAnalysisService) AnalyzeStoredPolicies(ctx context.Context, opts *model.AnalysisOptions) (*model.DetectConflictsResponse, error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DetectConflictsResponse), args.Error(1)
}

// MockPolicyService is a mock implementation of service.IPolicyService
type MockPolicyService struct {
	mock.Mock
}

func (m *MockPolicyService) SavePolicy(ctx context.Context, policy model.StoredPolicy) (*model.StoredPolicy, error) {
	args := m.Called(ctx, policy)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredPolicy), args.Error(1)
}

func (m *MockPolicyService) GetPolicy(ctx context.Context, policyID string) (*model.StoredPolicy, error) {
	args := m.Called(ctx, policyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StoredPolicy), args.Error(1)
}

func (m *MockPolicyService) ListPolicies(ctx context.Context, limit int, offset int) ([]*model.StoredPolicy, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.StoredPolicy), args.Error(1)
}

func (m *MockPolicyService) DeletePolicy(ctx context.Context, policyID string) error {
	args := m.Called(ctx, policyID)
	return args.Error(0)
}
