// util/cache_service.go

package util

import (
	"context"

	"github.com/sentra-iam/sentra/db"
	"github.com/sentra-iam/sentra/model"
)

type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetPolicy(ctx context.Context, policyID string) (*model.StoredPolicy, error) {
	return db.GetCachedPolicy(ctx, policyID)
}

func (c *CacheService) SetPolicy(ctx context.Context, policy model.StoredPolicy) error {
	return db.CachePolicy(ctx, &policy)
}

func (c *CacheService) DeletePolicy(ctx context.Context, policyID string) error {
	return db.DeleteCachedPolicy(ctx, policyID)
}

func (c *CacheService) GetValidationResult(ctx context.Context, content, schemaName string) (*model.PolicyValidationResult, error) {
	return db.GetCachedValidationResult(ctx, db.ValidationCacheKey(content, schemaName))
}

func (c *CacheService) SetValidationResult(ctx context.Context, content, schemaName string, result *model.PolicyValidationResult) error {
	return db.CacheValidationResult(ctx, db.ValidationCacheKey(content, schemaName), result)
}

func (c *CacheService) DeleteValidationResult(ctx context.Context, content, schemaName string) error {
	return db.DeleteCachedValidationResult(ctx, db.ValidationCacheKey(content, schemaName))
}
