// service/services.go
package service

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/sentra-iam/sentra/analysis"
	"github.com/sentra-iam/sentra/audit"
	"github.com/sentra-iam/sentra/dao"
	"github.com/sentra-iam/sentra/schema"
	"github.com/sentra-iam/sentra/util"
	"github.com/sentra-iam/sentra/validation"
)

type Services struct {
	Validation IValidationService
	Analysis   IAnalysisService
	Policy     IPolicyService
	Audit      audit.Service
}

func InitializeServices(
	driver neo4j.Driver,
	registry *schema.Registry,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) (*Services, error) {
	validator := validation.NewValidator(registry)
	orchestrator := analysis.NewDefaultOrchestrator(validator)

	policyDAO := dao.NewPolicyDAO(driver, auditService)

	services := &Services{
		Validation: NewValidationService(validator, orchestrator, validationUtil, cacheService, notificationSvc, eventBus, auditService),
		Analysis:   NewAnalysisService(orchestrator, registry, policyDAO, notificationSvc, eventBus, auditService),
		Policy:     NewPolicyService(policyDAO, validationUtil, cacheService, notificationSvc, eventBus),
		Audit:      auditService,
	}

	return services, nil
}
