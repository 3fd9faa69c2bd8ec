// controller/controllers.go
package controller

import (
	"github.com/sentra-iam/sentra/schema"
	"github.com/sentra-iam/sentra/service"
)

type Controllers struct {
	Validation *ValidationController
	Analysis   *AnalysisController
	Policy     *PolicyController
	Audit      *AuditController
	Health     *HealthController
}

func InitializeControllers(services *service.Services, registry *schema.Registry) *Controllers {
	return &Controllers{
		Validation: NewValidationController(services.Validation),
		Analysis:   NewAnalysisController(services.Analysis),
		Policy:     NewPolicyController(services.Policy),
		Audit:      NewAuditController(services.Audit),
		Health:     NewHealthController(registry),
	}
}
