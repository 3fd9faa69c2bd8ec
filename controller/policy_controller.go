// controller/policy_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	sentra_errors "github.com/sentra-iam/sentra/errors"
	"github.com/sentra-iam/sentra/model"
	"github.com/sentra-iam/sentra/service"
	"github.com/sentra-iam/sentra/util"
	helper_util "github.com/sentra-iam/sentra/util/helper"
)

type PolicyController struct {
	policyService service.IPolicyService
}

func NewPolicyController(policyService service.IPolicyService) *PolicyController {
	return &PolicyController{
		policyService: policyService,
	}
}

// RegisterRoutes registers the API routes
func (pc *PolicyController) RegisterRoutes(r *gin.RouterGroup) {
	policies := r.Group("/policies")
	{
		policies.PUT("/:id", pc.SavePolicy)
		policies.DELETE("/:id", pc.DeletePolicy)
		policies.GET("/:id", pc.GetPolicy)
		policies.GET("", pc.ListPolicies)
	}
}

// SavePolicy endpoint
func (pc *PolicyController) SavePolicy(c *gin.Context) {
	policyID := c.Param("id")
	var policy model.StoredPolicy
	if err := c.ShouldBindJSON(&policy); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "validation_error", "Invalid policy data", sentra_errors.ErrInvalidPolicyData)
		return
	}
	policy.ID = policyID

	savedPolicy, err := pc.policyService.SavePolicy(c, policy)
	if err != nil {
		switch {
		case errors.Is(err, sentra_errors.ErrDatabaseOperation):
			util.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Database operation failed", err)
		case errors.Is(err, sentra_errors.ErrValidationFailed):
			util.RespondWithError(c, http.StatusBadRequest, "validation_error", "Invalid policy data", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to save policy", err)
		}
		return
	}

	c.JSON(http.StatusOK, savedPolicy)
}

// DeletePolicy endpoint
func (pc *PolicyController) DeletePolicy(c *gin.Context) {
	policyID := c.Param("id")

	if err := pc.policyService.DeletePolicy(c, policyID); err != nil {
		if errors.Is(err, sentra_errors.ErrPolicyNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "not_found", "Policy not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to delete policy", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetPolicy endpoint
func (pc *PolicyController) GetPolicy(c *gin.Context) {
	policyID := c.Param("id")

	policy, err := pc.policyService.GetPolicy(c, policyID)
	if err != nil {
		if errors.Is(err, sentra_errors.ErrPolicyNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "not_found", "Policy not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to retrieve policy", err)
		}
		return
	}

	c.JSON(http.StatusOK, policy)
}

// ListPolicies endpoint
func (pc *PolicyController) ListPolicies(c *gin.Context) {
	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "validation_error", "Invalid pagination parameters", err)
		return
	}

	policies, err := pc.policyService.ListPolicies(c, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to list policies", err)
		return
	}

	c.JSON(http.StatusOK, policies)
}
