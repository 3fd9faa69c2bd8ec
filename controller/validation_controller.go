// controller/validation_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	sentra_errors "github.com/sentra-iam/sentra/errors"
	"github.com/sentra-iam/sentra/model"
	"github.com/sentra-iam/sentra/service"
	"github.com/sentra-iam/sentra/util"
)

type ValidationController struct {
	validationService service.IValidationService
}

func NewValidationController(validationService service.IValidationService) *ValidationController {
	return &ValidationController{
		validationService: validationService,
	}
}

// RegisterRoutes registers the API routes
func (vc *ValidationController) RegisterRoutes(r *gin.RouterGroup) {
	policies := r.Group("/policies")
	{
		policies.POST("/validate", vc.ValidatePolicy)
		policies.POST("/validate-batch", vc.ValidateBatch)
	}
}

// ValidatePolicy endpoint
func (vc *ValidationController) ValidatePolicy(c *gin.Context) {
	var req model.ValidatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "validation_error", "Invalid request body", err)
		return
	}

	response, err := vc.validationService.ValidatePolicy(c, req)
	if err != nil {
		if errors.Is(err, sentra_errors.ErrValidationFailed) {
			util.RespondWithErrorDetails(c, http.StatusBadRequest, "validation_error", "Invalid validation request", err.Error())
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to validate policy", err)
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// ValidateBatch endpoint
func (vc *ValidationController) ValidateBatch(c *gin.Context) {
	var req model.ValidateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "validation_error", "Invalid request body", err)
		return
	}

	response, err := vc.validationService.ValidateBatch(c, req)
	if err != nil {
		switch {
		case errors.Is(err, sentra_errors.ErrValidationFailed),
			errors.Is(err, sentra_errors.ErrTooManyPolicies):
			util.RespondWithErrorDetails(c, http.StatusBadRequest, "validation_error", "Invalid validation request", err.Error())
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to validate policy batch", err)
		}
		return
	}

	c.JSON(http.StatusOK, response)
}
