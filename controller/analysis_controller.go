// controller/analysis_controller.go
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

type AnalysisController struct {
	analysisService service.IAnalysisService
}

func NewAnalysisController(analysisService service.IAnalysisService) *AnalysisController {
	return &AnalysisController{
		analysisService: analysisService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AnalysisController) RegisterRoutes(r *gin.RouterGroup) {
	policies := r.Group("/policies")
	{
		policies.POST("/detect-conflicts", ac.DetectConflicts)
		policies.POST("/coverage", ac.AnalyzeCoverage)
		policies.POST("/analyze-stored", ac.AnalyzeStoredPolicies)
	}
}

// DetectConflicts endpoint
func (ac *AnalysisController) DetectConflicts(c *gin.Context) {
	var req model.DetectConflictsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "validation_error", "Invalid request body", err)
		return
	}

	response, err := ac.analysisService.DetectConflicts(c, req)
	if err != nil {
		switch {
		case errors.Is(err, sentra_errors.ErrValidationFailed),
			errors.Is(err, sentra_errors.ErrTooManyPolicies):
			util.RespondWithErrorDetails(c, http.StatusBadRequest, "validation_error", "Invalid analysis request", err.Error())
		case errors.Is(err, sentra_errors.ErrThresholdExceeded):
			util.RespondWithErrorDetails(c, http.StatusInternalServerError, "threshold_exceeded", "Analysis exceeded performance thresholds", err.Error())
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to analyze policies", err)
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// AnalyzeCoverage endpoint
func (ac *AnalysisController) AnalyzeCoverage(c *gin.Context) {
	var req model.AnalyzeCoverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "validation_error", "Invalid request body", err)
		return
	}

	response, err := ac.analysisService.AnalyzeCoverage(c, req)
	if err != nil {
		switch {
		case errors.Is(err, sentra_errors.ErrPolicyNotFound):
			util.RespondWithError(c, http.StatusNotFound, "not_found", "Policy not found", err)
		case errors.Is(err, sentra_errors.ErrSchemaLoadFailed):
			util.RespondWithError(c, http.StatusInternalServerError, "schema_error", "Failed to load schema", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to analyze coverage", err)
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// AnalyzeStoredPolicies endpoint
func (ac *AnalysisController) AnalyzeStoredPolicies(c *gin.Context) {
	var opts *model.AnalysisOptions
	if c.Request.ContentLength > 0 {
		opts = &model.AnalysisOptions{}
		if err := c.ShouldBindJSON(opts); err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "validation_error", "Invalid request body", err)
			return
		}
	}

	response, err := ac.analysisService.AnalyzeStoredPolicies(c, opts)
	if err != nil {
		switch {
		case errors.Is(err, sentra_errors.ErrValidationFailed),
			errors.Is(err, sentra_errors.ErrTooManyPolicies):
			util.RespondWithErrorDetails(c, http.StatusBadRequest, "validation_error", "Invalid analysis request", err.Error())
		case errors.Is(err, sentra_errors.ErrThresholdExceeded):
			util.RespondWithErrorDetails(c, http.StatusInternalServerError, "threshold_exceeded", "Analysis exceeded performance thresholds", err.Error())
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "internal_error", "Failed to analyze stored policies", err)
		}
		return
	}

	c.JSON(http.StatusOK, response)
}
