// controller/analysis_controller_test.go
package controller_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sentra-iam/sentra/controller"
	sentra_errors "github.com/sentra-iam/sentra/errors"
	"github.com/sentra-iam/sentra/model"
	service_mock "github.com/sentra-iam/sentra/test/mock"
)

func TestAnalysisController(t *testing.T) {
	mockService := new(service_mock.MockAnalysisService)
	ac := controller.NewAnalysisController(mockService)
	router := setupRouter(ac.RegisterRoutes)

	t.Run("DetectConflicts_Success", func(t *testing.T) {
		mockService.On("DetectConflicts", mock.Anything, mock.Anything).
			Return(&model.DetectConflictsResponse{
				OperationID:  "op-1",
				HasConflicts: true,
				Analysis: model.ConflictAnalysis{
					Conflicts: []model.PolicyConflict{{
						ConflictType:     model.DirectContradiction,
						InvolvedPolicies: []model.PolicyReference{{ID: "p1"}, {ID: "p2"}},
						Severity:         model.SeverityHigh,
					}},
				},
			}, nil).Once()

		body := strings.NewReader(`{"policies":[{"id":"p1","content":"permit (principal, action, resource);"},{"id":"p2","content":"forbid (principal, action, resource);"}]}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/policies/detect-conflicts", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp model.DetectConflictsResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.HasConflicts)
		assert.Len(t, resp.Analysis.Conflicts, 1)
	})

	t.Run("DetectConflicts_MalformedBody", func(t *testing.T) {
		body := strings.NewReader(`{"policies": [`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/policies/detect-conflicts", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DetectConflicts_Failure_EmptyBatch", func(t *testing.T) {
		mockService.On("DetectConflicts", mock.Anything, mock.Anything).
			Return(nil, sentra_errors.ErrValidationFailed).Once()

		body := strings.NewReader(`{"policies":[]}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/policies/detect-conflicts", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_error", decodeError(t, w).Error)
	})

	t.Run("DetectConflicts_Failure_ThresholdExceeded", func(t *testing.T) {
		mockService.On("DetectConflicts", mock.Anything, mock.Anything).
			Return(nil, sentra_errors.ErrThresholdExceeded).Once()

		body := strings.NewReader(`{"policies":[{"id":"p1","content":"permit (principal, action, resource);"}]}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/policies/detect-conflicts", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "threshold_exceeded", decodeError(t, w).Error)
	})

	t.Run("AnalyzeCoverage_Success", func(t *testing.T) {
		mockService.On("AnalyzeCoverage", mock.Anything, mock.Anything).
			Return(&model.AnalyzeCoverageResponse{
				Report: model.CoverageReport{TotalEntities: 8, CoveredEntities: 2},
				Gaps: []model.CoverageGap{{
					GapType:    model.UncoveredAction,
					ActionName: "delete",
					Severity:   model.GapSeverityHigh,
				}},
			}, nil).Once()

		body := strings.NewReader(`{"policies":[{"id":"p1","content":"permit (principal, action, resource);"}]}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/policies/coverage", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp model.AnalyzeCoverageResponse
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 8, resp.Report.TotalEntities)
		assert.Len(t, resp.Gaps, 1)
	})

	t.Run("AnalyzeCoverage_Failure_UnknownPolicyID", func(t *testing.T) {
		mockService.On("AnalyzeCoverage", mock.Anything, mock.Anything).
			Return(nil, sentra_errors.ErrPolicyNotFound).Once()

		body := strings.NewReader(`{"policy_ids":["ghost"]}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/policies/coverage", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decodeError(t, w).Error)
	})

	t.Run("AnalyzeCoverage_Failure_SchemaLoad", func(t *testing.T) {
		mockService.On("AnalyzeCoverage", mock.Anything, mock.Anything).
			Return(nil, sentra_errors.ErrSchemaLoadFailed).Once()

		body := strings.NewReader(`{"schema_version":"broken"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/policies/coverage", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "schema_error", decodeError(t, w).Error)
	})

	t.Run("AnalyzeStoredPolicies_NoBody", func(t *testing.T) {
		mockService.On("AnalyzeStoredPolicies", mock.Anything, (*model.AnalysisOptions)(nil)).
			Return(&model.DetectConflictsResponse{OperationID: "op-2"}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/policies/analyze-stored", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("AnalyzeStoredPolicies_WithOptions", func(t *testing.T) {
		mockService.On("AnalyzeStoredPolicies", mock.Anything, mock.MatchedBy(func(opts *model.AnalysisOptions) bool {
			return opts != nil && !opts.RedundanciesEnabled()
		})).Return(&model.DetectConflictsResponse{OperationID: "op-3"}, nil).Once()

		body := strings.NewReader(`{"detect_redundancies":false}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/policies/analyze-stored", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("AnalyzeStoredPolicies_Failure_TooMany", func(t *testing.T) {
		mockService.On("AnalyzeStoredPolicies", mock.Anything, (*model.AnalysisOptions)(nil)).
			Return(nil, sentra_errors.ErrTooManyPolicies).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/policies/analyze-stored", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_error", decodeError(t, w).Error)
	})

	mockService.AssertExpectations(t)
}
