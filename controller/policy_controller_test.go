// controller/policy_controller_test.go
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

func TestPolicyController(t *testing.T) {
	mockService := new(service_mock.MockPolicyService)
	pc := controller.NewPolicyController(mockService)
	router := setupRouter(pc.RegisterRoutes)

	t.Run("SavePolicy_Success", func(t *testing.T) {
		mockService.On("SavePolicy", mock.Anything, mock.MatchedBy(func(policy model.StoredPolicy) bool {
			// The path id always wins over the body id
			return policy.ID == "p1" && policy.Name == "allow-read"
		})).Return(&model.StoredPolicy{ID: "p1", Name: "allow-read", Version: 1}, nil).Once()

		body := strings.NewReader(`{"id":"ignored","name":"allow-read","content":"permit (principal, action, resource);","active":true}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/policies/p1", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var saved model.StoredPolicy
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
		assert.Equal(t, "p1", saved.ID)
		assert.Equal(t, 1, saved.Version)
	})

	t.Run("SavePolicy_Failure_Validation", func(t *testing.T) {
		mockService.On("SavePolicy", mock.Anything, mock.Anything).
			Return(nil, sentra_errors.ErrValidationFailed).Once()

		body := strings.NewReader(`{"name":"","content":""}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/policies/p1", body)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_error", decodeError(t, w).Error)
	})

	t.Run("GetPolicy_Success", func(t *testing.T) {
		mockService.On("GetPolicy", mock.Anything, "p1").
			Return(&model.StoredPolicy{ID: "p1", Name: "allow-read"}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/policies/p1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("GetPolicy_Failure_NotFound", func(t *testing.T) {
		mockService.On("GetPolicy", mock.Anything, "ghost").
			Return(nil, sentra_errors.ErrPolicyNotFound).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/policies/ghost", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decodeError(t, w).Error)
	})

	t.Run("DeletePolicy_Success", func(t *testing.T) {
		mockService.On("DeletePolicy", mock.Anything, "p1").Return(nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/v1/policies/p1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("DeletePolicy_Failure_NotFound", func(t *testing.T) {
		mockService.On("DeletePolicy", mock.Anything, "ghost").
			Return(sentra_errors.ErrPolicyNotFound).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/v1/policies/ghost", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("ListPolicies_DefaultPagination", func(t *testing.T) {
		mockService.On("ListPolicies", mock.Anything, 10, 0).
			Return([]*model.StoredPolicy{{ID: "p1"}, {ID: "p2"}}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/policies", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var policies []*model.StoredPolicy
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &policies))
		assert.Len(t, policies, 2)
	})

	t.Run("ListPolicies_ExplicitPagination", func(t *testing.T) {
		mockService.On("ListPolicies", mock.Anything, 5, 20).
			Return([]*model.StoredPolicy{}, nil).Once()

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/policies?limit=5&offset=20", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("ListPolicies_BadPagination", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/policies?limit=abc", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "validation_error", decodeError(t, w).Error)
	})

	mockService.AssertExpectations(t)
}
