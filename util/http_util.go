// util/http_util.go
package util

import (
	logger "github.com/sentra-iam/sentra/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the wire shape for every error reply.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func RespondWithError(c *gin.Context, code int, errorCode, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, ErrorResponse{Error: errorCode, Message: message})
}

func RespondWithErrorDetails(c *gin.Context, code int, errorCode, message string, details interface{}) {
	logger.Error(message,
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, ErrorResponse{Error: errorCode, Message: message, Details: details})
}
