// controller/health_controller.go
package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sentra-iam/sentra/db"
	"github.com/sentra-iam/sentra/schema"
)

type HealthController struct {
	registry *schema.Registry
}

func NewHealthController(registry *schema.Registry) *HealthController {
	return &HealthController{
		registry: registry,
	}
}

// RegisterRoutes registers the API routes
func (hc *HealthController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", hc.Health)
}

// Health endpoint reports the status of every dependency. Any failing
// dependency turns the whole response into a 503.
func (hc *HealthController) Health(c *gin.Context) {
	checks := make(map[string]string)
	healthy := true

	if _, err := hc.registry.LoadDefault(); err != nil {
		checks["schema_registry"] = err.Error()
		healthy = false
	} else {
		checks["schema_registry"] = "ok"
	}

	if db.RedisClient == nil {
		checks["redis"] = "not initialized"
		healthy = false
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := db.RedisClient.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	if db.Neo4jDriver == nil {
		checks["neo4j"] = "not initialized"
		healthy = false
	} else if err := db.Neo4jDriver.VerifyConnectivity(); err != nil {
		checks["neo4j"] = err.Error()
		healthy = false
	} else {
		checks["neo4j"] = "ok"
	}

	status := http.StatusOK
	state := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
	})
}
