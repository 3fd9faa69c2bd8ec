// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sentra-iam/sentra/controller"
	"github.com/sentra-iam/sentra/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))

	root := router.Group("/")
	controllers.Health.RegisterRoutes(root)

	api := router.Group("/api/v1")

	controllers.Validation.RegisterRoutes(api)
	controllers.Analysis.RegisterRoutes(api)
	controllers.Policy.RegisterRoutes(api)
	controllers.Audit.RegisterRoutes(api)

	return router
}
