package api

import (
	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/north-cloud/negative-keywords/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/handlers"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/service"
	"github.com/jonesrussell/north-cloud/negative-keywords/internal/telemetry"
)

// Deps is everything the routes need.
type Deps struct {
	Scorer   *service.Scorer
	Defaults handlers.Defaults
	Metrics  *telemetry.Metrics
	Logger   infralogger.Logger
}

// SetupRoutes returns the route registration hook for the shared server.
// Health routes are registered by the server itself.
func SetupRoutes(deps Deps) func(*gin.Engine) {
	return func(router *gin.Engine) {
		if deps.Metrics != nil {
			router.Use(deps.Metrics.Middleware())
			router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
		}

		scoreHandler := handlers.NewScoreHandler(deps.Scorer, deps.Defaults, deps.Logger)
		templateHandler := handlers.NewTemplateHandler(deps.Logger)

		v1 := router.Group("/api/v1")

		score := v1.Group("/score")
		score.POST("", scoreHandler.Score)
		score.POST("/download/:artifact", scoreHandler.Download)

		v1.GET("/template", templateHandler.Get)
	}
}
