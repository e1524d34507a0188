package server

import (
	"github.com/gin-gonic/gin"

	"feedback-backend/internal/analyses"
	"feedback-backend/internal/shared/config"
	"feedback-backend/internal/shared/metrics"
	"feedback-backend/internal/shared/server/middleware"
	"feedback-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers routes are registered from.
type RouterDeps struct {
	Config          config.Config
	AnalysisHandler *analyses.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/healthz", func(c *gin.Context) {
		respond.OK(c, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	deps.AnalysisHandler.RegisterRoutes(api)

	return r
}

// Addr builds the listen address for the configured port.
func Addr(port string) string {
	return ":" + port
}
