package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"exam-backend/internal/analyses"
	"exam-backend/internal/generate"
	"exam-backend/internal/questionbank"
	"exam-backend/internal/rag"
	"exam-backend/internal/shared/config"
	"exam-backend/internal/shared/metrics"
	"exam-backend/internal/shared/server/middleware"
	"exam-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config            config.Config
	AnalysisHandler   *analyses.Handler
	CurriculumHandler *rag.Handler
	BankHandler       *questionbank.Handler
	GenerateHandler   *generate.Handler
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
		middleware.RateLimit(rateLimitConfig()),
	)

	r.GET("/healthz", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/v1")
	deps.AnalysisHandler.RegisterRoutes(api)
	deps.CurriculumHandler.RegisterRoutes(api)
	deps.BankHandler.RegisterRoutes(api)
	deps.GenerateHandler.RegisterRoutes(api)

	return r
}

// rateLimitConfig keeps run polling generous while throttling everything
// else, since each analyze request fans out into many provider calls.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 5, Burst: 10},
			"POLLING": {Rate: 20, Burst: 40},
		},
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet && strings.HasPrefix(c.FullPath(), "/v1/runs/") {
				return "POLLING"
			}
			return ""
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
