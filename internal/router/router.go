package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tikagate/internal/config"
	"tikagate/internal/handler"
	"tikagate/internal/metrics"
	"tikagate/internal/middleware"
	"tikagate/internal/readiness"
)

// Setup configures the Gin engine with all routes and middleware.
//
// Route gating: the banner, health, version, and metrics endpoints answer
// unconditionally. /parsers waits for engine readiness but needs no
// credential. Everything else requires the API key first and readiness
// second, so an unauthenticated caller learns nothing about engine state.
func Setup(
	cfg *config.Config,
	log *logrus.Logger,
	m *metrics.Metrics,
	monitor *readiness.Monitor,
	docH *handler.DocumentHandler,
	infoH *handler.InfoHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}
	if m != nil {
		r.Use(middleware.Metrics(m))
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// Open endpoints
	r.GET("/", infoH.Index)
	r.GET("/health", healthH.Health)
	r.GET("/version", infoH.Version)

	// Capability listing, gated on readiness only
	ready := r.Group("")
	ready.Use(middleware.RequireReady(monitor))
	ready.GET("/parsers", infoH.Parsers)

	// Protected routes - require the API key, then engine readiness
	protected := r.Group("")
	protected.Use(middleware.APIKeyAuth(cfg.Auth.APIKey))
	protected.Use(middleware.RequireReady(monitor))
	protected.GET("/types", infoH.MimeTypes)
	protected.POST("/parse", docH.Parse)
	protected.POST("/detect", docH.Detect)
	protected.POST("/language", docH.Language)
	protected.POST("/analyze", docH.Analyze)

	return r
}
