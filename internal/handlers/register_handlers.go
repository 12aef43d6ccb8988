package handlers

import (
	"github.com/SscSPs/ifm_report_app/cmd/docs"
	portssvc "github.com/SscSPs/ifm_report_app/internal/core/ports/services"
	"github.com/SscSPs/ifm_report_app/internal/middleware"
	"github.com/SscSPs/ifm_report_app/internal/platform/config"
	"github.com/SscSPs/ifm_report_app/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// reportLimiter may be nil to disable rate limiting.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	m *metrics.Metrics,
	reportLimiter *limiter.Limiter,
) {
	// Add health check route
	r.GET("/health", getHealth)

	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services, reportLimiter)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	reportLimiter *limiter.Limiter,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	v1.GET("/", getHome)
	registerReportRoutes(v1, services.Report, cfg.MaxUploadBytes(), middleware.RateLimit(reportLimiter))
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
