package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/pnl_insights_app/cmd/docs"
	portsrepo "github.com/SscSPs/pnl_insights_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/pnl_insights_app/internal/core/ports/services"
	"github.com/SscSPs/pnl_insights_app/internal/middleware"
	"github.com/SscSPs/pnl_insights_app/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// health may be nil, in which case /health only reports liveness.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	health portsrepo.HealthChecker,
) error {
	r.Use(cors.New(corsConfig(cfg.FrontendBaseURL)))

	// Add health check route
	r.GET("/health", healthCheck(health))

	// Setup API v1 routes, passing service interfaces
	if err := setupAPIV1Routes(r, cfg, services); err != nil {
		return err
	}

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
	return nil
}

// corsConfig allows the dashboard frontend, or any origin without credentials when no frontend is configured.
func corsConfig(frontendBaseURL string) cors.Config {
	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		MaxAge:        12 * time.Hour,
	}
	if frontendBaseURL == "" {
		corsCfg.AllowAllOrigins = true
		return corsCfg
	}
	corsCfg.AllowOrigins = []string{frontendBaseURL}
	corsCfg.AllowCredentials = true
	return corsCfg
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) error {
	v1 := r.Group("/api/v1")
	if cfg.AuthEnabled {
		// Apply AuthMiddleware to the entire v1 group
		v1.Use(middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	}

	ingestLimiter, err := middleware.NewMemoryLimiter(cfg.IngestRateLimit)
	if err != nil {
		return fmt.Errorf("failed to create ingestion rate limiter: %w", err)
	}

	// Delegate route registration to specific handlers, passing required services
	registerIngestionRoutes(v1, service.Ingestion, middleware.RateLimit(ingestLimiter))
	registerCompanyRoutes(v1, service.Reporting, service.Dashboard)
	registerReportRoutes(v1, service.Reporting)
	registerDashboardRoutes(v1, service.Dashboard)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheck godoc
// @Summary Health check
// @Description Reports liveness and, when a database is configured, its reachability
// @Tags health
// @Produce  json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func healthCheck(health portsrepo.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if health != nil {
			if err := health.Ping(c.Request.Context()); err != nil {
				middleware.GetLoggerFromCtx(c.Request.Context()).Error("Health check failed", "error", err.Error())
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
