// Package router assembles the Gin engine with middleware and all routes.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classly/internal/common"
	"classly/internal/config"
	"classly/internal/domain/catalog"
	"classly/internal/domain/notification"
	"classly/internal/domain/user"
	"classly/internal/middleware"
)

// New creates and configures the Gin router with all middleware and routes.
func New(
	cfg *config.Config,
	userHandler *user.Handler,
	catalogHandler *catalog.Handler,
	notificationHandler *notification.Handler,
) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()

	// Global middleware stack (order matters)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(
		cfg.CORS.AllowedOrigins,
		cfg.CORS.AllowedMethods,
		cfg.CORS.AllowedHeaders,
	))

	ipLimiter := middleware.NewIPRateLimiter(
		cfg.RateLimit.RequestsPerSecond,
		cfg.RateLimit.Burst,
	)
	r.Use(ipLimiter.Middleware())
	r.Use(gin.Logger())

	// Public routes
	r.GET("/health", healthCheck)

	// Protected API routes (API key required)
	api := r.Group("/api/v1")
	api.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	{
		userHandler.RegisterRoutes(api)
		catalogHandler.RegisterRoutes(api)
		notificationHandler.RegisterRoutes(api)
	}

	return r
}

// healthCheck handles GET /health
func healthCheck(c *gin.Context) {
	common.Success(c, http.StatusOK, gin.H{
		"status":  "ok",
		"service": "classly",
	})
}
