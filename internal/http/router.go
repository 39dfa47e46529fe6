package http

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go.skyglow.dev/skyglow-api/internal/metrics"
	"go.skyglow.dev/skyglow-api/internal/usecase"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(skyUC *usecase.SkyQueryUseCase) *gin.Engine {

	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable.
	// Default to allow all origins if not specified.
	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}

	router.Use(cors.New(corsConfig))
	router.Use(metrics.Middleware())

	// Create handler.
	handler := NewHandler(skyUC)

	// API v1 routes.
	v1 := router.Group("/v1")
	sky := v1.Group("/sky")
	sky.GET("/brightness", handler.GetSkyBrightness)
	sky.GET("/limiting-magnitude", handler.GetLimitingMagnitude)

	// Band tables.
	v1.GET("/bands", handler.GetBands)

	// Health check and metrics.
	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return router
}
