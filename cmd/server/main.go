// Package main provides the sky-quality API HTTP server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"go.skyglow.dev/skyglow-api/internal/adapter/store/climate"
	httpHandler "go.skyglow.dev/skyglow-api/internal/http"
	"go.skyglow.dev/skyglow-api/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("skyglow-api version %s\n", version)
		return
	}

	// Load configuration from environment.
	port := getEnv("PORT", "8080")
	climateDir := getEnv("CLIMATE_DIR", "")

	log.Printf("Starting sky-quality API server...")
	log.Printf("Port: %s", port)

	// Initialize the climatology store (optional; weather falls back to
	// request parameters or defaults without it).
	var climateSource usecase.ClimateSource
	if climateDir != "" {
		log.Printf("Initializing climatology store")
		log.Printf("  Climate directory: %s", climateDir)
		store := climate.NewStore(climateDir)
		if store.Available() {
			climateSource = store
			log.Printf("Climatology store initialized")
		} else {
			log.Printf("  Warning: no climatology grids found in %s, using defaults", climateDir)
		}
	} else {
		log.Printf("Climatology store disabled (CLIMATE_DIR not set)")
	}

	// Initialize use case.
	skyUC := usecase.NewSkyQueryUseCase(climateSource)

	// Setup router.
	router := httpHandler.SetupRouter(skyUC)

	// Start server.
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Server listening on %s", addr)
	log.Printf("Health check: http://localhost:%s/health", port)
	log.Printf("API endpoints:")
	log.Printf("  - GET /v1/sky/brightness")
	log.Printf("  - GET /v1/sky/limiting-magnitude")
	log.Printf("  - GET /v1/bands")

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Sky-Quality API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  skyglow-api [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  CLIMATE_DIR             Monthly climatology NetCDF directory (optional)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  skyglow-api")
	fmt.Println()
	fmt.Println("  # Start server on custom port with climatology grids")
	fmt.Println("  PORT=3000 CLIMATE_DIR=./data/climate skyglow-api")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health                       Health check")
	fmt.Println("  GET /v1/bands                     List photometric bands and model constants")
	fmt.Println("  GET /v1/sky/brightness            Sky brightness, extinction and limiting magnitude")
	fmt.Println("  GET /v1/sky/limiting-magnitude    Faintest visible stellar magnitude")
	fmt.Println("  GET /metrics                      Prometheus metrics")
	fmt.Println()
}
