package main

import (
	"log"
	"os"

	"insurance-lead-api/config"
	"insurance-lead-api/controllers"
	"insurance-lead-api/middleware"
	"insurance-lead-api/routes"
	"insurance-lead-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Logging to stdout + logs/lead-api.log
	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	// Initialize database
	config.InitDB()

	// Provider configuration is loaded once and injected; no provider
	// settings are read from the environment after this point.
	providerCfg, err := config.LoadProviderConfig()
	if err != nil {
		log.Fatal("Invalid provider configuration: ", err)
	}

	// One shared HTTP client for all provider calls, for the lifetime of
	// the process.
	providerClient := services.NewProviderClient(providerCfg, nil)
	store := services.NewGormSubmissionStore(nil)
	pipeline := services.NewSubmissionPipeline(store, providerClient, providerCfg)
	controllers.InitSubmissionHandlers(pipeline, store)

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Add rate limiting
	router.Use(middleware.RateLimitMiddleware())

	// Setup routes
	routes.SetupRoutes(router)

	// Start server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Printf("Provider base URL: %s", providerCfg.BaseURL)
	if providerClient.AuthDegraded() {
		log.Printf("Warning: provider credential format is degraded; check PROVIDER_API_TOKEN/PROVIDER_API_SECRET")
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
