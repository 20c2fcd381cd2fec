package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/skulkarni3/energy-insights/internal/config"
	"github.com/skulkarni3/energy-insights/internal/handler"
	"github.com/skulkarni3/energy-insights/internal/middleware"
	"github.com/skulkarni3/energy-insights/internal/repository"
	"github.com/skulkarni3/energy-insights/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration. A missing Palmetto API key is fatal here, before
	// any request is attempted.
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := newLogger(cfg.Logging)
	logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("Business Energy Insights")

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// History repository (optional)
	var repo *repository.PostgresRepository
	if cfg.PostgreSQL.Enabled {
		repo, err = repository.NewPostgresRepository(
			cfg.PostgreSQL.DSN,
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer repo.Close()

		bootstrapCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := repo.Bootstrap(bootstrapCtx); err != nil {
			cancel()
			logger.Fatalf("Failed to bootstrap database schema: %v", err)
		}
		cancel()
		logger.Info("✅ Connected to PostgreSQL, lookup history enabled")
	} else {
		logger.Info("⚠️  No database configured - lookup history and feedback are disabled")
	}

	// Provider clients
	palmettoClient := service.NewPalmettoClient(&cfg.Palmetto, logger)
	logger.WithField("api_base", cfg.Palmetto.APIBase).Info("✅ Palmetto client initialized")

	bayouClient := service.NewBayouClient(&cfg.Bayou, cfg.BayouBaseURL(), logger)
	if bayouClient.IsEnabled() {
		logger.WithField("domain", cfg.Bayou.Domain).Info("✅ Bayou utility-data client initialized")
	} else {
		logger.Info("⚠️  Bayou is disabled - set BAYOU_API_KEY to enable utility data connections")
	}

	placesClient := service.NewPlacesClient(&cfg.Maps, logger)
	if placesClient.IsEnabled() {
		logger.Info("✅ Google Places autocomplete initialized")
	} else {
		logger.Info("⚠️  Address autocomplete is disabled - set GOOGLE_MAPS_API_KEY to enable it")
	}

	// Response cache (optional)
	var cache *lru.Cache
	if cfg.Cache.Size > 0 {
		cache, err = lru.New(cfg.Cache.Size)
		if err != nil {
			logger.Fatalf("Failed to create cache: %v", err)
		}
	}

	// Services
	recommender := service.NewRecommender(cfg.Rules)
	insightService := service.NewInsightService(palmettoClient, bayouClient, recommender, repo, cache, logger)
	logger.Info("✅ Services initialized")

	// Handlers
	insightHandler := handler.NewInsightHandler(insightService)
	addressHandler := handler.NewAddressHandler(placesClient, logger)
	utilityHandler := handler.NewUtilityHandler(bayouClient)
	feedbackHandler := handler.NewFeedbackHandler(insightService)

	// Metrics
	registry := prometheus.NewRegistry()
	metrics, err := middleware.NewMetrics(registry)
	if err != nil {
		logger.Fatalf("Failed to register metrics: %v", err)
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.Handler())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.Server.AllowedOrigins, ",")
	corsConfig.AllowMethods = strings.Split(cfg.Server.AllowedMethods, ",")
	corsConfig.AllowHeaders = strings.Split(cfg.Server.AllowedHeaders, ",")
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":     "healthy",
			"service":    "energy-insights",
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	// API routes
	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		// Insight endpoints
		apiV1.POST("/insights", insightHandler.Lookup)
		apiV1.GET("/service-area", insightHandler.ServiceArea)
		apiV1.GET("/history", insightHandler.History)

		// Address autocomplete
		apiV1.GET("/address/suggest", addressHandler.Suggest)

		// Utility data connection
		apiV1.POST("/utility/customers", utilityHandler.CreateCustomer)
		apiV1.GET("/utility/customers/:id", utilityHandler.GetCustomer)

		// Feedback endpoint
		apiV1.POST("/feedback", feedbackHandler.Submit)
	}

	// Serve static files (frontend)
	// This function is implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router, logger)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Infof("🚀 Starting server on %s", addr)
		logger.Infof("🌐 Web UI: http://localhost:%d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Forced shutdown: %v", err)
	}
	logger.Info("✅ Server stopped")
}

// newLogger builds the structured logger from the logging config.
func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
