package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patent-insight-backend/internal/ai"
	"patent-insight-backend/internal/config"
	"patent-insight-backend/internal/logger"
	"patent-insight-backend/internal/telemetry"
	"patent-insight-backend/middleware"
	"patent-insight-backend/routes"
	"patent-insight-backend/services"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Telemetry (optional)
	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("patent-insight-backend", cfg.OTLPEndpoint)
		if err != nil {
			log.Fatal("Failed to init tracer:", err)
		}
		defer shutdown()
	}
	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Fatal("Failed to init metrics:", err)
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	// Redis is optional: without it the embedding cache and rate limiting
	// are simply disabled.
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Gemini client. A missing GOOGLE_API_KEY degrades generative features
	// to fallback values instead of preventing startup.
	gemini, err := ai.NewGeminiClient(context.Background(), cfg, metrics)
	if err != nil {
		log.Fatal("Failed to create Gemini client:", err)
	}

	var embedder services.Embedder
	var generator services.Generator
	if gemini != nil {
		defer gemini.Close()
		generator = gemini
		if rdb != nil {
			embedder = ai.NewCachedEmbedder(gemini, rdb, cfg.EmbeddingModel)
		} else {
			embedder = gemini
		}
	} else {
		logger.Warn("GOOGLE_API_KEY not set; generative features degrade to fallback values")
	}

	// Vector store and pipelines
	chunksCollection := mongoClient.Database(cfg.DBName).Collection(cfg.ChunkCollection)
	store := services.NewMongoVectorStore(chunksCollection, metrics)

	ingestion := services.NewIngestionService(store, embedder, cfg, metrics)
	retrieval := services.NewRetrievalService(store, embedder, generator, cfg)
	analysis := services.NewAnalysisService(store, embedder, generator, cfg)

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware(metrics))
	router.Use(middleware.CORSMiddlewareWithOrigins(cfg.CORSOrigins))
	router.Use(middleware.RateLimitMiddleware(rdb, cfg))
	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("patent-insight-backend"))
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Setup routes
	routes.SetupDocumentRoutes(router, cfg, ingestion)
	routes.SetupQueryRoutes(router, retrieval)
	routes.SetupAnalyzeRoutes(router, analysis)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
