package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalog-import-service/controllers"
	"catalog-import-service/importer"
	"catalog-import-service/logger"
	"catalog-import-service/repository"
	"catalog-import-service/routes"
	"catalog-import-service/search"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		panic("failed to load configuration: " + err.Error())
	}

	if err := logger.Initialize(cfg.Env); err != nil {
		panic(err.Error())
	}
	defer zap.L().Sync()

	// --- 1. Initialization ---

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		zap.L().Warn("Failed to parse REDIS_URL, falling back to default", zap.Error(err))
		redisOpts = &redis.Options{Addr: "redis:6379", DB: 0}
	}
	rdb := redis.NewClient(redisOpts)

	// --- 2. Dependency Injection (wiring the layers together) ---

	productClient := repository.NewProductAPIClient(cfg.BackendURL, cfg.BackendToken, 10*time.Second)
	importService := importer.NewService(productClient, cfg.ImportChunkSize)
	jobStore := importer.NewJobStore(rdb)
	recentStore := search.NewRecentStore(rdb)

	validator := controllers.NewRequestValidator()
	importController := controllers.NewImportController(importService, jobStore, validator, cfg.StorageDir)
	searchController := controllers.NewSearchController(recentStore, validator)

	// Background worker for async imports
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	importer.StartWorker(workerCtx, jobStore, importService)

	// --- 3. HTTP Server & Middleware ---

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// --- 4. Route Registration ---

	routes.RegisterRoutes(r, importController, searchController)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// --- 5. Graceful Shutdown ---

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("Catalog Import Service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down Catalog Import Service...")

	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := rdb.Close(); err != nil {
		zap.L().Error("Failed to close Redis", zap.Error(err))
	}

	zap.L().Info("Catalog Import Service stopped gracefully")
}
