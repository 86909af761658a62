package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"campus-connect/event-portal/event-portal-backend/internal/artifacts"
	"campus-connect/event-portal/event-portal-backend/internal/certificates"
	"campus-connect/event-portal/event-portal-backend/internal/config"
	"campus-connect/event-portal/event-portal-backend/internal/notifications"
	"campus-connect/event-portal/event-portal-backend/internal/registrations"
	"campus-connect/event-portal/event-portal-backend/internal/render"
	"campus-connect/event-portal/event-portal-backend/internal/templates"
	"campus-connect/event-portal/event-portal-backend/pkg/storage"
)

func main() {
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()

	s3Client, err := storage.NewS3Client(ctx, storage.S3Options{
		Region:   cfg.Storage.Region,
		Endpoint: cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize S3 client", zap.Error(err))
	}

	// Template cache backend
	var cache templates.Cache
	if cfg.Templates.CacheBackend == "redis" && cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Fatal("Failed to parse redis URL", zap.Error(err))
		}
		redisClient := redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("Redis ping failed", zap.Error(err))
		}
		defer redisClient.Close()
		cache = templates.NewRedisCache(redisClient)
		logger.Info("Using redis template cache")
	} else {
		cache = templates.NewMemoryCache(cfg.Templates.CacheMaxItems)
	}

	templateSource := templates.NewSource(cache,
		templates.NewHTTPFetcher(cfg.Templates.FetchTimeout), logger)
	templateAdmin := templates.NewAdminStore(s3Client, cfg.Storage.TemplateBucket,
		fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Storage.TemplateBucket, cfg.Storage.Region))

	// Rendering surface: one headless Chrome shared by all requests
	surface, err := render.NewChromeSurface(render.ChromeOptions{
		Bin:      cfg.Render.ChromeBin,
		Headless: cfg.Render.Headless,
	})
	if err != nil {
		logger.Fatal("Failed to start rendering surface", zap.Error(err))
	}
	defer surface.Close()

	renderer := render.NewRenderer(surface, render.Options{
		Timeout:    cfg.Render.Timeout,
		PixelRatio: cfg.Render.PixelRatio,
	}, logger)

	artifactService := artifacts.NewService(
		artifacts.NewRepository(db), s3Client,
		artifacts.Options{
			Bucket:          cfg.Storage.ArtifactBucket,
			PresignLifetime: cfg.Storage.PresignLifetime,
		}, logger)

	var notifier certificates.Notifier
	if cfg.Notifications.Enabled {
		sender, err := notifications.NewSESSender(ctx, cfg.Storage.Region, cfg.Notifications.SenderEmail)
		if err != nil {
			logger.Fatal("Failed to initialize email sender", zap.Error(err))
		}
		notifier = notifications.NewNotifier(sender, logger)
	}

	certificateService := certificates.NewService(
		registrations.NewRepository(db),
		templateSource,
		renderer,
		artifactService,
		notifier,
		certificates.Options{DefaultStrategy: render.Strategy(cfg.Render.DefaultStrategy)},
		logger,
	)

	certificateHandler := certificates.NewHandler(certificateService, artifactService, templateAdmin, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	{
		certificateHandler.RegisterRoutes(api)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	srv := &http.Server{
		Addr:    cfg.Server.GetServerAddr(),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
