package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"campus-connect/event-portal/event-portal-backend/internal/artifacts"
	"campus-connect/event-portal/event-portal-backend/internal/config"
	"campus-connect/event-portal/event-portal-backend/internal/templates"
	"campus-connect/event-portal/event-portal-backend/pkg/storage"
)

// RetentionWorker runs the scheduled sweeps: it clears the shared template
// cache (the cache itself carries no TTL) and purges issued certificates
// past the retention window, objects included.
type RetentionWorker struct {
	artifacts artifacts.Service
	cache     templates.Cache
	maxAge    time.Duration
	logger    *zap.Logger
}

func NewRetentionWorker(arts artifacts.Service, cache templates.Cache, maxAge time.Duration, logger *zap.Logger) *RetentionWorker {
	return &RetentionWorker{artifacts: arts, cache: cache, maxAge: maxAge, logger: logger}
}

// Sweep runs one retention pass.
func (w *RetentionWorker) Sweep(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	if w.cache != nil {
		if err := w.cache.Clear(ctx); err != nil {
			w.logger.Warn("Failed to clear template cache", zap.Error(err))
		} else {
			w.logger.Info("Template cache cleared by scheduled sweep")
		}
	}

	cutoff := time.Now().Add(-w.maxAge)
	purged, err := w.artifacts.PurgeIssuedBefore(ctx, cutoff)
	if err != nil {
		w.logger.Error("Retention purge failed", zap.Error(err))
		return
	}
	w.logger.Info("Retention sweep finished",
		zap.Time("cutoff", cutoff),
		zap.Int("purged", purged))
}

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

	artifactService := artifacts.NewService(
		artifacts.NewRepository(db), s3Client,
		artifacts.Options{Bucket: cfg.Storage.ArtifactBucket}, logger)

	// Only the shared cache backend is swept here; per-process memory caches
	// belong to their servers.
	var cache templates.Cache
	if cfg.Templates.CacheBackend == "redis" && cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			logger.Fatal("Failed to parse redis URL", zap.Error(err))
		}
		redisClient := redis.NewClient(opts)
		defer redisClient.Close()
		cache = templates.NewRedisCache(redisClient)
	}

	worker := NewRetentionWorker(artifactService, cache, cfg.Retention.ArtifactMaxAge, logger)

	scheduler := cron.New(cron.WithSeconds())
	if _, err := scheduler.AddFunc(cfg.Retention.SweepSchedule, func() {
		worker.Sweep(ctx)
	}); err != nil {
		logger.Fatal("Invalid sweep schedule", zap.Error(err))
	}
	scheduler.Start()

	logger.Info("Retention worker started",
		zap.String("schedule", cfg.Retention.SweepSchedule),
		zap.Duration("artifact_max_age", cfg.Retention.ArtifactMaxAge))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Stopping retention worker...")
	<-scheduler.Stop().Done()
}
