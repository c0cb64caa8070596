package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	invoicingapp "github.com/facture/backend/internal/application/invoicing"
	"github.com/facture/backend/internal/infrastructure/cache"
	"github.com/facture/backend/internal/infrastructure/config"
	"github.com/facture/backend/internal/infrastructure/logger"
	"github.com/facture/backend/internal/infrastructure/persistence"
	"github.com/facture/backend/internal/infrastructure/render"
	"github.com/facture/backend/internal/infrastructure/storage"
	"github.com/facture/backend/internal/interfaces/http/handler"
	"github.com/facture/backend/internal/interfaces/http/router"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	directoryapp "github.com/facture/backend/internal/application/directory"
)

const defaultCacheTTL = 15 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Facture Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	clientRepo := persistence.NewGormClientRepository(db.DB)
	manufacturerRepo := persistence.NewGormManufacturerRepository(db.DB)

	// Render backends. All three share one invoice snapshot format; the
	// Chromium-backed pair additionally shares the engine configuration.
	engineCfg := &render.EngineConfig{
		DefaultTimeout: cfg.Render.Timeout,
		RemoteURL:      cfg.Render.RemoteEngineURL,
		NoSandbox:      cfg.Render.EngineNoSandbox,
		Logger:         log,
	}
	renderers := []render.DocumentRenderer{
		render.NewPrintPDFRenderer(engineCfg),
		render.NewRasterPNGRenderer(engineCfg),
		render.NewVectorPDFRenderer(log),
	}
	defer func() {
		for _, r := range renderers {
			if err := r.Close(); err != nil {
				log.Error("Error closing renderer",
					zap.String("backend", string(r.Backend())), zap.Error(err))
			}
		}
	}()

	// Artifact archive
	artifactStore, err := newArtifactStore(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize artifact storage", zap.Error(err))
	}
	log.Info("Artifact storage ready", zap.String("backend", cfg.Storage.Backend))

	// Rendered-document cache
	artifactCache, redisClient, err := newArtifactCache(cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize artifact cache", zap.Error(err))
	}

	// Application services
	directoryService := directoryapp.NewService(clientRepo, manufacturerRepo)
	invoicingService, err := invoicingapp.NewService(
		clientRepo,
		manufacturerRepo,
		renderers,
		invoicingapp.WithArtifactStore(artifactStore),
		invoicingapp.WithCache(artifactCache),
		invoicingapp.WithDefaultBackend(render.Backend(cfg.Render.DefaultBackend)),
		invoicingapp.WithRenderTimeout(cfg.Render.Timeout),
		invoicingapp.WithLogger(log),
	)
	if err != nil {
		log.Fatal("Failed to initialize invoicing service", zap.Error(err))
	}

	// HTTP surface
	healthHandler := handler.NewHealthHandler(db, redisClient)
	r, err := router.New(cfg, log,
		router.WithAPIVersion("v1"),
		router.WithHealth(healthHandler.Health),
		router.WithRateLimit(120, time.Minute),
	)
	if err != nil {
		log.Fatal("Failed to initialize router", zap.Error(err))
	}
	r.Register(handler.NewDirectoryHandler(directoryService))
	r.Register(handler.NewInvoiceHandler(invoicingService, artifactStore))
	engine := r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// newArtifactStore builds the archive configured by storage.backend:
// a local directory or an S3-compatible bucket.
func newArtifactStore(cfg *config.Config, log *zap.Logger) (render.ArtifactStore, error) {
	if cfg.Storage.Backend == "s3" {
		store, err := storage.NewS3ArtifactStore(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	}

	return render.NewFileSystemStore(&render.FileSystemStoreConfig{
		BasePath: cfg.Storage.BasePath,
		BaseURL:  cfg.Storage.BaseURL,
		Logger:   log,
	})
}

// newArtifactCache builds the rendered-document cache: Redis when enabled,
// an in-process map otherwise. The Redis client is also returned so the
// health endpoint can probe it.
func newArtifactCache(cfg *config.Config, log *zap.Logger) (invoicingapp.ArtifactCache, *goredis.Client, error) {
	ttl := cfg.Redis.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	if !cfg.Redis.Enabled {
		log.Info("Using in-memory artifact cache", zap.Duration("ttl", ttl))
		return cache.NewInMemoryArtifactCache(ttl), nil, nil
	}

	redisCache, err := cache.NewRedisArtifactCache(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      ttl,
	})
	if err != nil {
		return nil, nil, err
	}
	log.Info("Using Redis artifact cache",
		zap.String("host", cfg.Redis.Host),
		zap.Duration("ttl", ttl))
	return redisCache, redisCache.GetClient(), nil
}
