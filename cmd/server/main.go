package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appbilling "github.com/firmdesk/backend/internal/application/billing"
	appidentity "github.com/firmdesk/backend/internal/application/identity"
	apprecords "github.com/firmdesk/backend/internal/application/records"
	"github.com/firmdesk/backend/internal/domain/billing"
	"github.com/firmdesk/backend/internal/infrastructure/auth"
	"github.com/firmdesk/backend/internal/infrastructure/cache"
	"github.com/firmdesk/backend/internal/infrastructure/config"
	"github.com/firmdesk/backend/internal/infrastructure/logger"
	"github.com/firmdesk/backend/internal/infrastructure/persistence"
	"github.com/firmdesk/backend/internal/infrastructure/scheduler"
	"github.com/firmdesk/backend/internal/interfaces/http/handler"
	"github.com/firmdesk/backend/internal/interfaces/http/middleware"
	"github.com/firmdesk/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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

	log.Info("Starting FirmDesk Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Connection registry holds the shared database handle. The handle is
	// acquired once here so repositories can bind to it; concurrent boot
	// paths and the health endpoint go through the same registry.
	registry := persistence.NewConnectionRegistry(&cfg.Database,
		persistence.WithOpenFunc(func(dbCfg *config.DatabaseConfig) (*persistence.Database, error) {
			return persistence.NewDatabaseWithCustomLogger(dbCfg, gormLog)
		}),
		persistence.WithRegistryLogger(log),
	)
	defer func() {
		if err := registry.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := registry.Acquire(bootCtx)
	bootCancel()
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Schema and seed data for development; production schemas are managed
	// externally.
	if cfg.App.Env != "production" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate database schema", zap.Error(err))
		}
	}

	// Initialize repositories
	firmRepo := persistence.NewFirmRepository(db.DB)
	userRepo := persistence.NewUserRepository(db.DB)
	planRepo := persistence.NewPlanRepository(db.DB)
	counterRepo := persistence.NewUsageCounterRepository(db.DB)
	dueDateRepo := persistence.NewDueDateRepository(db.DB)

	seedCtx, seedCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := planRepo.Seed(seedCtx, billing.DefaultPlans()); err != nil {
		seedCancel()
		log.Fatal("Failed to seed subscription plans", zap.Error(err))
	}
	seedCancel()

	// Status cache: redis when configured, in-memory otherwise
	cacheFactory := cache.NewStatusCacheFactory(cfg.Quota, cfg.Redis,
		cache.WithFactoryLogger(log),
	)
	statusCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create status cache", zap.Error(err))
	}
	defer func() {
		if err := statusCache.Close(); err != nil {
			log.Error("Error closing status cache", zap.Error(err))
		}
	}()

	// Initialize application services
	jwtService := auth.NewJWTService(cfg.JWT)
	quotaService := appbilling.NewQuotaService(firmRepo, planRepo, counterRepo)
	statusService := appbilling.NewStatusService(
		quotaService, statusCache,
		cfg.Quota.FreshnessWindow, cfg.Quota.GracePeriod,
		appbilling.WithStatusLogger(log),
	)
	dueDateService := apprecords.NewDueDateService(dueDateRepo, quotaService,
		apprecords.WithStatusInvalidator(statusService),
		apprecords.WithDueDateLogger(log),
	)
	reconcileService := appbilling.NewReconcileService(firmRepo, dueDateRepo, counterRepo,
		appbilling.WithReconcileLogger(log),
	)
	sessionService := appidentity.NewSessionService(userRepo, firmRepo,
		appidentity.WithSessionLogger(log),
	)

	// Usage counter reconciliation (if enabled)
	if cfg.Reconcile.Enabled {
		reconcileScheduler := scheduler.NewReconcileScheduler(scheduler.ReconcileSchedulerConfig{
			Interval: cfg.Reconcile.Interval,
			Timeout:  cfg.Reconcile.Timeout,
		}, reconcileService, log)
		if err := reconcileScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start reconcile scheduler", zap.Error(err))
		}
		defer func() {
			if err := reconcileScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping reconcile scheduler", zap.Error(err))
			}
		}()
		log.Info("Reconcile scheduler started",
			zap.Duration("interval", cfg.Reconcile.Interval),
			zap.Duration("timeout", cfg.Reconcile.Timeout),
		)
	}

	// Initialize HTTP handlers
	dueDateHandler := handler.NewDueDateHandler(dueDateService)
	quotaHandler := handler.NewQuotaHandler(statusService)
	sessionHandler := handler.NewSessionHandler(sessionService)
	systemHandler := handler.NewSystemHandler(registry)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack: request ID first, then panic recovery, then request
	// logging, then authentication.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.DefaultJWTConfig(jwtService)))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(systemHandler).
		Register(sessionHandler).
		Register(dueDateHandler).
		Register(quotaHandler)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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
