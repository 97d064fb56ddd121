package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erp/resolver/internal/application/resolver"
	"github.com/erp/resolver/internal/domain/ledger"
	"github.com/erp/resolver/internal/domain/matching"
	"github.com/erp/resolver/internal/infrastructure/cache"
	"github.com/erp/resolver/internal/infrastructure/config"
	"github.com/erp/resolver/internal/infrastructure/logger"
	"github.com/erp/resolver/internal/infrastructure/persistence"
	"github.com/erp/resolver/internal/infrastructure/telemetry"
	"github.com/erp/resolver/internal/interfaces/http/handler"
	"github.com/erp/resolver/internal/interfaces/http/middleware"
	"github.com/erp/resolver/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const slowQueryThreshold = 200 * time.Millisecond

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.NewForEnvironment(cfg.App.Env, logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting entity resolver",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.ExportInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	metrics, err := telemetry.NewResolverMetrics(meterProvider.Meter("resolver"))
	if err != nil {
		log.Fatal("Failed to create resolver metrics", zap.Error(err))
	}

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), slowQueryThreshold)
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	ledgerRepo := persistence.NewGormLedgerRepository(db.DB)
	aliasRepo := persistence.NewGormAliasRepository(db.DB)

	storeFactory := cache.NewStoreFactory(*cfg, cache.WithFactoryLogger(log))
	defer func() {
		if err := storeFactory.Close(); err != nil {
			log.Error("Error closing cache store", zap.Error(err))
		}
	}()
	store, err := storeFactory.CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create check cache store", zap.Error(err))
	}

	similarity := matching.SimilarityByName(cfg.Matcher.Similarity)
	svc := resolver.NewService(ledgerRepo, ledgerRepo,
		resolver.WithMatcher(matching.NewFuzzyMatcher(
			matching.WithMinConfidence(cfg.Matcher.MinConfidence),
			matching.WithSimilarity(similarity),
			matching.WithLogger(log),
		)),
		resolver.WithPayeeMatcher(matching.NewFuzzyMatcher(
			matching.WithMinConfidence(cfg.Matcher.PayeeMinConfidence),
			matching.WithSimilarity(similarity),
			matching.WithLogger(log),
		)),
		resolver.WithNameCache(cache.NewTTLCache[[]string](cfg.Cache.NameTTL,
			cache.WithName("names"),
			cache.WithLogger(log),
			cache.WithObserver(metrics),
		)),
		resolver.WithCheckCache(cache.NewPartitionedCache[ledger.Check](store, cfg.Cache.CheckTTL, ledger.CheckDate,
			cache.WithName("checks"),
			cache.WithLogger(log),
			cache.WithObserver(metrics),
		)),
		resolver.WithAliasStore(aliasRepo),
		resolver.WithLedgerWriter(ledgerRepo),
		resolver.WithMatchRecorder(metrics),
		resolver.WithLogger(log),
	)
	if err := svc.LoadAliases(ctx); err != nil {
		log.Error("Failed to load stored aliases", zap.Error(err))
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	systemHandler := handler.NewSystemHandler(cfg.App.Name, db, svc)
	engine := router.NewEngine(log)
	router.NewRouter(engine, router.WithHealth(systemHandler.Health)).
		Register(systemHandler).
		Register(handler.NewResolverHandler(svc)).
		Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to flush metrics", zap.Error(err))
	}

	log.Info("Server exited")
}
