package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/teeshirtate/storefront-backend/api/routes"
	"github.com/teeshirtate/storefront-backend/internal/admingate"
	authsvc "github.com/teeshirtate/storefront-backend/internal/auth"
	cartsvc "github.com/teeshirtate/storefront-backend/internal/cart"
	"github.com/teeshirtate/storefront-backend/internal/catalog"
	linksvc "github.com/teeshirtate/storefront-backend/internal/links"
	ordersvc "github.com/teeshirtate/storefront-backend/internal/orders"
	uploadsvc "github.com/teeshirtate/storefront-backend/internal/uploads"
	"github.com/teeshirtate/storefront-backend/pkg/auth/session"
	"github.com/teeshirtate/storefront-backend/pkg/config"
	"github.com/teeshirtate/storefront-backend/pkg/db"
	"github.com/teeshirtate/storefront-backend/pkg/logger"
	"github.com/teeshirtate/storefront-backend/pkg/metrics"
	"github.com/teeshirtate/storefront-backend/pkg/migrate"
	"github.com/teeshirtate/storefront-backend/pkg/redis"
	"github.com/teeshirtate/storefront-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var gcsClient *gcs.Client
	if cfg.GCS.BucketName != "" {
		gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap gcs", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "no gcs bucket configured, uploads are disk-only")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	storeMetrics := metrics.NewStorefrontMetrics(registry)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(
		catalog.NewRepository(dbClient.DB()),
		catalog.NewCategoriesRepository(dbClient.DB()),
		redisClient,
		storeMetrics,
		cfg.Catalog,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(
		cartsvc.NewStore(redisClient, cfg.Redis.CartTTL),
		storeMetrics,
		cfg.Store,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(
		authsvc.NewRepository(dbClient.DB()),
		sessionManager,
		cfg.JWT,
		cfg.Password,
		cfg.Store,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	if err := authService.EnsureDefaultAdmin(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to seed default admin", err)
		os.Exit(1)
	}

	gateService, err := admingate.NewService(redisClient, cfg.AdminGate, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin gate", err)
		os.Exit(1)
	}

	ordersService, err := ordersvc.NewService(ordersvc.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	linksService, err := linksvc.NewService(linksvc.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create links service", err)
		os.Exit(1)
	}

	var objectStore uploadsvc.ObjectStore
	if gcsClient != nil {
		objectStore = gcsClient
	}
	uploadsService, err := uploadsvc.NewService(cfg.Uploads, cfg.GCS.ObjectPrefix, objectStore, storeMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create uploads service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	var gcsPinger gcs.Pinger
	if gcsClient != nil {
		gcsPinger = gcsClient
	}
	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:    cfg,
			Logger:    logg,
			DB:        dbClient,
			Redis:     redisClient,
			GCS:       gcsPinger,
			Sessions:  sessionManager,
			Registry:  registry,
			Metrics:   storeMetrics,
			Catalog:   catalogService,
			Cart:      cartService,
			Auth:      authService,
			AdminGate: gateService,
			Orders:    ordersService,
			Links:     linksService,
			Uploads:   uploadsService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
