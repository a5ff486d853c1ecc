package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/airshop/internal"
	"github.com/dukerupert/airshop/internal/auth"
	"github.com/dukerupert/airshop/internal/billing"
	"github.com/dukerupert/airshop/internal/bootstrap"
	"github.com/dukerupert/airshop/internal/events"
	"github.com/dukerupert/airshop/internal/handler/admin"
	"github.com/dukerupert/airshop/internal/handler/storefront"
	"github.com/dukerupert/airshop/internal/handler/webhook"
	"github.com/dukerupert/airshop/internal/middleware"
	"github.com/dukerupert/airshop/internal/postgres"
	"github.com/dukerupert/airshop/internal/repository"
	"github.com/dukerupert/airshop/internal/router"
	"github.com/dukerupert/airshop/internal/routes"
	"github.com/dukerupert/airshop/internal/service"
	"github.com/dukerupert/airshop/internal/telemetry"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Sentry is a no-op when disabled
	flushSentry, err := telemetry.InitSentry(telemetry.SentryConfig{
		DSN:              cfg.Sentry.DSN,
		Enabled:          cfg.Sentry.Enabled,
		Environment:      cfg.Sentry.Environment,
		Release:          cfg.Sentry.Release,
		SampleRate:       cfg.Sentry.SampleRate,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Debug:            cfg.Sentry.Debug,
	}, logger)
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	defer flushSentry()

	// Initialize database/sql connection for migrations
	logger.Info("Connecting to database...")
	sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Running database migrations...")
	if err := internal.RunMigrations(sqlDB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize pgx connection pool for application
	pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()

	repo := repository.New(pool)

	// Stores
	orderStore := postgres.NewOrderStore(pool)
	catalog := postgres.NewProductService(repo)
	adminStore := postgres.NewAdminUserStore(repo)

	// Payment gateway
	provider, err := newPaymentProvider(cfg.Payment, logger)
	if err != nil {
		return err
	}

	// Order events
	publisher, err := newPublisher(cfg.NATS, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	issuer, err := auth.NewTokenIssuer(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token issuer: %w", err)
	}

	telemetry.InitBusinessMetrics("airshop")

	// Services
	shipping := service.ShippingPolicy{
		FreeThreshold: cfg.Pricing.FreeShippingThreshold,
		FlatFee:       cfg.Pricing.ShippingFee,
	}
	orderService := service.NewOrderService(orderStore, catalog, shipping, publisher, logger)
	paymentService := service.NewPaymentService(orderStore, provider, publisher, cfg.Payment.ReturnURL, logger)
	reconciler := service.NewReconciler(orderStore, publisher, logger)
	adminService := service.NewAdminService(adminStore, issuer, logger)

	if err := bootstrap.EnsureSuperadmin(ctx, adminStore, &bootstrap.AdminConfig{
		Username: cfg.Admin.Username,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	}, logger); err != nil {
		return fmt.Errorf("admin bootstrap failed: %w", err)
	}

	// Router
	metrics := middleware.NewMetrics("airshop", nil)

	r := router.New(
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
		router.Logger(logger),
		telemetry.SentryMiddleware(),
		router.Recovery(logger),
		metrics.Middleware,
		middleware.MaxBodySize(),
	)

	routes.RegisterStorefrontRoutes(r, routes.StorefrontDeps{
		OrderHandler:   storefront.NewOrderHandler(orderService),
		ProductHandler: storefront.NewProductHandler(catalog),
		PaymentHandler: storefront.NewPaymentHandler(paymentService),
	})
	routes.RegisterAdminRoutes(r, routes.AdminDeps{
		Authenticator: adminService,
		AuthHandler:   admin.NewAuthHandler(adminService),
		OrderHandler:  admin.NewOrderHandler(orderService),
		RefundHandler: admin.NewRefundHandler(paymentService),
	})
	routes.RegisterWebhookRoutes(r, routes.WebhookDeps{
		YooKassaHandler: webhook.NewYooKassaHandler(reconciler),
	})
	routes.RegisterOpsRoutes(r, routes.OpsDeps{
		Health:  func(req *http.Request) error { return pool.Ping(req.Context()) },
		Metrics: metrics.Handler(),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", srv.Addr, "env", cfg.Env, "payment_provider", cfg.Payment.Provider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")

	return nil
}

func newPaymentProvider(cfg internal.PaymentConfig, logger *slog.Logger) (billing.Provider, error) {
	if cfg.Provider == "mock" {
		logger.Warn("Using mock payment provider; no money will move")
		return billing.NewMockProvider(), nil
	}

	ykConfig := billing.YooKassaConfig{
		ShopID:         cfg.ShopID,
		SecretKey:      cfg.SecretKey,
		APIURL:         cfg.APIURL,
		TimeoutSeconds: int(cfg.Timeout / time.Second),
		Currency:       cfg.Currency,
		VATCode:        cfg.VATCode,
		Transport:      &telemetry.HTTPTransport{Transport: http.DefaultTransport},
	}
	provider, err := billing.NewYooKassaProvider(ykConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize YooKassa provider: %w", err)
	}
	logger.Info("YooKassa provider initialized", "test_mode", ykConfig.IsTestMode())

	return provider, nil
}

func newPublisher(cfg internal.NATSConfig, logger *slog.Logger) (events.Publisher, error) {
	if cfg.URL == "" {
		logger.Info("NATS_URL not set; order events are discarded")
		return events.NoopPublisher{}, nil
	}

	publisher, err := events.NewNATSPublisher(events.NATSConfig{
		URL:           cfg.URL,
		SubjectPrefix: cfg.SubjectPrefix,
		Name:          "airshop-server",
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("NATS publisher connected", "url", cfg.URL)

	return publisher, nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
