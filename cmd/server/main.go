package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"upipay/internal/app"
	"upipay/internal/config"
	"upipay/internal/domain"
	"upipay/internal/handler"
	"upipay/internal/logger"
	"upipay/internal/metrics"
	"upipay/internal/migrate"
	internalRedis "upipay/internal/redis"
	"upipay/internal/repository/sqlstore"
	"upipay/internal/service"
)

const serviceName = "upi-payments"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	logg := logger.New(logger.Options{ServiceName: serviceName})

	cfg, dotenv, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.Log.Level),
		Format:      cfg.Log.Format,
	})
	if !dotenv {
		logg.Debug(context.Background(), ".env file not found, relying on environment")
	}
	gin.SetMode(gin.ReleaseMode)

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "server exited with error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logg.Error(ctx, "failed to initialize New Relic", err)
			nrApp = nil
		} else {
			logg.Info(logg.WithField(ctx, "app", cfg.NewRelic.AppName), "New Relic enabled")
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close()) }()
	logg.Info(logg.WithField(ctx, "driver", cfg.Database.Driver), "connected to database")

	if cfg.Database.AutoMigrate {
		applied, err := migrate.Up(ctx, db, cfg.Database.Driver)
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "applied", len(applied)), "migrations up to date")
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			return err
		}
		defer func() { err = multierr.Append(err, redisClient.Close()) }()
		logg.Info(logg.WithField(ctx, "addr", cfg.Redis.Addr), "connected to redis")
	}

	server, err := wireServer(db, redisClient, nrApp, cfg, logg)
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(context.Background(), "addr", server.Addr), "starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return err
	}
	logg.Info(context.Background(), "shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}

	logg.Info(context.Background(), "server exited")
	return nil
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, logg *logger.Logger) (*http.Server, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, cfg.Database.Driver),
	)

	// Initialize stores.
	paymentRepo := sqlstore.NewPaymentIntentRepository(db)

	var cache internalRedis.IntentCacheInterface
	if redisClient != nil {
		cache = internalRedis.NewCacheStore(redisClient, cfg.Redis.CacheTTL)
	}

	// Initialize services.
	paymentService := service.NewPaymentService(service.PaymentServiceParams{
		Repo:     paymentRepo,
		Cache:    cache,
		Metrics:  metrics.NewPaymentMetrics(registry),
		Logger:   logg,
		Clock:    domain.SystemClock{},
		OrderIDs: service.NewUUIDOrderIDGenerator(cfg.UPI.OrderIDLength),
		Payee: service.Payee{
			VPA:        cfg.UPI.PayeeVPA,
			Name:       cfg.UPI.PayeeName,
			NotePrefix: cfg.UPI.NotePrefix,
		},
		Amount: cfg.UPI.AmountDecimal(),
	})

	// Create router.
	router, err := app.NewRouter(app.RouterDeps{
		PaymentHandler: handler.NewPaymentHandler(paymentService, logg),
		HealthHandler:  handler.NewHealthHandler(db),
		Logger:         logg,
		Gatherer:       registry,
		NewRelicApp:    nrApp,
	})
	if err != nil {
		return nil, err
	}

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, nil
}
