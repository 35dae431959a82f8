package main // Entry point package

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"                  // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware" // request id, access log, recover

	"github.com/iliyamo/match-ticket-reservation/internal/config"   // Internal config loader
	"github.com/iliyamo/match-ticket-reservation/internal/database" // MySQL connection + migrations
	"github.com/iliyamo/match-ticket-reservation/internal/handler"
	"github.com/iliyamo/match-ticket-reservation/internal/lock"
	"github.com/iliyamo/match-ticket-reservation/internal/metrics"
	"github.com/iliyamo/match-ticket-reservation/internal/middleware"
	"github.com/iliyamo/match-ticket-reservation/internal/payment"
	"github.com/iliyamo/match-ticket-reservation/internal/queue"
	"github.com/iliyamo/match-ticket-reservation/internal/repository"
	"github.com/iliyamo/match-ticket-reservation/internal/router" // Internal router setup
	"github.com/iliyamo/match-ticket-reservation/internal/service"
	"github.com/iliyamo/match-ticket-reservation/internal/service/ports"
)

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func main() {
	cfg := config.Load() // Load environment config
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DB, logger)
	if err != nil {
		logger.Error("database unavailable", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()
	if cfg.DB.Migrate {
		if err := database.Migrate(db); err != nil {
			logger.Error("migration failed", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// Redis is optional: without it the cache and rate limiter are no-ops
	// and the payment lock is process-local.
	rdb := config.NewRedisClient(cfg.Redis)
	var locker lock.Locker = lock.NewLocalLocker()
	if rdb != nil {
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, "lock")
	} else {
		logger.Warn("redis unavailable; cache, rate limit and distributed lock disabled")
	}

	// Payment confirmations go through RabbitMQ when enabled; otherwise they
	// are written to the notification log directly.
	writer := queue.NewNotificationWriter(cfg.RabbitMQ.LogDir)
	var notifier ports.PaymentNotifier = queue.LogNotifier{Writer: writer}
	if cfg.RabbitMQ.Enabled {
		pub := queue.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, logger)
		defer pub.Close()
		notifier = pub
		consumer := &queue.Consumer{URL: cfg.RabbitMQ.URL, Queue: cfg.RabbitMQ.Queue, Writer: writer, Log: logger}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("confirmation consumer stopped", slog.Any("error", err))
			}
		}()
	}

	metrics.Register()

	// ---- repositories ----
	accountRepo := repository.NewAccountRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	programmeRepo := repository.NewProgrammeRepo(db)
	reservationRepo := repository.NewReservationRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	// ---- services ----
	accounts := service.NewAccountService(accountRepo, cfg.BcryptCost, logger)
	auth := service.NewAuthService(service.AuthConfig{
		Secret:         cfg.JWTSecret,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
	}, accountRepo, tokenRepo)
	catalog := service.NewCatalogService(programmeRepo, logger)
	reservations := service.NewReservationService(programmeRepo, reservationRepo, logger)
	payments := service.NewPaymentService(reservationRepo, paymentRepo,
		payment.NewSimulatedGateway(cfg.Payment), locker, notifier, cfg.Payment.LockTTL, logger)
	stats := service.NewStatsService(statsRepo)

	// ---- HTTP ----
	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(cfg.RateLimit, rdb, logger))

	checks := map[string]handler.Check{"mysql": db.PingContext}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	purge := middleware.PurgeCache(cfg.Cache, rdb)

	router.RegisterRoutes(e, checks) // Register probes and /metrics
	router.RegisterAuth(e, handler.NewAuthHandler(auth, accounts), cfg.JWTSecret)
	router.RegisterPublic(e, handler.NewPublicHandler(catalog), middleware.NewRedisCache(cfg.Cache, rdb))
	router.RegisterSpectator(e, handler.NewReservationHandler(reservations), handler.NewPaymentHandler(payments), cfg.JWTSecret)
	router.RegisterManager(e, handler.NewManagerHandler(catalog, stats, reservations), cfg.JWTSecret, purge)
	router.RegisterAdmin(e, handler.NewAdminHandler(accounts), cfg.JWTSecret, purge)

	addr := ":" + cfg.Port // Address string with port
	go func() {
		logger.Info("listening", slog.String("addr", addr), slog.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
	}
	// let in-flight confirmation notifications reach the broker
	payments.Wait()
}
