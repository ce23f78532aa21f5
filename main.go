package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/liftco/backend/internal/client"
	"github.com/liftco/backend/internal/config"
	"github.com/liftco/backend/internal/db"
	"github.com/liftco/backend/internal/handler"
	"github.com/liftco/backend/internal/obs"
	"github.com/liftco/backend/internal/service"
	"github.com/liftco/backend/internal/token"
	"go.uber.org/zap"
)

// @title Attendance API
// @version 1.0
// @description Proximity attendance tokens, scanner verification and session membership.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// .env 파일이 없으면 환경변수만 사용
	_ = godotenv.Load()

	cfg := config.Load()

	logger, err := newLogger(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	gin.SetMode(cfg.Server.GinMode)
	obs.Init()

	ctx := context.Background()

	if cfg.Server.MigrateOnStartup {
		dsn, err := db.BuildPostgresURL(cfg.Postgres)
		if err != nil {
			return err
		}
		if err := db.Migrate(dsn); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	pool, err := db.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pool.Close()
	store := &db.Postgres{Pool: pool}

	secret, err := token.NewSecret(cfg.Attendance.HMACSecret)
	if err != nil {
		return err
	}

	authService, err := service.NewAuthService(store, cfg.Auth, logger.Named("auth"))
	if err != nil {
		return err
	}

	sink, closeSink, err := newNotificationSink(cfg.Notification, logger)
	if err != nil {
		return err
	}
	defer closeSink()
	notifier := service.NewNotifier(sink, cfg.Notification.QueueSize, logger.Named("notifier"))
	notifier.Start()

	tokenService, err := service.NewTokenService(authService, store, secret, logger.Named("token"))
	if err != nil {
		return err
	}
	scannerService := service.NewScannerService(store)
	verifyService, err := service.NewVerifyService(
		scannerService,
		service.NewEligibilityResolver(store),
		service.NewAttendanceRecorder(store),
		notifier,
		secret,
		cfg.Attendance.SkewTolerance,
		logger.Named("verify"),
	)
	if err != nil {
		return err
	}
	sessionService := service.NewSessionService(authService, store, notifier, logger.Named("session"))

	router, err := handler.NewRouter(handler.RouterDeps{
		Server:     cfg.Server,
		Auth:       authService,
		Attendance: handler.NewAttendanceHandler(tokenService, verifyService, scannerService),
		Sessions:   handler.NewSessionHandler(sessionService),
		Profiles:   handler.NewAuthHandler(authService),
		Limiter:    handler.NewRateLimiter(cfg.RateLimit.ScannerRequestsPerMinute),
		Logger:     logger.Named("http"),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("notify_driver", cfg.Notification.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := notifier.Close(shutdownCtx); err != nil {
		logger.Warn("notifier drain", zap.Error(err))
	}
	logger.Info("stopped")
	return nil
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zcfg.Level = level
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}

// newNotificationSink picks the delivery channel for NOTIFY_DRIVER.
func newNotificationSink(cfg config.NotificationConfig, logger *zap.Logger) (service.NotificationSink, func(), error) {
	noop := func() {}
	switch cfg.Driver {
	case "http":
		push := client.NewPushClient(cfg.PushURL, cfg.PushToken)
		if !push.IsConfigured() {
			return nil, noop, errors.New("NOTIFY_PUSH_URL is required for the http notify driver")
		}
		return push, noop, nil
	case "kafka":
		pub, err := client.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			return nil, noop, err
		}
		return pub, func() {
			if err := pub.Close(); err != nil {
				logger.Warn("kafka producer close", zap.Error(err))
			}
		}, nil
	case "log", "":
		return client.NewLogSink(logger.Named("notify")), noop, nil
	default:
		return nil, noop, errors.New("unknown NOTIFY_DRIVER " + cfg.Driver)
	}
}
