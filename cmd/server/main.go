package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shyamxrana/Attendance-System-College/internal/config"
	"github.com/shyamxrana/Attendance-System-College/internal/db"
	internalhttp "github.com/shyamxrana/Attendance-System-College/internal/http"
	"github.com/shyamxrana/Attendance-System-College/internal/observability"
	"github.com/shyamxrana/Attendance-System-College/internal/ratelimit"
	"github.com/shyamxrana/Attendance-System-College/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := newLogger(cfg.Production())
	defer func() { _ = logger.Sync() }()

	flushSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Environment)
	if err != nil {
		logger.Warn("sentry init failed", zap.Error(err))
	}
	defer flushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db connection failed", zap.Error(err))
	}
	defer pool.Close()

	migrator, err := db.NewMigrator(pool, cfg.MigrationsDir)
	if err != nil {
		logger.Fatal("migrator init failed", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}
	_ = migrator.Close()

	var limiter *ratelimit.Limiter
	if cfg.RedisAddr != "" {
		limiter = ratelimit.New(
			redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}),
			cfg.LoginRateLimit,
			cfg.LoginRateWindow,
		)
		logger.Info("login throttle enabled", zap.String("redis", cfg.RedisAddr))
	}

	store := repository.NewStore(pool)
	server, err := internalhttp.NewServer(cfg, store, limiter, logger)
	if err != nil {
		logger.Fatal("server init failed", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	go func() {
		logger.Info("campustracker listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}

func newLogger(production bool) *zap.Logger {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}

	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	return logger
}
