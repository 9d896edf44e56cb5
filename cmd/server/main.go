package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"activation-service.backend/internal/config"
	"activation-service.backend/internal/infrastructure/jobs"
	"activation-service.backend/internal/infrastructure/metrics"
	"activation-service.backend/internal/infrastructure/storage"
	"activation-service.backend/internal/interfaces/http/handlers"
	"activation-service.backend/internal/interfaces/http/middleware"
	"activation-service.backend/internal/usecases"
	"activation-service.backend/pkg/logger"
	"activation-service.backend/pkg/ratelimit"
	"activation-service.backend/pkg/redis"
)

const shutdownTimeout = 10 * time.Second

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openStore  = storage.Open
	runServer  = func(ctx context.Context, srv *http.Server) error {
		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := loadCfg()

	initLog(cfg.Server.Env)
	if err := applyLogLevel(cfg.Server.LogLevel); err != nil {
		return err
	}
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Redis is only needed for the shared rate limit window
	if cfg.RateLimit.Backend == config.RateLimitBackendRedis {
		if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
			logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer redis.Close()
		logger.Info(context.Background(), "Redis initialized")
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()
	logger.Info(context.Background(), "Store opened", zap.String("driver", store.Driver))

	metrics.MustRegister()

	verificationUsecase := usecases.NewVerificationUsecase(store.Codes, store.Logs, usecases.InputLimits{
		MaxCodeLength:     cfg.Verification.MaxCodeLength,
		MaxDeviceIDLength: cfg.Verification.MaxDeviceIDLength,
	})
	adminUsecase := usecases.NewAdminUsecase(store.Codes, store.Logs, store.UnitOfWork)

	if cfg.Store.SeedDemoCodes {
		if _, err := adminUsecase.SeedDemoCodes(context.Background()); err != nil {
			logger.Warn(context.Background(), "Failed to seed demo codes", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	retentionJob := jobs.NewLogRetentionJob(adminUsecase, cfg.Retention.LogRetentionDays, cfg.Retention.SweepInterval)
	go retentionJob.Start(ctx)
	defer retentionJob.Stop()

	info := handlers.ServiceInfo{
		Name:        cfg.Server.ServiceName,
		Version:     cfg.Server.Version,
		Environment: cfg.Server.Env,
		StartedAt:   time.Now(),
	}
	deps := routeDeps{
		verificationHandler: handlers.NewVerificationHandler(verificationUsecase),
		healthHandler:       handlers.NewHealthHandler(store, info),
		rateLimit:           middleware.RateLimit(newLimiter(cfg.RateLimit)),
		bodyLimit:           middleware.BodyLimit(cfg.Server.BodyLimitBytes),
	}
	if cfg.Server.DebugEndpointsEnabled() {
		deps.debugHandler = handlers.NewDebugHandler(adminUsecase, verificationUsecase, info)
		logger.Warn(context.Background(), "Debug endpoints enabled")
	}

	r, err := newRouter(cfg.Server, deps)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info(context.Background(), "Activation service starting",
		zap.String("service", cfg.Server.ServiceName),
		zap.String("version", cfg.Server.Version),
		zap.String("port", cfg.Server.Port),
		zap.Int("routes", len(r.Routes())),
	)

	if err := runServer(ctx, srv); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	logger.Info(context.Background(), "Server stopped")
	return nil
}

// applyLogLevel overrides the environment's default level when one is configured
func applyLogLevel(level string) error {
	if level == "" {
		return nil
	}
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", level, err)
	}
	logger.SetLevel(parsed)
	return nil
}

// newLimiter returns nil when rate limiting is disabled
func newLimiter(cfg config.RateLimitConfig) ratelimit.Limiter {
	if cfg.MaxRequests <= 0 || cfg.Window <= 0 {
		return nil
	}
	if cfg.Backend == config.RateLimitBackendRedis {
		return ratelimit.NewRedisWindow("", cfg.MaxRequests, cfg.Window)
	}
	return ratelimit.NewTokenBucket(cfg.MaxRequests, cfg.Window)
}
