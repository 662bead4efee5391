// cmd/apex-server/main.go
package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"apex-business/internal/api"
	"apex-business/internal/common/auth"
	"apex-business/internal/common/config"
	"apex-business/internal/common/database"
	"apex-business/internal/common/logger"
	"apex-business/internal/common/notify"
	"apex-business/internal/common/observability"
	"apex-business/internal/gateway"
	"apex-business/internal/repository"
	"apex-business/internal/sessions"
	"apex-business/internal/workspace"

	"github.com/gin-gonic/gin"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// connectPostgres opens and pings the pool with retries. A pool whose ping
// fails is closed before the next attempt.
func connectPostgres(ctx context.Context, open func() (*database.PostgresClient, error), maxRetries int, initialDelay time.Duration, log *zap.Logger) (*database.PostgresClient, error) {
	var pg *database.PostgresClient
	err := retryWithBackoff(func() error {
		client, err := open()
		if err != nil {
			return err
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return err
		}
		pg = client
		return nil
	}, maxRetries, initialDelay, log, "PostgreSQL connection")
	if err != nil {
		return nil, err
	}
	return pg, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.New("info", "console")
		boot.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting apex-business server...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	obs := observability.NewNoop()
	if cfg.Observability.MetricsEnabled {
		obs = observability.New(cfg.Observability.ServiceName, cfg.Observability.TraceSampling, log)
	}

	// --- Init PostgreSQL with retry ---
	pg, err := connectPostgres(ctx, func() (*database.PostgresClient, error) {
		return database.NewPostgres(cfg.Database.Postgres)
	}, 15, 2*time.Second, zapLog)
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if err := pg.Migrate(ctx); err != nil {
		zapLog.Fatal("schema migration failed", zap.Error(err))
	}

	// --- Init Redis with retry; only the redis session backend requires it ---
	var redis *database.RedisClient
	if cfg.Database.Redis.Address != "" {
		redis = database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			if cfg.Sessions.Backend == "redis" {
				zapLog.Fatal("redis failed after retries", zap.Error(err))
			}
			zapLog.Warn("Redis unavailable, continuing without profile cache", zap.Error(err))
			_ = redis.Close()
			redis = nil
		} else {
			defer redis.Close()
			zapLog.Info("Redis connected successfully")
		}
	}

	var (
		sessionKV sessions.KV
		denylist  auth.Denylist
	)
	if cfg.Sessions.Backend == "redis" {
		sessionKV = sessions.NewRedisKV(redis)
		denylist = auth.NewRedisDenylist(redis)
	} else {
		sessionKV = sessions.NewMemoryKV()
		denylist = auth.NewMemoryDenylist()
	}

	// --- Init AI gateway ---
	gw, err := gateway.NewGemini(ctx, cfg.GenAI, obs, log)
	if err != nil {
		zapLog.Fatal("gemini client failed", zap.Error(err))
	}
	defer gw.Close()
	zapLog.Info("AI gateway initialized",
		zap.String("fastModel", cfg.GenAI.FastModel),
		zap.String("smartModel", cfg.GenAI.SmartModel),
	)

	// --- Init welcome notifier ---
	notifier := notify.NewDisabled(log)
	if cfg.Notifications.Email.Enabled {
		notifier, err = notify.NewSESNotifier(ctx, cfg.Notifications.AWS.Region, cfg.Notifications.Email.FromEmail, log)
		if err != nil {
			zapLog.Fatal("ses notifier failed", zap.Error(err))
		}
	}

	users := repository.NewUserRepository(pg.DB, log)
	profiles := repository.NewProfileRepository(pg.DB, redis, cfg.Database.Redis.ProfileTTL(), log)
	settings := repository.NewSettingsRepository(pg.DB, log)

	registry := workspace.NewRegistry(gw, profiles, sessionKV, workspace.RegistryConfig{
		SessionKeyPrefix: cfg.Sessions.KeyPrefix,
		MaxSessions:      cfg.Sessions.MaxSessions,
	}, log)

	readiness := map[string]api.ReadinessCheck{"postgres": pg.Ping}
	if redis != nil {
		readiness["redis"] = redis.Ping
	}

	server := api.NewServer(api.Deps{
		Users:          users,
		Profiles:       profiles,
		Settings:       settings,
		Tokens:         auth.NewTokenManager(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer, cfg.Auth.TokenTTL(), denylist),
		Passwords:      auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		Notifier:       notifier,
		Workspaces:     registry,
		Logger:         log,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Readiness:      readiness,
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}
	server.Wait()

	if err := obs.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down observability", zap.Error(err))
	}

	zapLog.Info("apex-business server stopped gracefully")
}
