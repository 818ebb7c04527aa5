package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/tokenauth/auth-service/handlers"
	"github.com/tokenauth/auth-service/internal/config"
	"github.com/tokenauth/auth-service/internal/password"
	"github.com/tokenauth/auth-service/internal/tokens"
	"github.com/tokenauth/auth-service/internal/users"
	"github.com/tokenauth/auth-service/pkg/logger"
	"github.com/tokenauth/auth-service/pkg/metrics"
	"github.com/tokenauth/auth-service/pkg/middleware"
)

// Set with -ldflags "-X main.version=..."
var version = "1.0.0"

const shutdownTimeout = 10 * time.Second

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		logger.Fatalf("failed to open store: %v", err)
	}
	defer store.close()

	checks := map[string]handlers.ReadinessCheck{"database": store.ping}

	// Redis is only needed by the shared rate limiter
	var rdb *redis.Client
	if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis && cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
		} else {
			logger.Infof("connected to Redis for rate limiting: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	tm := tokens.NewManager(cfg)
	userSvc := users.NewService(store.repo, password.NewHasher(cfg.Password.BcryptCost))

	r := gin.New()
	r.Use(gin.LoggerWithWriter(logger.Writer(logger.LevelInfo)), gin.RecoveryWithWriter(logger.Writer(logger.LevelError)))
	r.Use(middleware.CORSMiddleware(cfg.Server.BaseURL))

	var limits []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		if rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			limits = append(limits, middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			limits = append(limits, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
		logger.Infof("rate limiter enabled: rps=%.2f burst=%d redis=%v", cfg.RateLimit.RPS, cfg.RateLimit.Burst, rdb != nil)
	}

	handlers.RegisterSystem(r, handlers.ServiceInfo{
		Name:        "auth-service",
		Version:     version,
		Description: "Cookie-based JWT authentication API",
		Author:      "tokenauth",
	}, checks)
	handlers.RegisterSwagger(r)
	handlers.NewAuthHandler(cfg, userSvc, tm).Mount(r.Group("/api"), middleware.AuthMiddleware(tm), limits...)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Infof("server running at %s (mode: %s, store: %s)", cfg.Server.BaseURL, cfg.Server.Environment, store.driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}
