package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/felixggj/happy-robot-fde/internal/infrastructure/cache"
	"github.com/felixggj/happy-robot-fde/internal/infrastructure/config"
	"github.com/felixggj/happy-robot-fde/internal/infrastructure/database"
	"github.com/felixggj/happy-robot-fde/internal/infrastructure/repository"
	"github.com/felixggj/happy-robot-fde/internal/service/analytics"
	"github.com/felixggj/happy-robot-fde/internal/service/matching"
	"github.com/felixggj/happy-robot-fde/internal/service/negotiation"
	"github.com/felixggj/happy-robot-fde/internal/service/verification"
)

// Server is the API server with all its owned resources.
type Server struct {
	config     *config.Config
	httpServer *http.Server
	logger     *slog.Logger
	db         *pgxpool.Pool
	redis      *redislib.Client
}

// NewServer wires configuration into a ready-to-start server: database
// pool, redis client, repositories, services, handler and middleware.
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	// Infra packages log through zap.
	zapLogger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("creating zap logger: %w", err)
	}

	db, err := database.Connect(ctx, &cfg.Database, zapLogger)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	redisClient, err := cache.NewClient(&cfg.Redis)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	verifyCache, err := cache.NewRedisCache(redisClient, zapLogger)
	if err != nil {
		db.Close()
		redisClient.Close()
		return nil, err
	}

	loadRepo := repository.NewLoadRepository(db)
	sessionRepo := repository.NewCallSessionRepository(db)

	if cfg.Environment == "development" {
		if err := repository.SeedSampleLoads(ctx, loadRepo); err != nil {
			logger.Warn("seeding sample loads failed", "error", err)
		}
	}

	services := &Services{
		Matching:     matching.NewService(loadRepo, logger),
		Negotiation:  negotiation.NewService(loadRepo, logger),
		Verification: verification.NewService(cfg.FMCSA, verifyCache, logger),
		Analytics:    analytics.NewService(sessionRepo),
		Sessions:     sessionRepo,
		Health: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				return fmt.Errorf("database: %w", err)
			}
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			return nil
		},
	}

	handler := NewHandler(services, logger, cfg.Version)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	if cfg.AuthDisabled() {
		logger.Warn("api key not configured, authenticated endpoints are open")
	}

	limiter := cache.NewRedisRateLimiter(redisClient, zapLogger)
	chain := NewMiddlewareChain(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		RequestLoggingMiddleware(logger),
		MetricsMiddleware(),
		RateLimitMiddleware(limiter, RateLimitConfig{
			RequestsPerSecond: cfg.Security.RateLimit.RequestsPerSecond,
		}, logger),
		APIKeyMiddleware(cfg.Security.APIKey),
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain.Then(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		config:     cfg,
		httpServer: httpServer,
		logger:     logger,
		db:         db,
		redis:      redisClient,
	}, nil
}

// Start serves until the context is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("carrier sales api listening",
			"addr", s.httpServer.Addr,
			"environment", s.config.Environment,
			"version", s.config.Version)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.close()
	return err
}

func (s *Server) close() {
	s.db.Close()
	if err := s.redis.Close(); err != nil {
		s.logger.Warn("closing redis client failed", "error", err)
	}
}

