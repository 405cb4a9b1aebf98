package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/homely/homely-back/internal/ai"
	"github.com/homely/homely-back/internal/cache"
	"github.com/homely/homely-back/internal/config"
	httpserver "github.com/homely/homely-back/internal/http"
	"github.com/homely/homely-back/internal/http/handlers"
	"github.com/homely/homely-back/internal/notify"
	"github.com/homely/homely-back/internal/repository"
	"github.com/homely/homely-back/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		// Missing .env is the common case; anything else is worth seeing.
		bootLogger := zerolog.New(os.Stderr)
		bootLogger.Warn().Err(err).Msg("failed loading .env")
	}
	cfg := config.Load()
	logger := newLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobsRepo, jobsCloser := setupJobsRepository(ctx, cfg, logger)
	defer jobsCloser()

	sessionsRepo, sessionsCloser := setupSessionsRepository(ctx, cfg, logger)
	defer sessionsCloser()

	hub := notify.NewHub()

	geminiClient := ai.NewGeminiClient(ai.GeminiClientConfig{
		APIKey:     cfg.GeminiAPIKey,
		BaseURL:    cfg.GeminiBaseURL,
		Model:      cfg.GeminiModel,
		Timeout:    time.Duration(cfg.GeminiTimeoutMS) * time.Millisecond,
		MaxRetries: cfg.GeminiMaxRetries,
	})
	enhanceCache := cache.NewEnhanceCache(cache.Config{
		TTL:        time.Duration(cfg.EnhanceCacheTTLSeconds) * time.Second,
		MaxEntries: cfg.EnhanceCacheMaxEntries,
	})

	jobsService := service.NewJobsService(jobsRepo, hub, service.JobsServiceConfig{
		StrictTransitions: cfg.StrictTransitions,
	}, logger)
	sessionsService := service.NewSessionsService(sessionsRepo, logger)
	enhanceService := service.NewEnhancementService(geminiClient, enhanceCache, logger)

	if cfg.SeedDemoJobs {
		if err := jobsService.SeedDemoJobs(ctx); err != nil {
			logger.Warn().Err(err).Msg("demo seed failed")
		}
	}

	api := handlers.NewAPI(jobsService, sessionsService, enhanceService, hub, logger)
	handler := httpserver.NewRouter(httpserver.RouterDependencies{
		API:            api,
		Logger:         logger,
		AuthToken:      cfg.AuthToken,
		CORSOrigins:    cfg.CORSAllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("api listening")
		errChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newLogger(appEnv string) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return logger
}

func setupJobsRepository(
	ctx context.Context,
	cfg config.Config,
	logger zerolog.Logger,
) (repository.JobsRepository, func()) {
	if cfg.DatabaseURL != "" {
		pgRepo, err := repository.NewPostgresJobsRepository(ctx, cfg.DatabaseURL)
		if err == nil {
			logger.Info().Msg("postgres jobs repository initialized")
			return pgRepo, pgRepo.Close
		}
		logger.Warn().Err(err).Msg("postgres init failed, trying local store")
	}

	if cfg.DataDir != "" {
		badgerRepo, err := repository.NewBadgerJobsRepository(cfg.DataDir)
		if err == nil {
			logger.Info().Str("data_dir", cfg.DataDir).Msg("badger jobs repository initialized")
			return badgerRepo, func() {
				if err := badgerRepo.Close(); err != nil {
					logger.Warn().Err(err).Msg("badger close failed")
				}
			}
		}
		logger.Warn().Err(err).Msg("badger init failed, fallback to memory")
	}

	logger.Info().Msg("using in-memory jobs repository")
	return repository.NewMemoryJobsRepository(), func() {}
}

func setupSessionsRepository(
	ctx context.Context,
	cfg config.Config,
	logger zerolog.Logger,
) (repository.SessionsRepository, func()) {
	if cfg.RedisAddr == "" {
		logger.Info().Msg("REDIS_ADDR not configured, using in-memory session store")
		return repository.NewMemorySessionsRepository(), func() {}
	}

	redisRepo, err := repository.NewRedisSessionsRepository(ctx, repository.RedisSessionsConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("redis init failed, fallback to memory session store")
		return repository.NewMemorySessionsRepository(), func() {}
	}
	logger.Info().Msg("redis session store initialized")
	return redisRepo, func() {
		_ = redisRepo.Close()
	}
}
