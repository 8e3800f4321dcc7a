package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/cache"
	httpapi "server/internal/http"
	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/infra/credentials"
	"server/internal/infra/geoip"
	"server/internal/intake"
	"server/internal/providers/videoprovider"
	"server/internal/storage"
	"server/internal/videoconfig"
	"server/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	sql := infra.NewSQLRunner(dbpool, logger)
	jobs := repo.NewJobRepository(sql)
	rateLimits := repo.NewRateLimitRepository(sql)
	creds := credentials.NewStore(sql)

	apiKey := cfg.ProviderAPIKey
	apiID := cfg.ProviderAPIID
	if apiKey == "" {
		if stored, err := creds.APIKey(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to load stored provider credentials")
		} else {
			apiKey = stored
		}
	}
	if apiID == "" {
		if stored, err := creds.APIID(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to load stored provider api id")
		} else {
			apiID = stored
		}
	}

	provider := videoprovider.NewClient(videoprovider.Options{
		BaseURL:           cfg.ProviderBaseURL,
		APIKey:            apiKey,
		APIID:             apiID,
		Logger:            logger,
		RequestsPerSecond: 5,
	})

	catalogCache := cache.NewCatalogCache(cfg.RedisAddr, logger)

	store, err := storage.NewFileStore(cfg.StorageBasePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize file store")
	}

	countryLookup, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip resolver unavailable, continuing without country detection")
	}

	if err := rateLimits.Seed(ctx, worker.RateLimitAPI, worker.SubmitWorkerCaller, cfg.SubmitWorkerMaxCalls, cfg.RateLimitWindowSecs); err != nil {
		logger.Warn().Err(err).Msg("failed to seed submit-worker rate limit counter")
	}
	if err := rateLimits.Seed(ctx, worker.RateLimitAPI, worker.PollWorkerCaller, cfg.PollWorkerMaxCalls, cfg.RateLimitWindowSecs); err != nil {
		logger.Warn().Err(err).Msg("failed to seed poll-worker rate limit counter")
	}

	in := intake.New(jobs, videoconfig.Defaults())

	submitWorker := &worker.SubmitWorker{
		Jobs:      jobs,
		RateLimit: rateLimits,
		Provider:  provider,
		Logger:    logger,
		BatchSize: cfg.SubmitBatchSize,
	}
	pollWorker := &worker.PollWorker{
		Jobs:      jobs,
		RateLimit: rateLimits,
		Provider:  provider,
		Logger:    logger,
		BatchSize: cfg.PollBatchSize,
	}

	app := handlers.NewApp(sql, jobs, provider, catalogCache, store, cfg.StorageBaseURL, in, submitWorker, pollWorker, logger, videoconfig.Defaults())
	router := httpapi.NewRouter(app, cfg, countryLookup)

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != os.ErrClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
