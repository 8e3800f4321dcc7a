package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/infra"
	"server/internal/infra/credentials"
	"server/internal/providers/videoprovider"
	"server/internal/worker"
)

// main runs a single bounded batch of the poll worker and exits.
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

	if err := rateLimits.Seed(ctx, worker.RateLimitAPI, worker.PollWorkerCaller, cfg.PollWorkerMaxCalls, cfg.RateLimitWindowSecs); err != nil {
		logger.Warn().Err(err).Msg("failed to seed poll-worker rate limit counter")
	}

	apiKey, apiID := cfg.ProviderAPIKey, cfg.ProviderAPIID
	if apiKey == "" {
		if stored, err := creds.APIKey(ctx); err == nil {
			apiKey = stored
		} else {
			logger.Warn().Err(err).Msg("failed to load stored provider credentials")
		}
	}
	if apiID == "" {
		if stored, err := creds.APIID(ctx); err == nil {
			apiID = stored
		} else {
			logger.Warn().Err(err).Msg("failed to load stored provider api id")
		}
	}

	provider := videoprovider.NewClient(videoprovider.Options{
		BaseURL:           cfg.ProviderBaseURL,
		APIKey:            apiKey,
		APIID:             apiID,
		Logger:            logger,
		RequestsPerSecond: 5,
	})

	w := &worker.PollWorker{
		Jobs:      jobs,
		RateLimit: rateLimits,
		Provider:  provider,
		Logger:    logger,
		BatchSize: cfg.PollBatchSize,
	}

	result, err := w.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("poll worker run failed")
		os.Exit(1)
	}
	_ = json.NewEncoder(os.Stdout).Encode(result)
}
