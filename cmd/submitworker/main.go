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

// main runs a single bounded batch of the submit worker and exits.
// It is meant to be invoked by an external scheduler (cron, a Kubernetes
// CronJob) rather than run as a long-lived process.
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

	if err := rateLimits.Seed(ctx, worker.RateLimitAPI, worker.SubmitWorkerCaller, cfg.SubmitWorkerMaxCalls, cfg.RateLimitWindowSecs); err != nil {
		logger.Warn().Err(err).Msg("failed to seed submit-worker rate limit counter")
	}

	apiKey, apiID := resolveCredentials(ctx, cfg, creds, logger)
	provider := videoprovider.NewClient(videoprovider.Options{
		BaseURL:           cfg.ProviderBaseURL,
		APIKey:            apiKey,
		APIID:             apiID,
		Logger:            logger,
		RequestsPerSecond: 5,
	})

	w := &worker.SubmitWorker{
		Jobs:      jobs,
		RateLimit: rateLimits,
		Provider:  provider,
		Logger:    logger,
		BatchSize: cfg.SubmitBatchSize,
	}

	result, err := w.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("submit worker run failed")
		os.Exit(1)
	}
	_ = json.NewEncoder(os.Stdout).Encode(result)
}

func resolveCredentials(ctx context.Context, cfg *infra.Config, creds *credentials.Store, logger infra.Logger) (string, string) {
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
	return apiKey, apiID
}
