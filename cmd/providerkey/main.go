package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/infra"
	"server/internal/infra/credentials"
)

// main persists the video provider's API key/id into the integration_tokens
// table so cmd/api, cmd/submitworker and cmd/pollworker can pick it up
// without an environment variable on every host.
func main() {
	var (
		keyFlag string
		idFlag  string
	)
	flag.StringVar(&keyFlag, "key", "", "video provider API key (fallbacks to PROVIDER_API_KEY)")
	flag.StringVar(&idFlag, "id", "", "video provider API id, if the provider requires one (fallbacks to PROVIDER_API_ID)")
	flag.Parse()

	key := strings.TrimSpace(keyFlag)
	if key == "" {
		key = strings.TrimSpace(os.Getenv("PROVIDER_API_KEY"))
	}
	if key == "" {
		fmt.Fprintln(os.Stderr, "provider API key is required via -key or PROVIDER_API_KEY")
		os.Exit(1)
	}
	id := strings.TrimSpace(idFlag)
	if id == "" {
		id = strings.TrimSpace(os.Getenv("PROVIDER_API_ID"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create pool: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "providerkey").Logger()
	store := credentials.NewStore(infra.NewSQLRunner(pool, logger))

	ctxExec, cancelExec := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelExec()
	if err := store.SetVideoProviderCredentials(ctxExec, key, id); err != nil {
		fmt.Fprintf(os.Stderr, "failed to persist provider credentials: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("video provider credentials stored successfully")
}
