package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/adapter/repo"
	"server/internal/domain"
	"server/internal/infra"
	"server/internal/statuspoll"
)

// main is a manual/ops verification tool: it polls a single job's status
// on the same adaptive schedule the mobile client uses, printing each
// update to stdout as it arrives. It is not the mobile client, which
// stays out of scope.
func main() {
	var (
		jobID   string
		timeout time.Duration
	)
	flag.StringVar(&jobID, "job", "", "job id to poll")
	flag.DurationVar(&timeout, "timeout", 15*time.Minute, "give up after this long")
	flag.Parse()

	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		fmt.Fprintln(os.Stderr, "-job is required")
		os.Exit(1)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create pool: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger := infra.NewLogger("cli")
	jobs := repo.NewJobRepository(infra.NewSQLRunner(pool, logger))

	poller := &statuspoll.Poller{Reader: jobs}
	enc := json.NewEncoder(os.Stdout)

	final, err := poller.Poll(ctx, jobID, func(job *domain.Job) {
		_ = enc.Encode(job)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "poll failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "job %s reached terminal status %s\n", final.ID, final.Status)
}
