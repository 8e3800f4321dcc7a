package repo

import (
	"context"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// RateLimitRepository implements domain.RateLimitStore on top of the
// rate_limit_counters table using the single-statement CTE in
// sqlinline.QAcquireSlots.
type RateLimitRepository struct {
	sql infra.SQLExecutor
}

func NewRateLimitRepository(sql infra.SQLExecutor) *RateLimitRepository {
	return &RateLimitRepository{sql: sql}
}

func (r *RateLimitRepository) AcquireSlots(ctx context.Context, api, caller string, requested int) (int, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QAcquireSlots, api, caller, requested)
	var granted int
	if err := row.Scan(&granted); err != nil {
		if infra.IsNoRows(err) {
			return 0, nil
		}
		return 0, err
	}
	return granted, nil
}

// Seed pre-provisions the (api, caller) budget row so AcquireSlots has
// something to lock on. Safe to call repeatedly.
func (r *RateLimitRepository) Seed(ctx context.Context, api, caller string, maxCalls, windowSecs int) error {
	_, err := r.sql.Exec(ctx, sqlinline.QSeedRateLimitCounter, api, caller, maxCalls, windowSecs)
	return err
}

var _ domain.RateLimitStore = (*RateLimitRepository)(nil)
