package repo

import (
	"context"
	"time"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// JobRepository implements domain.JobStore against Postgres via the shared
// SQLExecutor, the same seam handlers use so unit tests can substitute a
// fake row/rows implementation instead of a live pool.
type JobRepository struct {
	sql infra.SQLExecutor
}

func NewJobRepository(sql infra.SQLExecutor) *JobRepository {
	return &JobRepository{sql: sql}
}

func (r *JobRepository) Insert(ctx context.Context, job *domain.Job) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertJob, job.ID, job.UserID, job.Request)
	return err
}

func (r *JobRepository) SelectPending(ctx context.Context, limit int) ([]domain.Job, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *JobRepository) SelectActive(ctx context.Context, limit int) ([]domain.Job, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectActive, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *JobRepository) Update(ctx context.Context, id string, patch domain.Patch) error {
	_, err := r.sql.Exec(ctx, sqlinline.QUpdateJob,
		id,
		patch.Status,
		derefString(patch.ProviderJobID),
		derefString(patch.VideoURL),
		derefString(patch.ThumbnailURL),
		derefInt(patch.CreditsUsed),
		derefString(patch.ErrorMessage),
		patch.SetCompletedAt,
	)
	return err
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QGetJobByID, id)
	job, err := scanJob(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

func (r *JobRepository) ListByUser(ctx context.Context, userID string) ([]domain.Job, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListJobsByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

// scannable covers both pgx.Row and pgx.Rows, whose Scan signatures match.
type scannable interface {
	Scan(dest ...any) error
}

func scanJob(row scannable) (*domain.Job, error) {
	var job domain.Job
	var completedAt *time.Time
	if err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.ProviderJobID,
		&job.Status,
		&job.Request,
		&job.VideoURL,
		&job.ThumbnailURL,
		&job.CreditsUsed,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
		&completedAt,
	); err != nil {
		return nil, err
	}
	job.CompletedAt = completedAt
	return &job, nil
}

func scanJobs(rows pgxRows) ([]domain.Job, error) {
	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// pgxRows is the subset of pgx.Rows this package needs, kept narrow so the
// package-level tests can supply a minimal fake.
type pgxRows interface {
	scannable
	Next() bool
	Err() error
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

var _ domain.JobStore = (*JobRepository)(nil)
