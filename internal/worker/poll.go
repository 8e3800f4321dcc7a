package worker

import (
	"context"
	"errors"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/videoprovider"
)

// PollWorker advances in-flight provider jobs to terminal states.
type PollWorker struct {
	Jobs      domain.JobStore
	RateLimit domain.RateLimitStore
	Provider  videoprovider.Provider
	Logger    infra.Logger
	BatchSize int
}

func (w *PollWorker) Run(ctx context.Context) (Result, error) {
	candidates, err := w.Jobs.SelectActive(ctx, w.BatchSize)
	if err != nil {
		return Result{}, err
	}
	if len(candidates) == 0 {
		return Result{Reason: ReasonNoActiveJobs}, nil
	}

	granted, err := w.RateLimit.AcquireSlots(ctx, RateLimitAPI, PollWorkerCaller, len(candidates))
	if err != nil {
		return Result{}, err
	}
	if granted == 0 {
		return Result{Reason: ReasonRateLimited}, nil
	}

	result := Result{Slots: granted}
	for _, job := range candidates[:granted] {
		if job.ProviderJobID == "" {
			continue
		}
		completed, err := w.pollOne(ctx, job)
		if err != nil {
			w.Logger.Warn().Err(err).Str("job_id", job.ID).Msg("poll worker: transient error, leaving job unchanged")
			continue
		}
		result.Processed++
		if completed {
			result.Completed++
		}
	}
	return result, nil
}

// pollOne returns whether the job reached the completed status.
func (w *PollWorker) pollOne(ctx context.Context, job domain.Job) (bool, error) {
	status, err := w.Provider.CheckJobStatus(ctx, job.ProviderJobID)
	if err != nil {
		var rateLimited *videoprovider.RateLimitedError
		if errors.As(err, &rateLimited) {
			return false, err
		}
		// Any other transport error (including TransientError and a 4xx
		// FatalError, which polling does not distinguish from a transient
		// one) is swallowed: the job remains in its current state and is
		// retried next tick.
		return false, err
	}

	patch := domain.Patch{Status: domain.JobStatus(status.Status)}
	if status.VideoURL != "" {
		patch.VideoURL = &status.VideoURL
	}
	if status.ThumbnailURL != "" {
		patch.ThumbnailURL = &status.ThumbnailURL
	}
	if status.CreditsUsed > 0 {
		patch.CreditsUsed = &status.CreditsUsed
	}
	if status.ErrorMessage != "" {
		patch.ErrorMessage = &status.ErrorMessage
	}
	completed := domain.JobStatus(status.Status) == domain.JobStatusCompleted
	if completed {
		patch.SetCompletedAt = true
	}

	if err := w.Jobs.Update(ctx, job.ID, patch); err != nil {
		return false, err
	}
	return completed, nil
}
