package worker

import (
	"context"
	"encoding/json"
	"errors"

	"server/internal/domain"
	"server/internal/domain/jsoncfg"
	"server/internal/infra"
	"server/internal/providers/videoprovider"
)

const (
	RateLimitAPI          = "provider"
	SubmitWorkerCaller    = "submit-worker"
	PollWorkerCaller      = "poll-worker"
)

// SubmitWorker promotes pending jobs into provider-registered jobs. It
// runs one bounded batch per invocation instead of an infinite poll loop.
type SubmitWorker struct {
	Jobs      domain.JobStore
	RateLimit domain.RateLimitStore
	Provider  videoprovider.Provider
	Logger    infra.Logger
	BatchSize int
}

func (w *SubmitWorker) Run(ctx context.Context) (Result, error) {
	candidates, err := w.Jobs.SelectPending(ctx, w.BatchSize)
	if err != nil {
		return Result{}, err
	}
	if len(candidates) == 0 {
		return Result{Reason: ReasonNoPendingJobs}, nil
	}

	granted, err := w.RateLimit.AcquireSlots(ctx, RateLimitAPI, SubmitWorkerCaller, len(candidates))
	if err != nil {
		return Result{}, err
	}
	if granted == 0 {
		return Result{Reason: ReasonRateLimited}, nil
	}

	result := Result{Slots: granted}
	for _, job := range candidates[:granted] {
		if err := w.submitOne(ctx, job); err != nil {
			var rateLimited *videoprovider.RateLimitedError
			if errors.As(err, &rateLimited) {
				w.Logger.Warn().Str("job_id", job.ID).Msg("submit worker: provider rate limited mid-batch, stopping batch")
				break
			}
			result.Failed++
			w.Logger.Error().Err(err).Str("job_id", job.ID).Msg("submit worker: job submission failed")
			continue
		}
		result.Processed++
	}
	return result, nil
}

func (w *SubmitWorker) submitOne(ctx context.Context, job domain.Job) error {
	var body jsoncfg.RequestJSON
	if err := json.Unmarshal(job.Request, &body); err != nil {
		return w.markFailed(ctx, job.ID, "malformed request payload: "+err.Error())
	}

	req := videoprovider.VideoRequest{
		ScriptText:      body.ScriptText,
		AudioURL:        body.AudioURL,
		VoiceMode:       string(body.VoiceMode),
		AvatarID:        body.AvatarID,
		VoiceID:         body.VoiceID,
		ProductImageURL: body.ProductImageURL,
		ProductName:     body.ProductName,
		AspectRatio:     body.AspectRatio,
		CaptionsEnabled: body.Captions.Enabled,
		CaptionStyle:    body.Captions.Style,
		VisualStyle:     body.VisualStyle,
	}

	created, err := w.Provider.CreateJob(ctx, req)
	if err != nil {
		var rateLimited *videoprovider.RateLimitedError
		if errors.As(err, &rateLimited) {
			return err
		}
		var fatal *videoprovider.FatalError
		if errors.As(err, &fatal) {
			return w.markFailed(ctx, job.ID, fatal.Message)
		}
		// Transient or ambiguous (e.g. timeout): this implementation accepts the
		// duplicate-creation risk rather than guessing at provider state.
		return w.markFailed(ctx, job.ID, err.Error())
	}

	providerJobID := created.ProviderJobID
	status := domain.JobStatus(created.Status)
	return w.Jobs.Update(ctx, job.ID, domain.Patch{
		Status:        status,
		ProviderJobID: &providerJobID,
	})
}

// markFailed records the failure on the job row and always returns a non-nil
// error so Run counts the job as failed: the Update error if the write
// failed, otherwise an error carrying message.
func (w *SubmitWorker) markFailed(ctx context.Context, jobID, message string) error {
	if err := w.Jobs.Update(ctx, jobID, domain.Patch{
		Status:       domain.JobStatusFailed,
		ErrorMessage: &message,
	}); err != nil {
		return err
	}
	return errors.New(message)
}
