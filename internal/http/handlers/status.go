package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"server/internal/domain"
)

type jobStatusResponse struct {
	JobID        string     `json:"jobId"`
	Status       string     `json:"status"`
	VideoURL     string     `json:"videoUrl,omitempty"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty"`
	CreditsUsed  int        `json:"creditsUsed,omitempty"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}

func toStatusResponse(job *domain.Job) jobStatusResponse {
	return jobStatusResponse{
		JobID:        job.ID,
		Status:       string(job.Status),
		VideoURL:     job.VideoURL,
		ThumbnailURL: job.ThumbnailURL,
		CreditsUsed:  job.CreditsUsed,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
		UpdatedAt:    job.UpdatedAt,
		CompletedAt:  job.CompletedAt,
	}
}

// writeJobStatus is a pure database lookup — it never consults the
// provider, decoupling user-visible latency from the provider rate budget.
// Cache-Control communicates the terminal/non-terminal distinction to
// intermediary caches.
func (a *App) writeJobStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	if jobID == "" {
		a.error(w, http.StatusBadRequest, "missing_id", "job id is required")
		return
	}
	job, err := a.Jobs.GetByID(r.Context(), jobID)
	if err != nil {
		a.error(w, statusCode(err), "job_lookup_failed", err.Error())
		return
	}
	if job.Status.IsTerminal() {
		w.Header().Set("Cache-Control", "s-maxage=60")
	} else {
		w.Header().Set("Cache-Control", "no-cache")
	}
	a.json(w, http.StatusOK, toStatusResponse(job))
}

// JobStatus handles POST /job-status with body {jobId}.
func (a *App) JobStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		JobID string `json:"jobId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		a.error(w, http.StatusBadRequest, "invalid_body", "request body must be valid JSON")
		return
	}
	a.writeJobStatus(w, r, body.JobID)
}

// GetJob handles GET /jobs/{id}, the path-param framing of job status.
func (a *App) GetJob(w http.ResponseWriter, r *http.Request) {
	a.writeJobStatus(w, r, chi.URLParam(r, "id"))
}
