package domain

import "time"

// JobStatus enumerates the video job lifecycle states.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusCreated   JobStatus = "created" // legacy synonym for pending, see DESIGN.md open question
	JobStatusSubmitted JobStatus = "submitted"
	JobStatusQueued    JobStatus = "queued"
	JobStatusRendering JobStatus = "rendering"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// IsTerminal reports whether status never re-enters the pipeline.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// AwaitingSubmission reports whether the submit worker should still consider
// this status as candidate work.
func (s JobStatus) AwaitingSubmission() bool {
	return s == JobStatusPending || s == JobStatusCreated
}

// InFlightWithProvider reports whether the poll worker owns this status.
func (s JobStatus) InFlightWithProvider() bool {
	return s == JobStatusSubmitted || s == JobStatusQueued || s == JobStatusRendering
}

// Job is a persistent record of one video-generation request through its
// lifecycle.
type Job struct {
	ID            string
	UserID        string
	ProviderJobID string
	Status        JobStatus
	Request       []byte // opaque jsoncfg.RequestJSON snapshot
	VideoURL      string
	ThumbnailURL  string
	CreditsUsed   int
	ErrorMessage  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
}

// Patch describes a partial update to a job row. A nil pointer field means
// "leave as-is"; SetCompletedAt exists because completedAt's natural zero
// value (unset) is itself meaningful and can't be represented by a pointer
// to time.Time alone without also encoding "clear vs untouched".
type Patch struct {
	Status         JobStatus
	ProviderJobID  *string
	VideoURL       *string
	ThumbnailURL   *string
	CreditsUsed    *int
	ErrorMessage   *string
	SetCompletedAt bool
}
