package worker

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"server/internal/domain"
	"server/internal/domain/jsoncfg"
	"server/internal/providers/videoprovider"
)

// memJobStore is an in-memory JobStore. It tracks a per-job sequence number
// standing in for updated_at, bumped on every Update, so SelectActive can
// reproduce the real repository's "least-recently-updated first" ordering
// without depending on wall-clock resolution.
type memJobStore struct {
	jobs map[string]*domain.Job
	seq  map[string]int
	tick int
}

func newMemJobStore(jobs ...domain.Job) *memJobStore {
	s := &memJobStore{jobs: map[string]*domain.Job{}, seq: map[string]int{}}
	for i := range jobs {
		j := jobs[i]
		s.jobs[j.ID] = &j
		s.tick++
		s.seq[j.ID] = s.tick
	}
	return s
}

func (s *memJobStore) Insert(ctx context.Context, job *domain.Job) error {
	s.jobs[job.ID] = job
	return nil
}

func (s *memJobStore) SelectPending(ctx context.Context, limit int) ([]domain.Job, error) {
	var out []domain.Job
	for _, j := range s.jobs {
		if j.Status.AwaitingSubmission() {
			out = append(out, *j)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *memJobStore) SelectActive(ctx context.Context, limit int) ([]domain.Job, error) {
	var ids []string
	for id, j := range s.jobs {
		if j.Status.InFlightWithProvider() {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, k int) bool { return s.seq[ids[i]] < s.seq[ids[k]] })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	out := make([]domain.Job, len(ids))
	for i, id := range ids {
		out[i] = *s.jobs[id]
	}
	return out, nil
}

func (s *memJobStore) Update(ctx context.Context, id string, patch domain.Patch) error {
	j, ok := s.jobs[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.tick++
	s.seq[id] = s.tick
	j.Status = patch.Status
	if patch.ProviderJobID != nil {
		j.ProviderJobID = *patch.ProviderJobID
	}
	if patch.VideoURL != nil {
		j.VideoURL = *patch.VideoURL
	}
	if patch.ThumbnailURL != nil {
		j.ThumbnailURL = *patch.ThumbnailURL
	}
	if patch.CreditsUsed != nil {
		j.CreditsUsed = *patch.CreditsUsed
	}
	if patch.ErrorMessage != nil {
		j.ErrorMessage = *patch.ErrorMessage
	}
	if patch.SetCompletedAt {
		now := j.UpdatedAt
		j.CompletedAt = &now
	}
	return nil
}

func (s *memJobStore) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	j, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (s *memJobStore) ListByUser(ctx context.Context, userID string) ([]domain.Job, error) {
	var out []domain.Job
	for _, j := range s.jobs {
		if j.UserID == userID {
			out = append(out, *j)
		}
	}
	return out, nil
}

type memRateLimitStore struct {
	maxCalls map[string]int
	used     map[string]int
}

func newMemRateLimitStore() *memRateLimitStore {
	return &memRateLimitStore{maxCalls: map[string]int{}, used: map[string]int{}}
}

func (s *memRateLimitStore) setBudget(caller string, max int) { s.maxCalls[caller] = max }

func (s *memRateLimitStore) AcquireSlots(ctx context.Context, api, caller string, requested int) (int, error) {
	remaining := s.maxCalls[caller] - s.used[caller]
	if remaining < 0 {
		remaining = 0
	}
	granted := requested
	if granted > remaining {
		granted = remaining
	}
	s.used[caller] += granted
	return granted, nil
}

type stubProvider struct {
	createResult videoprovider.CreateResult
	createErr    error
	statusResult videoprovider.StatusResult
	statusErr    error
	calls        int
	seenIDs      []string
}

func (p *stubProvider) CreateJob(ctx context.Context, req videoprovider.VideoRequest) (videoprovider.CreateResult, error) {
	p.calls++
	return p.createResult, p.createErr
}
func (p *stubProvider) CheckJobStatus(ctx context.Context, id string) (videoprovider.StatusResult, error) {
	p.calls++
	p.seenIDs = append(p.seenIDs, id)
	return p.statusResult, p.statusErr
}
func (p *stubProvider) ListAvatars(ctx context.Context) ([]videoprovider.Avatar, error) { return nil, nil }
func (p *stubProvider) ListVoices(ctx context.Context) ([]videoprovider.Voice, error)    { return nil, nil }
func (p *stubProvider) GetCreditBalance(ctx context.Context) (videoprovider.CreditBalance, error) {
	return videoprovider.CreditBalance{}, nil
}
func (p *stubProvider) Configured() bool { return true }

func pendingJob(id string) domain.Job {
	return domain.Job{
		ID:      id,
		UserID:  "user-1",
		Status:  domain.JobStatusPending,
		Request: jsoncfg.MustMarshal(jsoncfg.RequestJSON{ScriptText: "hi", VoiceMode: jsoncfg.VoiceModeTTS, AvatarID: "a", VoiceID: "v", AspectRatio: "9:16"}),
	}
}

func activeJob(id, providerJobID string, status domain.JobStatus) domain.Job {
	return domain.Job{ID: id, UserID: "user-1", ProviderJobID: providerJobID, Status: status}
}

func TestSubmitThenPollHappyPath(t *testing.T) {
	jobs := newMemJobStore(pendingJob("job-1"))
	rl := newMemRateLimitStore()
	rl.setBudget(SubmitWorkerCaller, 5)
	rl.setBudget(PollWorkerCaller, 5)

	provider := &stubProvider{createResult: videoprovider.CreateResult{ProviderJobID: "p1", Status: "queued"}}
	sw := &SubmitWorker{Jobs: jobs, RateLimit: rl, Provider: provider, BatchSize: 5}
	if _, err := sw.Run(context.Background()); err != nil {
		t.Fatalf("submit run error: %v", err)
	}
	job, _ := jobs.GetByID(context.Background(), "job-1")
	if job.Status != domain.JobStatus("queued") || job.ProviderJobID != "p1" {
		t.Fatalf("unexpected job after submit: %#v", job)
	}

	provider.statusResult = videoprovider.StatusResult{Status: "completed", VideoURL: "https://v/1.mp4", CreditsUsed: 5}
	pw := &PollWorker{Jobs: jobs, RateLimit: rl, Provider: provider, BatchSize: 5}
	if _, err := pw.Run(context.Background()); err != nil {
		t.Fatalf("poll run error: %v", err)
	}
	job, _ = jobs.GetByID(context.Background(), "job-1")
	if job.Status != domain.JobStatusCompleted || job.VideoURL == "" || job.CompletedAt == nil || job.CreditsUsed != 5 {
		t.Fatalf("unexpected job after poll: %#v", job)
	}
}

func TestSubmitAndPollRespectSeparateBudgets(t *testing.T) {
	var pending []domain.Job
	for i := 0; i < 20; i++ {
		pending = append(pending, pendingJob(string(rune('a'+i))))
	}
	var active []domain.Job
	for i := 0; i < 10; i++ {
		active = append(active, activeJob(string(rune('A'+i)), "p"+string(rune('A'+i)), domain.JobStatusQueued))
	}
	jobs := newMemJobStore(append(pending, active...)...)
	rl := newMemRateLimitStore()
	rl.setBudget(SubmitWorkerCaller, 5)
	rl.setBudget(PollWorkerCaller, 10)

	provider := &stubProvider{createResult: videoprovider.CreateResult{ProviderJobID: "p", Status: "queued"}, statusResult: videoprovider.StatusResult{Status: "rendering"}}
	sw := &SubmitWorker{Jobs: jobs, RateLimit: rl, Provider: provider, BatchSize: 20}
	sr, _ := sw.Run(context.Background())
	if sr.Processed != 5 {
		t.Fatalf("expected 5 submitted, got %d", sr.Processed)
	}

	pw := &PollWorker{Jobs: jobs, RateLimit: rl, Provider: provider, BatchSize: 10}
	pr, _ := pw.Run(context.Background())
	if pr.Processed != 10 {
		t.Fatalf("expected 10 polled, got %d", pr.Processed)
	}

	// third invocation of either exhausts the window.
	sr2, _ := sw.Run(context.Background())
	if sr2.Reason != ReasonRateLimited {
		t.Fatalf("expected rate_limited on third submit run, got %#v", sr2)
	}
}

// Poll worker transient failure leaves the row untouched.
func TestPollWorkerTransientFailureLeavesJobUnchanged(t *testing.T) {
	jobs := newMemJobStore(activeJob("job-1", "p1", domain.JobStatusRendering))
	rl := newMemRateLimitStore()
	rl.setBudget(PollWorkerCaller, 5)
	provider := &stubProvider{statusErr: &videoprovider.TransientError{Cause: context.DeadlineExceeded}}
	pw := &PollWorker{Jobs: jobs, RateLimit: rl, Provider: provider, BatchSize: 5}
	if _, err := pw.Run(context.Background()); err != nil {
		t.Fatalf("poll run error: %v", err)
	}
	job, _ := jobs.GetByID(context.Background(), "job-1")
	if job.Status != domain.JobStatusRendering {
		t.Fatalf("expected job to remain rendering, got %q", job.Status)
	}
}

// Submit-time fatal error marks the job failed.
func TestSubmitWorkerFatalErrorMarksJobFailed(t *testing.T) {
	jobs := newMemJobStore(pendingJob("job-1"))
	rl := newMemRateLimitStore()
	rl.setBudget(SubmitWorkerCaller, 5)
	provider := &stubProvider{createErr: &videoprovider.FatalError{Message: "unknown avatar"}}
	sw := &SubmitWorker{Jobs: jobs, RateLimit: rl, Provider: provider, BatchSize: 5}
	result, err := sw.Run(context.Background())
	if err != nil {
		t.Fatalf("submit run error: %v", err)
	}
	if result.Failed != 1 {
		t.Fatalf("expected 1 failed, got %#v", result)
	}
	job, _ := jobs.GetByID(context.Background(), "job-1")
	if job.Status != domain.JobStatusFailed || job.ErrorMessage != "unknown avatar" {
		t.Fatalf("unexpected job after fatal error: %#v", job)
	}
}

// Rate-limit exhaustion before any candidates exist reports the "nothing to
// do" reason without acquiring slots.
func TestSubmitWorkerNoPendingJobs(t *testing.T) {
	jobs := newMemJobStore()
	rl := newMemRateLimitStore()
	sw := &SubmitWorker{Jobs: jobs, RateLimit: rl, Provider: &stubProvider{}, BatchSize: 5}
	result, err := sw.Run(context.Background())
	if err != nil {
		t.Fatalf("submit run error: %v", err)
	}
	if result.Reason != ReasonNoPendingJobs {
		t.Fatalf("expected no_pending_jobs, got %#v", result)
	}
}

// RateLimited during a batch stops the batch immediately, leaving the job pending.
func TestSubmitWorkerStopsBatchOnRateLimited(t *testing.T) {
	jobs := newMemJobStore(pendingJob("job-1"), pendingJob("job-2"))
	rl := newMemRateLimitStore()
	rl.setBudget(SubmitWorkerCaller, 5)
	provider := &stubProvider{createErr: &videoprovider.RateLimitedError{}}
	sw := &SubmitWorker{Jobs: jobs, RateLimit: rl, Provider: provider, BatchSize: 5}
	result, err := sw.Run(context.Background())
	if err != nil {
		t.Fatalf("submit run error: %v", err)
	}
	if result.Processed != 0 || result.Failed != 0 {
		t.Fatalf("expected no progress recorded, got %#v", result)
	}
	job1, _ := jobs.GetByID(context.Background(), "job-1")
	if job1.Status != domain.JobStatusPending {
		t.Fatalf("expected job-1 to remain pending, got %q", job1.Status)
	}
}

// Fairness under backlog: with a batch of 10 against 100 active jobs, ten
// ticks touch every job at least once, since each successful poll bumps the
// job's ordering key to the back of the least-recently-updated queue.
func TestPollWorkerFairnessUnderBacklog(t *testing.T) {
	const total = 100
	const batchSize = 10
	const ticks = 10

	var active []domain.Job
	for i := 0; i < total; i++ {
		active = append(active, activeJob(fmt.Sprintf("job-%03d", i), fmt.Sprintf("p-%03d", i), domain.JobStatusRendering))
	}
	jobs := newMemJobStore(active...)
	rl := newMemRateLimitStore()
	rl.setBudget(PollWorkerCaller, total*ticks)

	provider := &stubProvider{statusResult: videoprovider.StatusResult{Status: "rendering"}}
	pw := &PollWorker{Jobs: jobs, RateLimit: rl, Provider: provider, BatchSize: batchSize}

	seen := map[string]int{}
	for i := 0; i < ticks; i++ {
		result, err := pw.Run(context.Background())
		if err != nil {
			t.Fatalf("poll run %d error: %v", i, err)
		}
		if result.Processed != batchSize {
			t.Fatalf("tick %d: expected %d processed, got %d", i, batchSize, result.Processed)
		}
	}
	for _, id := range provider.seenIDs {
		seen[id]++
	}
	if len(seen) != total {
		t.Fatalf("expected all %d jobs polled at least once after %d ticks, got %d distinct jobs polled", total, ticks, len(seen))
	}
}
