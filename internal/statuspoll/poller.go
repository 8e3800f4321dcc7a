package statuspoll

import (
	"context"
	"time"

	"server/internal/domain"
)

// StatusReader is the minimal capability the poller needs from the status
// read endpoint or, in tests, an in-memory job store.
type StatusReader interface {
	GetByID(ctx context.Context, jobID string) (*domain.Job, error)
}

// Poller drives the client-side adaptive polling schedule: an
// early tick at 10s, 15s ticks for the first 3 minutes, 30s ticks from
// 3-10 minutes, and 60s thereafter. It stops as soon as the job reaches a
// terminal status and swallows transient read errors, retrying on the
// next tick rather than failing the whole poll.
type Poller struct {
	Reader StatusReader
	// Now, if set, overrides time.Now for deterministic tests.
	Now func() time.Time
	// InitialDelay overrides the first tick's wait (defaults to 10s).
	InitialDelay time.Duration
	// Interval overrides intervalAt, so tests can compress the real
	// 15s/30s/60s cadence into a schedule that finishes quickly.
	Interval func(elapsed time.Duration) time.Duration
}

func (p *Poller) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Poller) initialDelay() time.Duration {
	if p.InitialDelay > 0 {
		return p.InitialDelay
	}
	return 10 * time.Second
}

func (p *Poller) interval(elapsed time.Duration) time.Duration {
	if p.Interval != nil {
		return p.Interval(elapsed)
	}
	return intervalAt(elapsed)
}

// intervalAt returns the wait before the next tick, given how long polling
// has been running.
func intervalAt(elapsed time.Duration) time.Duration {
	switch {
	case elapsed < 3*time.Minute:
		return 15 * time.Second
	case elapsed < 10*time.Minute:
		return 30 * time.Second
	default:
		return 60 * time.Second
	}
}

// Poll blocks until the job reaches a terminal status or ctx is canceled,
// invoking onUpdate after every successful read.
func (p *Poller) Poll(ctx context.Context, jobID string, onUpdate func(*domain.Job)) (*domain.Job, error) {
	start := p.now()
	timer := time.NewTimer(p.initialDelay())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
			job, err := p.Reader.GetByID(ctx, jobID)
			if err != nil {
				timer.Reset(p.interval(p.now().Sub(start)))
				continue
			}
			if onUpdate != nil {
				onUpdate(job)
			}
			if job.Status.IsTerminal() {
				return job, nil
			}
			timer.Reset(p.interval(p.now().Sub(start)))
		}
	}
}
