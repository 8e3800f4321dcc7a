package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"server/internal/domain"
)

type fakeExecutor struct {
	execQuery string
	execArgs  []any
	execErr   error

	row  fakeRow
	rows *fakeRows
}

func (f *fakeExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	f.execQuery = query
	f.execArgs = args
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return f.row
}

func (f *fakeExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if f.rows == nil {
		return nil, errors.New("no rows configured")
	}
	return f.rows, nil
}

type fakeRow struct {
	err  error
	vals []any
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assignAll(dest, r.vals)
}

type fakeRows struct {
	records [][]any
	idx     int
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.records) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assignAll(dest, r.records[r.idx-1])
}

func (r *fakeRows) Err() error   { return nil }
func (r *fakeRows) Close()       {}
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return nil, nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func assignAll(dest []any, vals []any) error {
	if len(dest) != len(vals) {
		return errors.New("dest/val length mismatch")
	}
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			*d = vals[i].(string)
		case *[]byte:
			*d = vals[i].([]byte)
		case *int:
			*d = vals[i].(int)
		case *time.Time:
			*d = vals[i].(time.Time)
		case *domain.JobStatus:
			*d = vals[i].(domain.JobStatus)
		case **time.Time:
			*d = vals[i].(*time.Time)
		default:
			return errors.New("unsupported dest type")
		}
	}
	return nil
}

func sampleJobRow(id string) []any {
	return []any{id, "user-1", "", domain.JobStatusPending, []byte("{}"), "", "", 0, "", time.Unix(0, 0), time.Unix(0, 0), (*time.Time)(nil)}
}

func TestJobRepositoryGetByIDNotFound(t *testing.T) {
	exec := &fakeExecutor{row: fakeRow{err: pgx.ErrNoRows}}
	repo := NewJobRepository(exec)
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected domain.ErrNotFound, got %v", err)
	}
}

func TestJobRepositoryGetByIDFound(t *testing.T) {
	exec := &fakeExecutor{row: fakeRow{vals: sampleJobRow("job-1")}}
	repo := NewJobRepository(exec)
	job, err := repo.GetByID(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if job.ID != "job-1" || job.Status != domain.JobStatusPending {
		t.Fatalf("unexpected job: %#v", job)
	}
}

func TestJobRepositorySelectPending(t *testing.T) {
	exec := &fakeExecutor{rows: &fakeRows{records: [][]any{sampleJobRow("a"), sampleJobRow("b")}}}
	repo := NewJobRepository(exec)
	jobs, err := repo.SelectPending(context.Background(), 10)
	if err != nil {
		t.Fatalf("SelectPending error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
}

func TestJobRepositoryInsert(t *testing.T) {
	exec := &fakeExecutor{}
	repo := NewJobRepository(exec)
	job := &domain.Job{ID: "job-1", UserID: "user-1", Request: []byte(`{}`)}
	if err := repo.Insert(context.Background(), job); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if len(exec.execArgs) != 3 {
		t.Fatalf("expected 3 exec args, got %d", len(exec.execArgs))
	}
}

func TestJobRepositoryUpdate(t *testing.T) {
	exec := &fakeExecutor{}
	repo := NewJobRepository(exec)
	videoURL := "https://cdn.example.com/v.mp4"
	patch := domain.Patch{Status: domain.JobStatusCompleted, VideoURL: &videoURL, SetCompletedAt: true}
	if err := repo.Update(context.Background(), "job-1", patch); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if exec.execArgs[7] != true {
		t.Fatalf("expected SetCompletedAt=true propagated, got %v", exec.execArgs[7])
	}
}
