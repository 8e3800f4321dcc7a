package credentials

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubExecutor struct {
	token string
	props string
	err   error
	exec  struct {
		query string
		args  []any
	}
}

func (s *stubExecutor) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	s.exec.query = query
	s.exec.args = args
	return pgconn.CommandTag{}, s.err
}

func (s *stubExecutor) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return stubRow{token: s.token, props: s.props, err: s.err}
}

func (s *stubExecutor) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

type stubRow struct {
	token string
	props string
	err   error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) == 0 {
		return errors.New("no dest")
	}
	ptr, ok := dest[0].(*string)
	if !ok {
		return errors.New("invalid dest")
	}
	*ptr = r.token
	if len(dest) > 1 {
		propsDest, ok := dest[1].(*[]byte)
		if !ok {
			return errors.New("invalid props dest")
		}
		*propsDest = []byte(r.props)
	}
	return nil
}

func TestAPIKey(t *testing.T) {
	store := NewStore(&stubExecutor{token: " abc123 "})
	key, err := store.APIKey(context.Background())
	if err != nil {
		t.Fatalf("APIKey error: %v", err)
	}
	if key != "abc123" {
		t.Fatalf("expected abc123, got %q", key)
	}
}

func TestAPIKeyNoRows(t *testing.T) {
	store := NewStore(&stubExecutor{err: pgx.ErrNoRows})
	key, err := store.APIKey(context.Background())
	if err != nil {
		t.Fatalf("APIKey error: %v", err)
	}
	if key != "" {
		t.Fatalf("expected empty key, got %q", key)
	}
}

func TestAPIID(t *testing.T) {
	store := NewStore(&stubExecutor{token: "abc123", props: `{"api_id":"acct-9"}`})
	id, err := store.APIID(context.Background())
	if err != nil {
		t.Fatalf("APIID error: %v", err)
	}
	if id != "acct-9" {
		t.Fatalf("expected acct-9, got %q", id)
	}
}

func TestAPIIDNoRows(t *testing.T) {
	store := NewStore(&stubExecutor{err: pgx.ErrNoRows})
	id, err := store.APIID(context.Background())
	if err != nil {
		t.Fatalf("APIID error: %v", err)
	}
	if id != "" {
		t.Fatalf("expected empty id, got %q", id)
	}
}

func TestSetVideoProviderCredentials(t *testing.T) {
	exec := &stubExecutor{}
	store := NewStore(exec)
	if err := store.SetVideoProviderCredentials(context.Background(), "secret", "acct-9"); err != nil {
		t.Fatalf("SetVideoProviderCredentials error: %v", err)
	}
	if len(exec.exec.args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(exec.exec.args))
	}
	if v, ok := exec.exec.args[0].(string); !ok || v != ProviderVideo {
		t.Fatalf("expected provider %q, got %T %v", ProviderVideo, exec.exec.args[0], exec.exec.args[0])
	}
	if v, ok := exec.exec.args[1].(string); !ok || v != "secret" {
		t.Fatalf("expected secret argument, got %T %v", exec.exec.args[1], exec.exec.args[1])
	}
}

func TestSetVideoProviderCredentialsEmptyKey(t *testing.T) {
	store := NewStore(&stubExecutor{})
	if err := store.SetVideoProviderCredentials(context.Background(), " ", ""); err == nil {
		t.Fatal("expected error for empty api key")
	}
}
