package videoprovider

import "context"

// Provider is the capability interface every upstream video generation
// service must satisfy. Modeled as an interface, not a base type, so a new
// upstream provider can be added without touching callers.
type Provider interface {
	CreateJob(ctx context.Context, req VideoRequest) (CreateResult, error)
	CheckJobStatus(ctx context.Context, providerJobID string) (StatusResult, error)
	ListAvatars(ctx context.Context) ([]Avatar, error)
	ListVoices(ctx context.Context) ([]Voice, error)
	GetCreditBalance(ctx context.Context) (CreditBalance, error)
	Configured() bool
}
