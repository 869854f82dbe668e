package usage

import "context"

// Store tracks per-token consumption. Counts only grow; there is no reset.
type Store interface {
	Get(ctx context.Context, token string) (Usage, error)
	Consume(ctx context.Context, token string, n int) (Usage, error)
}

// Service manages quota via an underlying store.
type Service struct {
	store Store
}

// NewService constructs a Service with an in-memory store and the given limit.
// A non-positive limit falls back to DefaultFreeLimit.
func NewService(limit int) *Service {
	if limit <= 0 {
		limit = DefaultFreeLimit
	}
	return &Service{store: newMemoryStore(limit)}
}

// NewServiceWithStore constructs a Service over a caller-provided store.
func NewServiceWithStore(store Store) *Service {
	return &Service{store: store}
}

// Get returns the current usage for a token. Unseen tokens report zero used.
func (s *Service) Get(ctx context.Context, token string) (Usage, error) {
	return s.store.Get(ctx, token)
}

// Consume atomically reserves n units for the token. When the reservation
// would push usage past the limit it consumes nothing and returns
// ErrLimitReached alongside the unchanged counts.
func (s *Service) Consume(ctx context.Context, token string, n int) (Usage, error) {
	return s.store.Consume(ctx, token, n)
}
