package ranking

import "context"

// Repo defines persistence operations for ranking history.
type Repo interface {
	Create(ctx context.Context, record Ranking) error
	GetByID(ctx context.Context, id string) (Ranking, error)
	ListByToken(ctx context.Context, token string, limit, offset int) ([]Ranking, error)
}
