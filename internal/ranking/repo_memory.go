package ranking

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores rankings in memory and is safe for concurrent use. It is
// the default when no database is configured; history then lives only as
// long as the process.
type MemoryRepo struct {
	mu      sync.RWMutex
	byID    map[string]Ranking
	byToken map[string][]Ranking
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:    make(map[string]Ranking),
		byToken: make(map[string][]Ranking),
	}
}

// Create stores the ranking.
func (r *MemoryRepo) Create(ctx context.Context, record Ranking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[record.ID] = record
	r.byToken[record.ClientToken] = append(r.byToken[record.ClientToken], record)
	return nil
}

// GetByID returns a ranking by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Ranking, error) {
	if err := ctx.Err(); err != nil {
		return Ranking{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.byID[id]
	if !ok {
		return Ranking{}, ErrNotFound
	}
	return record, nil
}

// ListByToken returns rankings for a token, newest first, with limit/offset.
func (r *MemoryRepo) ListByToken(ctx context.Context, token string, limit, offset int) ([]Ranking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	owned := r.byToken[token]
	r.mu.RUnlock()

	if len(owned) == 0 || offset >= len(owned) {
		return []Ranking{}, nil
	}

	records := make([]Ranking, len(owned))
	copy(records, owned)
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	end := len(records)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return records[offset:end], nil
}

var _ Repo = (*MemoryRepo)(nil)
