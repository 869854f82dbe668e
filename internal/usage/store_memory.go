package usage

import (
	"context"
	"sync"
)

// memoryStore keeps counts per token for the lifetime of the process. Quota
// intentionally resets on restart; nothing is persisted.
type memoryStore struct {
	mu    sync.RWMutex
	used  map[string]int
	limit int
}

func newMemoryStore(limit int) *memoryStore {
	return &memoryStore{
		used:  make(map[string]int),
		limit: limit,
	}
}

func (s *memoryStore) Get(ctx context.Context, token string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Usage{Used: s.used[token], Limit: s.limit}, nil
}

func (s *memoryStore) Consume(ctx context.Context, token string, n int) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	used := s.used[token]
	if n <= 0 {
		return Usage{Used: used, Limit: s.limit}, nil
	}
	if used+n > s.limit {
		return Usage{Used: used, Limit: s.limit}, ErrLimitReached
	}
	used += n
	s.used[token] = used
	return Usage{Used: used, Limit: s.limit}, nil
}
