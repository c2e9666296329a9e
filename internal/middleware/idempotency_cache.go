package middleware

import (
	"sync"
	"time"

	lru "github.com/zyedidia/generic/cache"
)

type storedResponse struct {
	fingerprint string
	status      int
	contentType string
	body        []byte
	expiresAt   time.Time
}

// IdempotencyStore keeps recent responses per idempotency scope. It is
// bounded by capacity, evicting the least recently used entry, and expires
// entries lazily on read.
type IdempotencyStore struct {
	mu      sync.Mutex
	entries *lru.Cache[string, storedResponse]
	ttl     time.Duration
	now     func() time.Time
}

// NewIdempotencyStore creates a store holding at most capacity responses for ttl.
func NewIdempotencyStore(capacity int, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{
		entries: lru.New[string, storedResponse](max(capacity, 1)),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the live response stored under scope.
func (s *IdempotencyStore) Get(scope string) (storedResponse, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, ok := s.entries.Get(scope)
	if !ok {
		return storedResponse{}, false
	}
	if s.now().After(resp.expiresAt) {
		s.entries.Remove(scope)
		return storedResponse{}, false
	}
	return resp, true
}

// Put stores resp under scope, replacing any previous entry.
func (s *IdempotencyStore) Put(scope string, resp storedResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp.expiresAt = s.now().Add(s.ttl)
	s.entries.Put(scope, resp)
}

// Len returns the number of stored responses, expired ones included.
func (s *IdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Size()
}
