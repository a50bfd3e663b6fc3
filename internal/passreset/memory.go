package passreset

import (
	"context"
	"sync"
)

// MemoryStore keeps pending requests in process memory.  Expired requests
// stay until they are consumed, replaced or rejected as expired.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]Request
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]Request)}
}

func (s *MemoryStore) Save(_ context.Context, email string, req Request) error {
	s.mu.Lock()
	s.items[email] = req
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, email string) (Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.items[email]
	if !ok {
		return Request{}, ErrNotFound
	}
	return req, nil
}

func (s *MemoryStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	delete(s.items, email)
	s.mu.Unlock()
	return nil
}
