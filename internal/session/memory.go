package session

import (
	"context"
	"sync"
	"time"

	"github.com/iliyamo/fitness-tracker/internal/utils"
)

type memoryEntry struct {
	profile   Profile
	expiresAt time.Time
}

// MemoryStore keeps sessions in a mutex guarded map.  Expired entries are
// treated as absent on read and removed lazily; there is no sweeper.
type MemoryStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]memoryEntry
}

// NewMemoryStore returns an empty store whose sessions live for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, items: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Create(_ context.Context, p Profile) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		token, err := utils.NewSessionToken()
		if err != nil {
			return "", err
		}
		if _, taken := s.items[token]; taken {
			continue
		}
		s.items[token] = memoryEntry{profile: p, expiresAt: s.now().Add(s.ttl)}
		return token, nil
	}
}

func (s *MemoryStore) Get(_ context.Context, token string) (Profile, error) {
	s.mu.RLock()
	e, ok := s.items[token]
	s.mu.RUnlock()
	if !ok {
		return Profile{}, ErrNotFound
	}
	if !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		delete(s.items, token)
		s.mu.Unlock()
		return Profile{}, ErrNotFound
	}
	return e.profile, nil
}

func (s *MemoryStore) Update(_ context.Context, token string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[token]
	if !ok || !s.now().Before(e.expiresAt) {
		return ErrNotFound
	}
	patch.apply(&e.profile)
	s.items[token] = e
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	delete(s.items, token)
	s.mu.Unlock()
	return nil
}
