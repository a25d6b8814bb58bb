package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Store keeps session id to user id mappings with an expiry.
type Store interface {
	Save(ctx context.Context, id string, userID int, ttl time.Duration) error
	Load(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	userID  int
	expires time.Time
}

// MemoryStore is a process-local Store. Sessions do not survive a restart
// and are not shared between instances.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]memoryEntry{}, now: time.Now}
}

func (s *MemoryStore) Save(_ context.Context, id string, userID int, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.sessions {
		if !now.Before(e.expires) {
			delete(s.sessions, k)
		}
	}
	s.sessions[id] = memoryEntry{userID: userID, expires: now.Add(ttl)}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return 0, ErrNotFound
	}
	if !s.now().Before(e.expires) {
		delete(s.sessions, id)
		return 0, ErrNotFound
	}
	return e.userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
