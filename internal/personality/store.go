package personality

import (
	"context"
	"errors"
	"sync"
)

// ErrEmptyUserID is returned when a store is asked for a blank user id.
var ErrEmptyUserID = errors.New("personality: empty user id")

// Store persists personality profiles.
type Store interface {
	// GetOrCreate returns the profile for userID, creating a neutral one on
	// first access.
	GetOrCreate(ctx context.Context, userID string) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]*Profile
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*Profile)}
}

func (s *MemoryStore) GetOrCreate(_ context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		p = New(userID)
		s.profiles[userID] = p
	}
	return p.Clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, p *Profile) error {
	if p == nil || p.UserID == "" {
		return ErrEmptyUserID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p.Clone()
	return nil
}
