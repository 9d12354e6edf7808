package profile

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	// ErrEmptyUserID is returned when a store is asked for a blank user id.
	ErrEmptyUserID = errors.New("profile: empty user id")

	// ErrVersionConflict is returned by Save when the stored profile changed
	// since the caller read it.
	ErrVersionConflict = errors.New("profile: version conflict")
)

// Store persists cognitive profiles keyed by user id.
type Store interface {
	// GetOrCreate returns the profile for userID, creating a default one on
	// first access. The returned profile is a copy owned by the caller.
	GetOrCreate(ctx context.Context, userID string) (*Profile, error)

	// Get returns a copy of the stored profile for userID, or nil when none
	// exists. It never creates one.
	Get(ctx context.Context, userID string) (*Profile, error)

	// Save writes p if its Version matches the stored one, then bumps
	// p.Version. It returns ErrVersionConflict otherwise.
	Save(ctx context.Context, p *Profile) error

	// List returns every stored profile ordered by user id.
	List(ctx context.Context) ([]*Profile, error)
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{profiles: make(map[string]*Profile)}
}

// GetOrCreate implements Store.
func (s *MemoryStore) GetOrCreate(_ context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	s.mu.RLock()
	p, ok := s.profiles[userID]
	s.mu.RUnlock()
	if ok {
		return p.Clone(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.profiles[userID]; ok {
		return p.Clone(), nil
	}
	p = New(userID)
	s.profiles[userID] = p
	return p.Clone(), nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[userID]; ok {
		return p.Clone(), nil
	}
	return nil, nil
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, p *Profile) error {
	if p == nil || p.UserID == "" {
		return ErrEmptyUserID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if existing, ok := s.profiles[p.UserID]; ok {
		current = existing.Version
	}
	if current != p.Version {
		return ErrVersionConflict
	}
	p.Version++
	p.LastUpdated = time.Now()
	s.profiles[p.UserID] = p.Clone()
	return nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}
