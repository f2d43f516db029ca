// Package memstore keeps user profiles in process memory. Nothing survives a
// restart; use the sqlite store for durable data.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/finquest-app/finquest/internal/domain"
)

// Store is a map-backed domain.ProfileStore. Profiles are cloned on the way in
// and out so callers never share memory with the stored copy.
type Store struct {
	mu       sync.RWMutex
	profiles map[string]*domain.UserProfile
}

// New creates an empty store.
func New() *Store {
	return &Store{profiles: make(map[string]*domain.UserProfile)}
}

// CreateProfile stores p unless the username is taken.
func (s *Store) CreateProfile(_ context.Context, p *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.Username]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateUsername, p.Username)
	}
	s.profiles[p.Username] = p.Clone()
	return nil
}

// LoadProfile returns a copy of the stored profile.
func (s *Store) LoadProfile(_ context.Context, username string) (*domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[username]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
	}
	return p.Clone(), nil
}

// SaveProfile replaces an existing profile.
func (s *Store) SaveProfile(_ context.Context, p *domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.profiles[p.Username]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, p.Username)
	}
	s.profiles[p.Username] = p.Clone()
	return nil
}

// ListUsernames returns every username in sorted order.
func (s *Store) ListUsernames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.profiles))
	for n := range s.profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

var _ domain.ProfileStore = (*Store)(nil)
