// Package store provides user and reset persistence. The memory
// implementations back unit tests and local development; postgres backs
// deployments.
package store

import (
	"context"
	"strings"
	"sync"

	"dojohub/internal/user"
	"dojohub/pkg/domain"
	"dojohub/pkg/platform/sentinel"
)

// MemoryUserStore is a mutex-guarded map store. Favors clarity over
// performance; nick and email lookups scan.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[domain.UserID]user.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[domain.UserID]user.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, u *user.User) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Nick == u.Nick || strings.EqualFold(existing.Email, u.Email) {
			return nil, sentinel.ErrConflict
		}
	}
	stored := *u
	s.users[stored.ID] = stored
	return &stored, nil
}

func (s *MemoryUserStore) Update(_ context.Context, u *user.User) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	stored := *u
	s.users[stored.ID] = stored
	return &stored, nil
}

func (s *MemoryUserStore) FindByID(_ context.Context, id domain.UserID) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		return &u, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryUserStore) FindByNick(_ context.Context, nick string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Nick == nick {
			found := u
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			found := u
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// List returns the users matching the given ids, skipping ids with no record.
func (s *MemoryUserStore) List(_ context.Context, ids []domain.UserID) ([]*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*user.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			found := u
			out = append(out, &found)
		}
	}
	return out, nil
}

// SearchByEmail returns users whose email contains the query,
// case-insensitively, up to limit.
func (s *MemoryUserStore) SearchByEmail(_ context.Context, query string, limit int) ([]*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	out := make([]*user.User, 0, limit)
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Email), q) {
			found := u
			out = append(out, &found)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// MemoryResetStore holds reset records in memory.
type MemoryResetStore struct {
	mu     sync.RWMutex
	resets map[domain.ResetID]user.Reset
}

func NewMemoryResetStore() *MemoryResetStore {
	return &MemoryResetStore{resets: make(map[domain.ResetID]user.Reset)}
}

func (s *MemoryResetStore) Create(_ context.Context, r *user.Reset) (*user.Reset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *r
	s.resets[stored.ID] = stored
	return &stored, nil
}

func (s *MemoryResetStore) Update(_ context.Context, r *user.Reset) (*user.Reset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.resets[r.ID]; !ok {
		return nil, sentinel.ErrNotFound
	}
	stored := *r
	s.resets[stored.ID] = stored
	return &stored, nil
}

func (s *MemoryResetStore) FindByID(_ context.Context, id domain.ResetID) (*user.Reset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.resets[id]; ok {
		return &r, nil
	}
	return nil, sentinel.ErrNotFound
}
