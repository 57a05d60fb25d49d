// Package store persists profile records. The memory implementation backs
// unit tests and local development; postgres backs deployments.
package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"dojohub/internal/profile"
	"dojohub/pkg/domain"
	"dojohub/pkg/platform/sentinel"
)

// Memory is a mutex-guarded map store keyed by user id. Save assigns a
// record id on first save and upserts on user id thereafter.
type Memory struct {
	mu       sync.RWMutex
	profiles map[domain.UserID]profile.Profile
}

func NewMemory() *Memory {
	return &Memory{profiles: make(map[domain.UserID]profile.Profile)}
}

func (s *Memory) Save(_ context.Context, p *profile.Profile) (*profile.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *p
	if existing, ok := s.profiles[stored.UserID]; ok && stored.ID == "" {
		stored.ID = existing.ID
	}
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	s.profiles[stored.UserID] = stored
	out := stored
	return &out, nil
}

func (s *Memory) FindByUserID(_ context.Context, userID domain.UserID) (*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[userID]; ok {
		out := p
		return &out, nil
	}
	return nil, sentinel.ErrNotFound
}
