package dojo

import (
	"context"
	"sync"

	"dojohub/pkg/domain"
)

// Memory is an in-process Service used in development and tests.
type Memory struct {
	mu          sync.RWMutex
	memberships map[domain.UserID][]Membership
	dojos       map[domain.UserID][]Summary
	leads       map[domain.UserID]int
	led         map[domain.UserID][]Summary
}

func NewMemory() *Memory {
	return &Memory{
		memberships: make(map[domain.UserID][]Membership),
		dojos:       make(map[domain.UserID][]Summary),
		leads:       make(map[domain.UserID]int),
		led:         make(map[domain.UserID][]Summary),
	}
}

// Join records a membership and the dojo summary for the user.
func (m *Memory) Join(userID domain.UserID, summary Summary, userTypes ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memberships[userID] = append(m.memberships[userID], Membership{
		UserID:    userID,
		DojoID:    summary.ID,
		UserTypes: userTypes,
	})
	m.dojos[userID] = append(m.dojos[userID], summary)
}

// Lead records that the user leads a dojo.
func (m *Memory) Lead(userID domain.UserID, summary Summary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads[userID]++
	m.led[userID] = append(m.led[userID], summary)
}

func (m *Memory) UsersDojos(_ context.Context, userID domain.UserID) ([]Membership, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.memberships[userID], nil
}

func (m *Memory) DojosForUser(_ context.Context, userID domain.UserID) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dojos[userID], nil
}

func (m *Memory) SearchDojoLeads(_ context.Context, userID domain.UserID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.leads[userID], nil
}

func (m *Memory) MyDojos(_ context.Context, userID domain.UserID) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.led[userID], nil
}
