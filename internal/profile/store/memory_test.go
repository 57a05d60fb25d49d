package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"dojohub/internal/profile"
	"dojohub/pkg/domain"
	"dojohub/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	store *Memory
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemory()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) TestSaveAssignsID() {
	saved, err := s.store.Save(context.Background(), &profile.Profile{
		UserID:   domain.NewUserID(),
		UserType: domain.UserTypeMentor,
		Name:     "Ada",
	})
	s.Require().NoError(err)
	s.NotEmpty(saved.ID)
}

func (s *MemoryStoreSuite) TestSaveUpsertsByUserID() {
	userID := domain.NewUserID()
	first, err := s.store.Save(context.Background(), &profile.Profile{UserID: userID, Name: "Ada"})
	s.Require().NoError(err)

	second, err := s.store.Save(context.Background(), &profile.Profile{UserID: userID, Name: "Ada Lovelace"})
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID)

	found, err := s.store.FindByUserID(context.Background(), userID)
	s.Require().NoError(err)
	s.Equal("Ada Lovelace", found.Name)
}

func (s *MemoryStoreSuite) TestFindUnknownUser() {
	_, err := s.store.FindByUserID(context.Background(), domain.NewUserID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestReturnsCopies() {
	userID := domain.NewUserID()
	saved, err := s.store.Save(context.Background(), &profile.Profile{UserID: userID, Name: "Ada"})
	s.Require().NoError(err)

	saved.Name = "mutated"

	found, err := s.store.FindByUserID(context.Background(), userID)
	s.Require().NoError(err)
	s.Equal("Ada", found.Name)
}
