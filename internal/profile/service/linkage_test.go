package service

import (
	"context"
	"log/slog"

	"dojohub/internal/profile"
	"dojohub/pkg/domain"
	dErrors "dojohub/pkg/domain-errors"
)

func (s *VisibilitySuite) seedGuardian() domain.UserID {
	return s.seed(profile.Profile{
		UserType: domain.UserTypeParentGuardian,
		Name:     "Parent",
	})
}

func (s *VisibilitySuite) TestAttachChild() {
	s.Run("rejects a child not naming the guardian as parent", func() {
		guardian := s.seedGuardian()
		child := &profile.Profile{
			UserID:   domain.NewUserID(),
			UserType: domain.UserTypeAttendeeU13,
			Parents:  []domain.UserID{domain.NewUserID()},
		}

		_, err := s.service.AttachChild(context.Background(), child, guardian)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("persists the child and links it to the guardian", func() {
		guardian := s.seedGuardian()
		child := &profile.Profile{
			UserID:   domain.NewUserID(),
			UserType: domain.UserTypeAttendeeU13,
			Name:     "Linus",
			Parents:  []domain.UserID{guardian},
		}

		saved, err := s.service.AttachChild(context.Background(), child, guardian)
		s.Require().NoError(err)
		s.NotEmpty(saved.ID)

		stored, err := s.profiles.FindByUserID(context.Background(), guardian)
		s.Require().NoError(err)
		s.Equal([]domain.UserID{saved.UserID}, stored.Children)
	})

	s.Run("fails when the guardian has no profile", func() {
		guardian := domain.NewUserID()
		child := &profile.Profile{
			UserID:  domain.NewUserID(),
			Parents: []domain.UserID{guardian},
		}

		_, err := s.service.AttachChild(context.Background(), child, guardian)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("repeated attachment appends again", func() {
		guardian := s.seedGuardian()
		child := &profile.Profile{
			UserID:  domain.NewUserID(),
			Parents: []domain.UserID{guardian},
		}

		_, err := s.service.AttachChild(context.Background(), child, guardian)
		s.Require().NoError(err)
		_, err = s.service.AttachChild(context.Background(), child, guardian)
		s.Require().NoError(err)

		stored, err := s.profiles.FindByUserID(context.Background(), guardian)
		s.Require().NoError(err)
		s.Len(stored.Children, 2)
	})
}

func (s *VisibilitySuite) TestUpdateYouthProfile() {
	guardian := s.seedGuardian()
	child := &profile.Profile{
		UserID:   domain.NewUserID(),
		UserType: domain.UserTypeAttendeeU13,
		Name:     "Linus",
		Email:    "linus@example.com",
		Parents:  []domain.UserID{guardian},
	}
	_, err := s.service.AttachChild(context.Background(), child, guardian)
	s.Require().NoError(err)

	s.Run("rejects a non-parent actor", func() {
		_, err := s.service.UpdateYouthProfile(context.Background(), domain.NewUserID(), Submission{
			UserID:  child.UserID,
			Parents: []domain.UserID{guardian},
		})
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("applies edits while preserving user type and email", func() {
		updated, err := s.service.UpdateYouthProfile(context.Background(), guardian, Submission{
			UserID:  child.UserID,
			Name:    "Linus T",
			Alias:   "penguin",
			Badges:  []string{"scratch-beginner"},
			Parents: []domain.UserID{guardian},
		})
		s.Require().NoError(err)
		s.Equal("Linus T", updated.Name)
		s.Equal("penguin", updated.Alias)
		s.Equal(domain.UserTypeAttendeeU13, updated.UserType)
		s.Equal("linus@example.com", updated.Email)
	})
}

func (s *VisibilitySuite) TestUpdateYouthProfileInvalidatesGuardianView() {
	cache := newMapCache()
	s.service = NewService(s.profiles, s.dojos, s.registrar, slog.Default(), WithCache(cache))

	guardian := s.seedGuardian()
	child := &profile.Profile{
		UserID:   domain.NewUserID(),
		UserType: domain.UserTypeAttendeeU13,
		Name:     "Linus",
		Parents:  []domain.UserID{guardian},
	}
	_, err := s.service.AttachChild(context.Background(), child, guardian)
	s.Require().NoError(err)

	before := s.resolve(guardian, guardian)
	children := before[profile.FieldResolvedChildren].([]profile.View)
	s.Require().Len(children, 1)
	s.Equal("Linus", children[0][profile.FieldName])

	// The guardian's cached view embeds the child; editing the child must
	// not leave it stale.
	_, err = s.service.UpdateYouthProfile(context.Background(), guardian, Submission{
		UserID:  child.UserID,
		Name:    "Linus T",
		Parents: []domain.UserID{guardian},
	})
	s.Require().NoError(err)

	after := s.resolve(guardian, guardian)
	children = after[profile.FieldResolvedChildren].([]profile.View)
	s.Require().Len(children, 1)
	s.Equal("Linus T", children[0][profile.FieldName])
}
