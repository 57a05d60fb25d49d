package service

import (
	"context"

	"dojohub/internal/account"
	"dojohub/internal/profile"
	"dojohub/internal/user"
	"dojohub/pkg/domain"
	dErrors "dojohub/pkg/domain-errors"
)

func (s *VisibilitySuite) TestSaveYouthProfileUnder13() {
	guardian := s.seedGuardian()

	saved, err := s.service.SaveYouthProfile(context.Background(), guardian, Submission{
		Name:      "Linus",
		Password:  "should-be-dropped",
		UserTypes: []string{"attendee-u13"},
	})
	s.Require().NoError(err)

	s.False(saved.UserID.IsNil())
	s.Equal(domain.UserTypeAttendeeU13, saved.UserType)
	s.Equal([]domain.UserID{guardian}, saved.Parents)
	s.False(s.registrar.called, "under-13 children never get accounts")

	stored, err := s.profiles.FindByUserID(context.Background(), guardian)
	s.Require().NoError(err)
	s.Equal([]domain.UserID{saved.UserID}, stored.Children)
}

func (s *VisibilitySuite) TestSaveYouthProfileOver13() {
	guardian := s.seedGuardian()
	accountID := domain.NewUserID()
	s.registrar.result = account.RegisterResult{
		OK: true,
		User: &user.User{
			ID:           accountID,
			InitUserType: domain.UserTypeAttendeeO13,
		},
	}

	s.Run("registers an account keyed by alias", func() {
		saved, err := s.service.SaveYouthProfile(context.Background(), guardian, Submission{
			Name:      "Sam",
			Alias:     "sammy",
			Email:     "sam@example.com",
			Password:  "s3cret-pw",
			UserTypes: []string{"attendee-o13"},
		})
		s.Require().NoError(err)

		s.Equal("sammy", s.registrar.lastReg.Nick)
		s.Equal("s3cret-pw", s.registrar.lastReg.Password)
		s.Equal(accountID, saved.UserID)
		s.Equal(domain.UserTypeAttendeeO13, saved.UserType)
	})

	s.Run("falls back to the name as nick", func() {
		_, err := s.service.SaveYouthProfile(context.Background(), guardian, Submission{
			Name:      "Sam",
			Email:     "sam2@example.com",
			Password:  "s3cret-pw",
			UserTypes: []string{"attendee-o13"},
		})
		s.Require().NoError(err)
		s.Equal("Sam", s.registrar.lastReg.Nick)
	})

	s.Run("surfaces a rejected registration", func() {
		s.registrar.result = account.RegisterResult{OK: false, Why: "nick-exists"}

		_, err := s.service.SaveYouthProfile(context.Background(), guardian, Submission{
			Name:      "Sam",
			UserTypes: []string{"attendee-o13"},
		})
		s.True(dErrors.HasCode(err, dErrors.CodeUpstream))
		s.Equal("nick-exists", dErrors.MessageOf(err))
	})
}

func (s *VisibilitySuite) TestSaveYouthProfileValidation() {
	guardian := s.seedGuardian()

	s.Run("requires a user type", func() {
		_, err := s.service.SaveYouthProfile(context.Background(), guardian, Submission{Name: "Sam"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("rejects adult user types", func() {
		_, err := s.service.SaveYouthProfile(context.Background(), guardian, Submission{
			Name:      "Sam",
			UserTypes: []string{"mentor"},
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *VisibilitySuite) TestSavedChildViewStripsSubmissionOnlyFields() {
	guardian := s.seedGuardian()

	saved, err := s.service.SaveYouthProfile(context.Background(), guardian, Submission{
		Name:      "Linus",
		Password:  "s3cret-pw",
		UserTypes: []string{"attendee-u13"},
	})
	s.Require().NoError(err)

	stored, err := s.profiles.FindByUserID(context.Background(), saved.UserID)
	s.Require().NoError(err)

	view := stored.AsView()
	s.NotContains(view, "password")
	s.NotContains(view, profile.FieldUserTypes)
}
