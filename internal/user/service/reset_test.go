package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dojohub/pkg/domain"
	dErrors "dojohub/pkg/domain-errors"
)

func (s *UserServiceSuite) TestCreateReset() {
	s.register(RegisterRequest{
		Name: "Ada", Nick: "ada", Email: "ada@example.com",
		Password: "s3cret-pw", CaptchaResponse: "token",
	})

	s.Run("emails a reset link", func() {
		err := s.service.CreateReset(context.Background(), CreateResetRequest{
			Email:       "ada@example.com",
			Locality:    "pt_BR",
			ZenHostname: "zen.example.com",
		})
		s.Require().NoError(err)

		s.Require().Len(s.emails.messages, 1)
		msg := s.emails.messages[0]
		s.Equal("auth-create-reset-pt_BR", msg.Code)
		s.Equal("ada@example.com", msg.To)
		s.Equal("Ada", msg.Content["name"])
		s.Contains(msg.Content["resetlink"], "http://zen.example.com/reset_password/")
	})

	s.Run("finds the account by nick", func() {
		err := s.service.CreateReset(context.Background(), CreateResetRequest{Nick: "ada"})
		s.Require().NoError(err)
	})

	s.Run("unknown account is not found", func() {
		err := s.service.CreateReset(context.Background(), CreateResetRequest{Email: "nobody@example.com"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *UserServiceSuite) TestExecuteReset() {
	registered := s.register(RegisterRequest{
		Name: "Ada", Nick: "ada", Email: "ada@example.com",
		Password: "old-password", CaptchaResponse: "token",
	})

	createReset := func() domain.ResetID {
		reset, _, err := s.accounts.CreateReset(context.Background(), "ada@example.com")
		s.Require().NoError(err)
		return reset.ID
	}

	s.Run("unknown token", func() {
		outcome, err := s.service.ExecuteReset(context.Background(), domain.NewResetID(), "new-password", "new-password")
		s.Require().NoError(err)
		s.False(outcome.OK)
		s.Equal("Reset not found.", outcome.Why)
	})

	s.Run("consumed token is not active", func() {
		token := createReset()
		_, err := s.service.ExecuteReset(context.Background(), token, "new-password", "new-password")
		s.Require().NoError(err)

		outcome, err := s.service.ExecuteReset(context.Background(), token, "another-pw", "another-pw")
		s.Require().NoError(err)
		s.False(outcome.OK)
		s.Equal("Reset not active.", outcome.Why)
	})

	s.Run("stale token", func() {
		token := createReset()
		reset, err := s.resets.FindByID(context.Background(), token)
		s.Require().NoError(err)
		reset.When = time.Now().Add(-48 * time.Hour)
		_, err = s.resets.Update(context.Background(), reset)
		s.Require().NoError(err)

		outcome, err := s.service.ExecuteReset(context.Background(), token, "new-password", "new-password")
		s.Require().NoError(err)
		s.False(outcome.OK)
		s.Equal("Reset stale.", outcome.Why)
	})

	s.Run("mismatched passwords leave the token usable", func() {
		token := createReset()

		outcome, err := s.service.ExecuteReset(context.Background(), token, "new-password", "different")
		s.Require().NoError(err)
		s.False(outcome.OK)

		reset, err := s.resets.FindByID(context.Background(), token)
		s.Require().NoError(err)
		s.True(reset.Active)
	})

	s.Run("changes the password and consumes the token", func() {
		token := createReset()

		outcome, err := s.service.ExecuteReset(context.Background(), token, "new-password", "new-password")
		s.Require().NoError(err)
		s.True(outcome.OK)
		s.Require().NotNil(outcome.User)
		s.Equal(registered.ID, outcome.User.ID)

		changed, err := s.users.FindByID(context.Background(), registered.ID)
		s.Require().NoError(err)
		s.NoError(bcrypt.CompareHashAndPassword([]byte(changed.PasswordHash), []byte("new-password")))

		reset, err := s.resets.FindByID(context.Background(), token)
		s.Require().NoError(err)
		s.False(reset.Active)
	})
}
