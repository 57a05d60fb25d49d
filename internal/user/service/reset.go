package service

import (
	"context"
	"fmt"
	"time"

	"dojohub/internal/email"
	"dojohub/internal/user"
	"dojohub/pkg/domain"
	dErrors "dojohub/pkg/domain-errors"
)

// CreateResetRequest identifies the account to reset. Nick and Email are
// alternatives; Locality and ZenHostname shape the notification email.
type CreateResetRequest struct {
	Nick        string `json:"nick"`
	Email       string `json:"email"`
	Locality    string `json:"locality"`
	ZenHostname string `json:"zenHostname"`
}

// CreateReset creates a reset record and, when notifications are enabled,
// emails the owner a reset link.
func (s *Service) CreateReset(ctx context.Context, req CreateResetRequest) error {
	target := req.Email
	if target == "" {
		target = req.Nick
	}

	reset, owner, err := s.accounts.CreateReset(ctx, target)
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.IncrementResetsCreated()
	}

	if !s.sendEmail {
		return nil
	}

	zenHostname := req.ZenHostname
	if zenHostname == "" {
		zenHostname = "127.0.0.1:8000"
	}
	msg := email.Message{
		Code: email.ResetCode(req.Locality),
		To:   owner.Email,
		Content: map[string]any{
			"name":      owner.Name,
			"resetlink": fmt.Sprintf("http://%s/reset_password/%s", zenHostname, reset.ID),
			"year":      time.Now().Format("2006"),
		},
	}
	if err := s.emails.Send(ctx, msg); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "failed to send reset email")
	}
	s.logger.InfoContext(ctx, "reset email sent", "user_id", owner.ID, "reset_id", reset.ID)
	return nil
}

// ResetPassword is the users-facing alias for CreateReset.
func (s *Service) ResetPassword(ctx context.Context, req CreateResetRequest) error {
	return s.CreateReset(ctx, req)
}

// ResetOutcome reports the result of executing a reset token. OK=false
// carries a human-readable Why rather than an error: a bad token is an
// expected answer, not a fault.
type ResetOutcome struct {
	OK    bool        `json:"ok"`
	Why   string      `json:"why,omitempty"`
	User  *user.User  `json:"user,omitempty"`
	Reset *user.Reset `json:"reset,omitempty"`
}

// ExecuteReset consumes a reset token and changes the owner's password.
//
// Token states are checked in order: unknown, already consumed, expired.
// Only after all pass is the password changed and the token deactivated, so
// a failed password change leaves the token usable.
func (s *Service) ExecuteReset(ctx context.Context, token domain.ResetID, password, repeat string) (ResetOutcome, error) {
	reset, err := s.accounts.LoadReset(ctx, token)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return ResetOutcome{OK: false, Why: "Reset not found."}, nil
		}
		return ResetOutcome{}, err
	}

	if !reset.Active {
		return ResetOutcome{OK: false, Why: "Reset not active."}, nil
	}
	if time.Now().After(reset.When.Add(s.resetPeriod)) {
		return ResetOutcome{OK: false, Why: "Reset stale."}, nil
	}

	if err := s.accounts.ChangePassword(ctx, reset.UserID, password, repeat); err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			return ResetOutcome{OK: false, Why: dErrors.MessageOf(err), Reset: reset}, nil
		}
		return ResetOutcome{}, err
	}

	if err := s.accounts.DeactivateReset(ctx, reset); err != nil {
		return ResetOutcome{}, err
	}

	owner, err := s.Load(ctx, reset.UserID)
	if err != nil {
		return ResetOutcome{}, err
	}

	if s.metrics != nil {
		s.metrics.IncrementResetsExecuted()
	}
	s.logger.InfoContext(ctx, "password reset executed", "user_id", reset.UserID, "reset_id", reset.ID)
	return ResetOutcome{OK: true, User: owner, Reset: reset}, nil
}
