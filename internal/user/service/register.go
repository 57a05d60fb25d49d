package service

import (
	"context"
	"time"

	"dojohub/internal/account"
	"dojohub/internal/crm"
	"dojohub/internal/profile"
	"dojohub/pkg/domain"
	dErrors "dojohub/pkg/domain-errors"
)

// RegisterRequest is the registration form payload. CaptchaResponse,
// ZenHostname and Locality are transport concerns consumed by the workflow
// and never persisted; IsChampion routes the CRM side effect.
type RegisterRequest struct {
	Name            string `json:"name"`
	Nick            string `json:"nick"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	InitUserType    string `json:"initUserType"`
	MailingList     bool   `json:"mailingList"`
	IsChampion      bool   `json:"isChampion"`
	CaptchaResponse string `json:"g-recaptcha-response"`
	ZenHostname     string `json:"zenHostname"`
	Locality        string `json:"locality"`
}

// Register runs the registration workflow: captcha check, account creation,
// paired profile creation and, for champions, the CRM sync side effect.
//
// Captcha failure short-circuits before any state is touched. A taken nick
// or email surfaces as a conflict. Profile creation failure after the
// account was created is surfaced as-is; the account is not rolled back.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (account.RegisterResult, error) {
	start := time.Now()

	if err := s.captcha.Verify(ctx, req.CaptchaResponse); err != nil {
		return account.RegisterResult{}, err
	}

	mailingList := 0
	if req.MailingList {
		mailingList = 1
	}

	result, err := s.accounts.Register(ctx, account.Registration{
		Name:         req.Name,
		Nick:         req.Nick,
		Email:        req.Email,
		Password:     req.Password,
		InitUserType: domain.UserType(req.InitUserType),
		Roles:        []string{"basic-user"},
		MailingList:  mailingList,
	})
	if err != nil {
		return account.RegisterResult{}, err
	}
	if !result.OK {
		return account.RegisterResult{}, dErrors.New(dErrors.CodeConflict, result.Why)
	}

	registered := result.User
	userType := domain.UserTypeAttendeeO13
	if registered.InitUserType != "" {
		userType = registered.InitUserType
	}

	if _, err := s.profiles.Save(ctx, &profile.Profile{
		UserID:   registered.ID,
		Name:     registered.Name,
		Email:    registered.Email,
		UserType: userType,
	}); err != nil {
		return account.RegisterResult{}, err
	}

	if req.IsChampion && s.crmEnabled && s.crm != nil {
		s.crm.Publish(ctx, crm.NewSyncEvent(registered, s.platformURL))
	}

	s.logger.InfoContext(ctx, "user registered",
		"user_id", registered.ID,
		"user_type", userType,
		"champion", req.IsChampion,
	)
	if s.metrics != nil {
		s.metrics.IncrementUsersRegistered()
		if req.IsChampion {
			s.metrics.IncrementChampionsRegistered()
		}
		s.metrics.ObserveRegister(start)
	}
	return result, nil
}
