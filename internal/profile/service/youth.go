package service

import (
	"context"

	"dojohub/internal/account"
	"dojohub/internal/profile"
	"dojohub/pkg/domain"
	dErrors "dojohub/pkg/domain-errors"
)

// Submission is a caller-supplied profile payload for the youth save and
// update operations. Password and UserTypes are consumed by the save
// workflow and never persisted on the profile record.
type Submission struct {
	UserID               domain.UserID   `json:"userId"`
	Name                 string          `json:"name"`
	Alias                string          `json:"alias"`
	Email                string          `json:"email"`
	Password             string          `json:"password"`
	UserTypes            []string        `json:"userTypes"`
	Parents              []domain.UserID `json:"parents"`
	LanguagesSpoken      []string        `json:"languagesSpoken"`
	ProgrammingLanguages []string        `json:"programmingLanguages"`
	Linkedin             string          `json:"linkedin"`
	Twitter              string          `json:"twitter"`
	Projects             string          `json:"projects"`
	Notes                string          `json:"notes"`
	Badges               []string        `json:"badges"`
	Children             []domain.UserID `json:"children"`
}

// SaveYouthProfile registers a child profile under the acting guardian.
//
// Over-13 children get a real login account first; the profile then carries
// the account's id and user type. Under-13 children never get an account: a
// fresh user id is generated and the profile is linked directly. Either way
// the submitted password and userTypes are stripped before the profile is
// persisted.
func (s *Service) SaveYouthProfile(ctx context.Context, actor domain.UserID, sub Submission) (*profile.Profile, error) {
	// The guardian submitting the profile becomes its sole parent.
	sub.Parents = []domain.UserID{actor}
	if !containsUser(sub.Parents, actor) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unable to save child profile")
	}

	if len(sub.UserTypes) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "userTypes is required")
	}
	initUserType := domain.UserType(sub.UserTypes[0])

	switch initUserType {
	case domain.UserTypeAttendeeO13:
		return s.saveYouthWithAccount(ctx, actor, sub)
	case domain.UserTypeAttendeeU13:
		child := childProfileFrom(sub)
		child.UserID = domain.NewUserID()
		child.UserType = domain.UserTypeAttendeeU13
		return s.attachAndCount(ctx, child, actor)
	default:
		return nil, dErrors.Newf(dErrors.CodeValidation, "unsupported youth user type %q", initUserType)
	}
}

func (s *Service) saveYouthWithAccount(ctx context.Context, actor domain.UserID, sub Submission) (*profile.Profile, error) {
	nick := sub.Alias
	if nick == "" {
		nick = sub.Name
	}

	result, err := s.accounts.Register(ctx, account.Registration{
		Name:         sub.Name,
		Nick:         nick,
		Email:        sub.Email,
		Password:     sub.Password,
		InitUserType: domain.UserTypeAttendeeO13,
		Roles:        []string{"basic-user"},
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "failed to register child account")
	}
	if !result.OK {
		return nil, dErrors.New(dErrors.CodeUpstream, result.Why)
	}

	child := childProfileFrom(sub)
	child.UserID = result.User.ID
	child.UserType = result.User.InitUserType
	return s.attachAndCount(ctx, child, actor)
}

func (s *Service) attachAndCount(ctx context.Context, child *profile.Profile, actor domain.UserID) (*profile.Profile, error) {
	saved, err := s.AttachChild(ctx, child, actor)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementYouthProfilesSaved()
	}
	return saved, nil
}

// childProfileFrom builds the persistable child record, structurally
// stripping password and userTypes from the submission.
func childProfileFrom(sub Submission) *profile.Profile {
	return &profile.Profile{
		UserID:               sub.UserID,
		Name:                 sub.Name,
		Alias:                sub.Alias,
		Email:                sub.Email,
		Parents:              sub.Parents,
		LanguagesSpoken:      sub.LanguagesSpoken,
		ProgrammingLanguages: sub.ProgrammingLanguages,
		Linkedin:             sub.Linkedin,
		Twitter:              sub.Twitter,
		Projects:             sub.Projects,
		Notes:                sub.Notes,
		Badges:               sub.Badges,
	}
}
