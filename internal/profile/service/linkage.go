package service

import (
	"context"

	"dojohub/internal/profile"
	"dojohub/pkg/domain"
	dErrors "dojohub/pkg/domain-errors"
)

// AttachChild persists the child profile and appends its id to the
// guardian's children sequence. The guardian must already be listed in the
// child's parents.
//
// No duplicate check is performed on the guardian's children list, and a
// failure persisting the guardian after the child was saved is surfaced
// as-is without rolling the child back. Both match the platform's
// long-standing behavior.
func (s *Service) AttachChild(ctx context.Context, child *profile.Profile, guardianID domain.UserID) (*profile.Profile, error) {
	if !child.HasParent(guardianID) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not your child")
	}

	saved, err := s.profiles.Save(ctx, child)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save child profile")
	}

	guardian, err := s.loadProfile(ctx, guardianID)
	if err != nil {
		return nil, err
	}

	guardian.Children = append(guardian.Children, saved.UserID)
	if _, err := s.profiles.Save(ctx, guardian); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update guardian profile")
	}

	s.invalidate(ctx, saved.UserID)
	s.invalidate(ctx, guardianID)
	if s.metrics != nil {
		s.metrics.IncrementChildrenLinked()
	}
	s.logger.InfoContext(ctx, "child profile linked",
		"child_user_id", saved.UserID,
		"guardian_user_id", guardianID,
	)
	return saved, nil
}

// UpdateYouthProfile applies a guardian's edits to a linked child profile.
// Derived and sensitive fields in the submission (password, userTypes,
// myChild, ownProfileFlag, dojos, email) are never persisted; the stored
// userType is immutable.
func (s *Service) UpdateYouthProfile(ctx context.Context, actor domain.UserID, sub Submission) (*profile.Profile, error) {
	if !containsUser(sub.Parents, actor) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not authorized to update profile")
	}

	stored, err := s.loadProfile(ctx, sub.UserID)
	if err != nil {
		return nil, err
	}

	stored.Name = sub.Name
	stored.Alias = sub.Alias
	stored.Linkedin = sub.Linkedin
	stored.Twitter = sub.Twitter
	stored.Projects = sub.Projects
	stored.Notes = sub.Notes
	stored.LanguagesSpoken = sub.LanguagesSpoken
	stored.ProgrammingLanguages = sub.ProgrammingLanguages
	stored.Badges = sub.Badges
	stored.Parents = sub.Parents
	if sub.Children != nil {
		stored.Children = sub.Children
	}

	saved, err := s.profiles.Save(ctx, stored)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update child profile")
	}

	s.invalidate(ctx, saved.UserID)
	// Guardians carry copies of child data in resolvedChildren, so their
	// cached views go stale with the child's.
	for _, parentID := range saved.Parents {
		s.invalidate(ctx, parentID)
	}
	return saved, nil
}

func containsUser(ids []domain.UserID, userID domain.UserID) bool {
	for _, candidate := range ids {
		if candidate == userID {
			return true
		}
	}
	return false
}
