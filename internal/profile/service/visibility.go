package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"dojohub/internal/profile"
	"dojohub/pkg/domain"
	dErrors "dojohub/pkg/domain-errors"
	strutil "dojohub/pkg/platform/strings"
)

// childResolveConcurrency bounds parallel child lookups for guardians with
// many linked children.
const childResolveConcurrency = 4

// Resolve computes the redacted view of the subject's profile for the given
// viewer. Viewer may be nil (anonymous). The rules follow the platform's
// long-standing behavior exactly; see applyYouthNameRule and hideUnder13 for
// the two deliberately literal quirks.
func (s *Service) Resolve(ctx context.Context, viewer, subject domain.UserID) (profile.View, error) {
	if subject.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "userId is required")
	}

	ctx, span := s.tracer.Start(ctx, "profile.resolve")
	defer span.End()
	start := time.Now()

	if s.cache != nil {
		if view, ok := s.cache.Get(ctx, viewer, subject); ok {
			return view, nil
		}
	}

	p, err := s.loadProfile(ctx, subject)
	if err != nil {
		return nil, err
	}

	memberships, err := s.dojos.UsersDojos(ctx, subject)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "failed to load dojo memberships")
	}
	summaries, err := s.dojos.DojosForUser(ctx, subject)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "failed to load dojos")
	}

	// userTypes is recomputed on every read: the types granted by each dojo
	// membership plus the type assigned at creation.
	userTypes := make([]string, 0, len(memberships)+1)
	for _, m := range memberships {
		userTypes = append(userTypes, m.UserTypes...)
	}
	userTypes = append(userTypes, string(p.UserType))

	ownProfile := p.UserID == viewer
	myChild := !viewer.IsNil() && p.HasParent(viewer)

	view := p.AsView()
	view[profile.FieldUserTypes] = userTypes
	view[profile.FieldDojos] = summaries
	view[profile.FieldMyChild] = myChild

	if !ownProfile && !myChild &&
		(!strutil.Contains(userTypes, string(domain.UserTypeAttendeeU13)) ||
			!strutil.Contains(userTypes, string(domain.UserTypeParentGuardian))) {
		var publicFields []string
		for _, userType := range userTypes {
			if whitelist, ok := profile.Whitelist(userType); ok {
				publicFields = strutil.Union(publicFields, whitelist)
			}
		}
		publicFields = applyYouthNameRule(userTypes, publicFields)
		view = view.Pick(publicFields)
	}

	view = hideUnder13(p, view)

	resolved, err := s.resolveChildren(ctx, view)
	if err != nil {
		return nil, err
	}
	view[profile.FieldResolvedChildren] = resolved
	view[profile.FieldOwnProfileFlag] = ownProfile

	if s.cache != nil {
		s.cache.Set(ctx, viewer, subject, view)
	}
	if s.metrics != nil {
		s.metrics.ObserveResolve(start)
	}
	return view, nil
}

// applyYouthNameRule withholds the name field from over-13 youth profiles.
//
// The rule is implemented as a symmetric difference against the youth
// blacklist, which toggles rather than removes: name is dropped when some
// whitelist granted it and ADDED when none did. That toggle is the
// platform's observed behavior; if product ever confirms the intent is
// "always exclude name", replace the body with a plain subtraction and no
// caller changes.
func applyYouthNameRule(userTypes, publicFields []string) []string {
	if !strutil.Contains(userTypes, string(domain.UserTypeAttendeeO13)) {
		return publicFields
	}
	return strutil.SymmetricDiff(publicFields, profile.YouthBlacklist())
}

// hideUnder13 blanks an under-13 profile entirely.
//
// Kept literal to the platform's behavior: the guard compares the profile's
// own userId against its parents list, which never matches, so every viewer
// of a u13-typed view gets an empty object. Guardians still see their
// children through resolvedChildren on their own profile. The intended
// check is almost certainly "viewer id in parents"; swap the comparison here
// if that intent is ever confirmed.
func hideUnder13(p *profile.Profile, view profile.View) profile.View {
	if !strutil.Contains(view.UserTypes(), string(domain.UserTypeAttendeeU13)) {
		return view
	}
	if p.HasParent(p.UserID) {
		return view
	}
	return profile.View{}
}

// resolveChildren hydrates the guardian's linked children, preserving the
// order of the children sequence. Lookups run concurrently; results land at
// their original index.
func (s *Service) resolveChildren(ctx context.Context, view profile.View) ([]profile.View, error) {
	children := view.Children()
	if len(children) == 0 || !strutil.Contains(view.UserTypes(), string(domain.UserTypeParentGuardian)) {
		return []profile.View{}, nil
	}

	resolved := make([]profile.View, len(children))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(childResolveConcurrency)
	for i, childID := range children {
		g.Go(func() error {
			child, err := s.loadProfile(gctx, childID)
			if err != nil {
				return err
			}
			resolved[i] = child.AsView()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}
