// Package service implements the profile feature: creation, per-viewer
// visibility resolution, parent/child linkage and youth profile management.
package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"dojohub/internal/account"
	"dojohub/internal/dojo"
	"dojohub/internal/profile"
	profilemetrics "dojohub/internal/profile/metrics"
	"dojohub/pkg/domain"
	dErrors "dojohub/pkg/domain-errors"
	"dojohub/pkg/platform/sentinel"
)

// ProfileStore persists profile records. Save assigns an ID on first save.
type ProfileStore interface {
	Save(ctx context.Context, p *profile.Profile) (*profile.Profile, error)
	FindByUserID(ctx context.Context, userID domain.UserID) (*profile.Profile, error)
}

// DojoService is the read-only slice of the dojo collaborator the resolver
// needs.
type DojoService interface {
	UsersDojos(ctx context.Context, userID domain.UserID) ([]dojo.Membership, error)
	DojosForUser(ctx context.Context, userID domain.UserID) ([]dojo.Summary, error)
}

// AccountRegistrar creates login accounts for over-13 youth registrations.
type AccountRegistrar interface {
	Register(ctx context.Context, reg account.Registration) (account.RegisterResult, error)
}

// ViewCache caches resolved views per (viewer, subject) pair. Implementations
// must treat the cache as advisory; a miss is never an error.
type ViewCache interface {
	Get(ctx context.Context, viewer, subject domain.UserID) (profile.View, bool)
	Set(ctx context.Context, viewer, subject domain.UserID, view profile.View)
	Invalidate(ctx context.Context, subject domain.UserID)
}

// Service orchestrates profile operations. All viewer-dependent behavior
// reads the viewer from the arguments, never from ambient state, so the
// resolver stays testable.
type Service struct {
	profiles ProfileStore
	dojos    DojoService
	accounts AccountRegistrar
	cache    ViewCache
	logger   *slog.Logger
	metrics  *profilemetrics.Metrics
	tracer   trace.Tracer
}

type Option func(*Service)

// WithCache enables the resolved-view cache.
func WithCache(cache ViewCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithMetrics enables feature metrics.
func WithMetrics(m *profilemetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(profiles ProfileStore, dojos DojoService, accounts AccountRegistrar, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		profiles: profiles,
		dojos:    dojos,
		accounts: accounts,
		logger:   logger,
		tracer:   otel.Tracer("dojohub/profile"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new profile owned by the acting user and returns its
// resolved view from the owner's perspective.
func (s *Service) Create(ctx context.Context, actor domain.UserID, p *profile.Profile) (profile.View, error) {
	if actor.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	p.UserID = actor

	saved, err := s.profiles.Save(ctx, p)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
	}
	s.invalidate(ctx, saved.UserID)
	if s.metrics != nil {
		s.metrics.IncrementProfilesCreated()
	}

	return s.Resolve(ctx, actor, saved.UserID)
}

// Save persists a profile record without visibility processing. The
// registration workflow uses it to create the paired profile for a new
// account.
func (s *Service) Save(ctx context.Context, p *profile.Profile) (*profile.Profile, error) {
	saved, err := s.profiles.Save(ctx, p)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save profile")
	}
	s.invalidate(ctx, saved.UserID)
	return saved, nil
}

func (s *Service) loadProfile(ctx context.Context, userID domain.UserID) (*profile.Profile, error) {
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	return p, nil
}

func (s *Service) invalidate(ctx context.Context, userID domain.UserID) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, userID)
}
