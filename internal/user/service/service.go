// Package service implements the users feature: lookups, role promotion,
// the registration workflow and password resets.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"dojohub/internal/account"
	"dojohub/internal/crm"
	"dojohub/internal/dojo"
	"dojohub/internal/email"
	"dojohub/internal/profile"
	"dojohub/internal/user"
	usermetrics "dojohub/internal/user/metrics"
	"dojohub/pkg/domain"
	dErrors "dojohub/pkg/domain-errors"
	"dojohub/pkg/platform/sentinel"
	strutil "dojohub/pkg/platform/strings"
)

// emailSearchLimit caps the get-users-by-emails result set.
const emailSearchLimit = 10

// UserStore is the slice of user persistence this service needs.
type UserStore interface {
	FindByID(ctx context.Context, id domain.UserID) (*user.User, error)
	Update(ctx context.Context, u *user.User) (*user.User, error)
	List(ctx context.Context, ids []domain.UserID) ([]*user.User, error)
	SearchByEmail(ctx context.Context, query string, limit int) ([]*user.User, error)
}

// AccountService is the account collaborator boundary.
type AccountService interface {
	Register(ctx context.Context, reg account.Registration) (account.RegisterResult, error)
	ChangePassword(ctx context.Context, userID domain.UserID, password, repeat string) error
	CreateReset(ctx context.Context, emailOrNick string) (*user.Reset, *user.User, error)
	LoadReset(ctx context.Context, id domain.ResetID) (*user.Reset, error)
	DeactivateReset(ctx context.Context, r *user.Reset) error
}

// ProfileSaver creates the profile record paired with a new account.
type ProfileSaver interface {
	Save(ctx context.Context, p *profile.Profile) (*profile.Profile, error)
}

// DojoService is the slice of the dojo collaborator the champion check needs.
type DojoService interface {
	SearchDojoLeads(ctx context.Context, userID domain.UserID) (int, error)
	MyDojos(ctx context.Context, userID domain.UserID) ([]dojo.Summary, error)
}

// CaptchaVerifier gates registration on a captcha check.
type CaptchaVerifier interface {
	Verify(ctx context.Context, response string) error
}

// EmailSender delivers reset notification emails.
type EmailSender interface {
	Send(ctx context.Context, msg email.Message) error
}

// CRMPublisher mirrors champion registrations into the CRM, fire-and-forget.
type CRMPublisher interface {
	Publish(ctx context.Context, event crm.SyncEvent)
}

// Service orchestrates user operations.
type Service struct {
	users    UserStore
	accounts AccountService
	profiles ProfileSaver
	dojos    DojoService
	captcha  CaptchaVerifier
	emails   EmailSender
	crm      CRMPublisher
	logger   *slog.Logger
	metrics  *usermetrics.Metrics

	resetPeriod time.Duration
	sendEmail   bool
	crmEnabled  bool
	platformURL string
}

// Config carries the workflow knobs the service needs from configuration.
type Config struct {
	ResetPeriod time.Duration
	SendEmail   bool
	CRMEnabled  bool
	PlatformURL string
}

type Option func(*Service)

// WithMetrics enables feature metrics.
func WithMetrics(m *usermetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(
	users UserStore,
	accounts AccountService,
	profiles ProfileSaver,
	dojos DojoService,
	captchaVerifier CaptchaVerifier,
	emails EmailSender,
	crmPublisher CRMPublisher,
	cfg Config,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		users:       users,
		accounts:    accounts,
		profiles:    profiles,
		dojos:       dojos,
		captcha:     captchaVerifier,
		emails:      emails,
		crm:         crmPublisher,
		logger:      logger,
		resetPeriod: cfg.ResetPeriod,
		sendEmail:   cfg.SendEmail,
		crmEnabled:  cfg.CRMEnabled,
		platformURL: cfg.PlatformURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches a user by id.
func (s *Service) Load(ctx context.Context, id domain.UserID) (*user.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return u, nil
}

// List fetches the users matching the given ids. Unknown ids are skipped.
func (s *Service) List(ctx context.Context, ids []domain.UserID) ([]*user.User, error) {
	users, err := s.users.List(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

// Promote adds roles to a user, deduplicating against the roles already held.
func (s *Service) Promote(ctx context.Context, id domain.UserID, roles []string) (*user.User, error) {
	u, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}

	u.Roles = strutil.DedupeAndTrim(append(u.Roles, roles...))
	updated, err := s.users.Update(ctx, u)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	s.logger.InfoContext(ctx, "user promoted", "user_id", id, "roles", updated.Roles)
	return updated, nil
}

// EmailMatch is one result of an email search: just enough to identify the
// user without exposing the whole record.
type EmailMatch struct {
	Email string        `json:"email"`
	ID    domain.UserID `json:"id"`
}

// GetUsersByEmails finds users whose email contains the query,
// case-insensitively, deduplicated by email and capped at ten matches.
func (s *Service) GetUsersByEmails(ctx context.Context, query string) ([]EmailMatch, error) {
	users, err := s.users.SearchByEmail(ctx, query, emailSearchLimit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search users")
	}

	seen := make(map[string]struct{}, len(users))
	matches := make([]EmailMatch, 0, len(users))
	for _, u := range users {
		key := strings.ToLower(u.Email)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		matches = append(matches, EmailMatch{Email: u.Email, ID: u.ID})
	}
	return matches, nil
}

// Update persists the given user record as-is.
func (s *Service) Update(ctx context.Context, u *user.User) (*user.User, error) {
	updated, err := s.users.Update(ctx, u)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	return updated, nil
}

// InitUserTypes lists the user types selectable at registration.
func (s *Service) InitUserTypes() []domain.InitUserType {
	return domain.InitUserTypes()
}

// ChampionStatus reports whether a user leads any dojos, and which.
type ChampionStatus struct {
	IsChampion bool           `json:"isChampion"`
	Dojos      []dojo.Summary `json:"dojos,omitempty"`
}

// IsChampion checks whether the user owns any dojo lead records. Leads imply
// champion status; the led dojos are attached to the answer.
func (s *Service) IsChampion(ctx context.Context, id domain.UserID) (ChampionStatus, error) {
	if _, err := s.Load(ctx, id); err != nil {
		return ChampionStatus{}, err
	}

	total, err := s.dojos.SearchDojoLeads(ctx, id)
	if err != nil {
		return ChampionStatus{}, dErrors.Wrap(err, dErrors.CodeUpstream, "failed to search dojo leads")
	}
	if total == 0 {
		return ChampionStatus{IsChampion: false}, nil
	}

	myDojos, err := s.dojos.MyDojos(ctx, id)
	if err != nil {
		return ChampionStatus{}, dErrors.Wrap(err, dErrors.CodeUpstream, "failed to load led dojos")
	}
	return ChampionStatus{IsChampion: true, Dojos: myDojos}, nil
}
