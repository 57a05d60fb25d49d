// Package account owns login account lifecycle: registration, password
// changes and the creation of password reset records. It is the only place
// passwords are hashed.
package account

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"dojohub/internal/user"
	"dojohub/pkg/domain"
	dErrors "dojohub/pkg/domain-errors"
	"dojohub/pkg/email"
	"dojohub/pkg/platform/sentinel"
)

// Registration carries everything needed to create a login account.
type Registration struct {
	Name         string          `json:"name"`
	Nick         string          `json:"nick"`
	Email        string          `json:"email"`
	Password     string          `json:"password"`
	InitUserType domain.UserType `json:"initUserType"`
	Roles        []string        `json:"roles"`
	MailingList  int             `json:"mailingList"`
}

// RegisterResult reports the outcome of a registration attempt. A taken nick
// or email is not an error: OK is false and Why explains which.
type RegisterResult struct {
	OK   bool       `json:"ok"`
	Why  string     `json:"why,omitempty"`
	User *user.User `json:"user,omitempty"`
}

// UserStore is the slice of user persistence the account service needs.
type UserStore interface {
	Create(ctx context.Context, u *user.User) (*user.User, error)
	Update(ctx context.Context, u *user.User) (*user.User, error)
	FindByID(ctx context.Context, id domain.UserID) (*user.User, error)
	FindByNick(ctx context.Context, nick string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// ResetStore persists password reset records.
type ResetStore interface {
	Create(ctx context.Context, r *user.Reset) (*user.Reset, error)
	FindByID(ctx context.Context, id domain.ResetID) (*user.Reset, error)
	Update(ctx context.Context, r *user.Reset) (*user.Reset, error)
}

type Service struct {
	users  UserStore
	resets ResetStore
	logger *slog.Logger
}

func NewService(users UserStore, resets ResetStore, logger *slog.Logger) *Service {
	return &Service{users: users, resets: resets, logger: logger}
}

// Register creates a login account. Nick and email must be unused; a clash
// yields an OK=false result rather than an error so callers can surface the
// reason to the form.
func (s *Service) Register(ctx context.Context, reg Registration) (RegisterResult, error) {
	if reg.Email == "" {
		return RegisterResult{}, dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if reg.Password == "" {
		return RegisterResult{}, dErrors.New(dErrors.CodeValidation, "password is required")
	}
	nick := reg.Nick
	if nick == "" {
		nick = reg.Email
	}
	name := reg.Name
	if name == "" {
		first, last := email.DeriveNameFromEmail(reg.Email)
		name = first + " " + last
	}

	if taken, err := s.nickTaken(ctx, nick); err != nil {
		return RegisterResult{}, err
	} else if taken {
		return RegisterResult{OK: false, Why: "nick-exists"}, nil
	}
	if taken, err := s.emailTaken(ctx, reg.Email); err != nil {
		return RegisterResult{}, err
	} else if taken {
		return RegisterResult{OK: false, Why: "email-exists"}, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return RegisterResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	created, err := s.users.Create(ctx, &user.User{
		ID:           domain.NewUserID(),
		Nick:         nick,
		Email:        strings.ToLower(reg.Email),
		Name:         name,
		Roles:        reg.Roles,
		InitUserType: reg.InitUserType,
		PasswordHash: string(hash),
		MailingList:  reg.MailingList,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return RegisterResult{OK: false, Why: "nick-exists"}, nil
		}
		return RegisterResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
	}

	s.logger.InfoContext(ctx, "account registered", "user_id", created.ID, "init_user_type", created.InitUserType)
	return RegisterResult{OK: true, User: created}, nil
}

// ChangePassword sets a new password after confirming both entries match.
func (s *Service) ChangePassword(ctx context.Context, userID domain.UserID, password, repeat string) error {
	if password == "" || password != repeat {
		return dErrors.New(dErrors.CodeValidation, "passwords do not match")
	}

	u, err := s.loadByID(ctx, userID)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	u.PasswordHash = string(hash)
	if _, err := s.users.Update(ctx, u); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update user")
	}
	s.logger.InfoContext(ctx, "password changed", "user_id", userID)
	return nil
}

// CreateReset creates an active reset record for the user matching the given
// email or nick. The lookup tries email first, then nick.
func (s *Service) CreateReset(ctx context.Context, emailOrNick string) (*user.Reset, *user.User, error) {
	if emailOrNick == "" {
		return nil, nil, dErrors.New(dErrors.CodeValidation, "email or nick is required")
	}

	u, err := s.users.FindByEmail(ctx, strings.ToLower(emailOrNick))
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
		}
		u, err = s.users.FindByNick(ctx, emailOrNick)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, nil, dErrors.New(dErrors.CodeNotFound, "user not found")
			}
			return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
		}
	}

	reset, err := s.resets.Create(ctx, &user.Reset{
		ID:     domain.NewResetID(),
		UserID: u.ID,
		Active: true,
		When:   time.Now().UTC(),
	})
	if err != nil {
		return nil, nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create reset")
	}
	s.logger.InfoContext(ctx, "password reset created", "user_id", u.ID, "reset_id", reset.ID)
	return reset, u, nil
}

// LoadReset fetches a reset record by id.
func (s *Service) LoadReset(ctx context.Context, id domain.ResetID) (*user.Reset, error) {
	r, err := s.resets.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Reset not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reset")
	}
	return r, nil
}

// DeactivateReset consumes a reset record.
func (s *Service) DeactivateReset(ctx context.Context, r *user.Reset) error {
	r.Active = false
	if _, err := s.resets.Update(ctx, r); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to deactivate reset")
	}
	return nil
}

func (s *Service) nickTaken(ctx context.Context, nick string) (bool, error) {
	_, err := s.users.FindByNick(ctx, nick)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check nick")
}

func (s *Service) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.users.FindByEmail(ctx, strings.ToLower(email))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email")
}

func (s *Service) loadByID(ctx context.Context, userID domain.UserID) (*user.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return u, nil
}
