// Package user defines the platform account records and the password reset
// records attached to them.
package user

import (
	"time"

	"dojohub/pkg/domain"
)

// User is a platform login account. Profiles reference users through the
// shared user id; under-13 attendees have a profile but no user record.
type User struct {
	ID           domain.UserID   `json:"id"`
	Nick         string          `json:"nick"`
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	Roles        []string        `json:"roles"`
	InitUserType domain.UserType `json:"initUserType"`
	PasswordHash string          `json:"-"`
	MailingList  int             `json:"mailingList"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Reset is a single-use password reset token. A reset is consumed by
// deactivating it; stale resets are rejected without being consumed.
type Reset struct {
	ID     domain.ResetID `json:"id"`
	UserID domain.UserID  `json:"userId"`
	Active bool           `json:"active"`
	When   time.Time      `json:"when"`
}
