// Package domain holds the typed identifiers and shared catalog constants
// used across the platform features. Typed IDs prevent cross-type assignment
// at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "dojohub/pkg/domain-errors"
)

// UserID identifies a platform participant. Youth under 13 receive a freshly
// generated UserID without a backing login account.
type UserID uuid.UUID

// DojoID identifies a dojo (club) the platform federates with.
type DojoID uuid.UUID

// ResetID identifies a password reset token.
type ResetID uuid.UUID

// NewUserID generates a random user ID.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewResetID generates a random reset token ID.
func NewResetID() ResetID { return ResetID(uuid.New()) }

// ParseUserID parses and validates a user ID at a trust boundary.
// Rejects empty, malformed and nil UUIDs.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseResetID parses and validates a reset token ID.
func ParseResetID(s string) (ResetID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return ResetID{}, err
	}
	return ResetID(u), nil
}

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must not be the nil UUID")
	}
	return u, nil
}

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the ID as its canonical UUID string so IDs embed in
// JSON payloads and cache keys without exposing the byte array form.
func (id UserID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

func (id *UserID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = UserID(u)
	return nil
}

func (id DojoID) String() string { return uuid.UUID(id).String() }
func (id DojoID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id DojoID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

func (id *DojoID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = DojoID(u)
	return nil
}

func (id ResetID) String() string { return uuid.UUID(id).String() }
func (id ResetID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id ResetID) MarshalText() ([]byte, error) {
	return []byte(uuid.UUID(id).String()), nil
}

func (id *ResetID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*id = ResetID(u)
	return nil
}
