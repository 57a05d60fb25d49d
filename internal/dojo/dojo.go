// Package dojo is the boundary to the dojo service. The profile resolver
// reads memberships and dojo summaries through it; the users feature queries
// dojo leads for champion checks. All calls are read-only and idempotent.
package dojo

import (
	"context"

	"dojohub/pkg/domain"
)

// Membership links a user to a dojo together with the user types the dojo
// granted them.
type Membership struct {
	UserID    domain.UserID `json:"userId"`
	DojoID    domain.DojoID `json:"dojoId"`
	UserTypes []string      `json:"userTypes"`
}

// Summary is the embeddable dojo record attached to resolved profiles.
type Summary struct {
	ID      domain.DojoID `json:"id"`
	Name    string        `json:"name"`
	URLSlug string        `json:"urlSlug"`
}

// Service is the dojo collaborator boundary.
type Service interface {
	// UsersDojos lists the user's dojo memberships.
	UsersDojos(ctx context.Context, userID domain.UserID) ([]Membership, error)
	// DojosForUser lists summaries of the dojos the user belongs to.
	DojosForUser(ctx context.Context, userID domain.UserID) ([]Summary, error)
	// SearchDojoLeads returns how many dojo lead records the user owns.
	SearchDojoLeads(ctx context.Context, userID domain.UserID) (int, error)
	// MyDojos lists the dojos the user leads.
	MyDojos(ctx context.Context, userID domain.UserID) ([]Summary, error)
}
