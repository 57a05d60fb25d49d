// Package crm mirrors champion registrations into the CRM. An Account is
// created for the champion and a Lead referencing that Account follows. The
// sync is fire-and-forget: registration never waits on it and never fails
// because of it.
package crm

import (
	"context"
	"fmt"

	"dojohub/internal/user"
	"dojohub/pkg/domain"
)

// Account is the CRM account payload for a champion. Field names follow the
// CRM's custom-field convention and must not be renamed.
type Account struct {
	PlatformID  string `json:"PlatformId__c"`
	PlatformURL string `json:"PlatformUrl__c"`
	Email       string `json:"Email__c"`
	Name        string `json:"Name"`
}

// Lead is the CRM lead payload paired with an Account.
type Lead struct {
	PlatformID      string `json:"PlatformId__c"`
	PlatformURL     string `json:"PlatformUrl__c"`
	Email           string `json:"Email__c"`
	LastName        string `json:"LastName"`
	Company         string `json:"Company"`
	ChampionAccount string `json:"ChampionAccount__c"`
}

// SyncEvent is one unit of CRM work: the account plus its lead, keyed by the
// registering user.
type SyncEvent struct {
	UserID  domain.UserID `json:"userId"`
	Account Account       `json:"account"`
	Lead    Lead          `json:"lead"`
}

// NewSyncEvent builds the CRM payloads for a registered champion.
func NewSyncEvent(u *user.User, platformURL string) SyncEvent {
	profileURL := fmt.Sprintf("%s/dashboard/profile/%s", platformURL, u.ID)
	return SyncEvent{
		UserID: u.ID,
		Account: Account{
			PlatformID:  u.ID.String(),
			PlatformURL: profileURL,
			Email:       u.Email,
			Name:        u.Name,
		},
		Lead: Lead{
			PlatformID:      u.ID.String(),
			PlatformURL:     profileURL,
			Email:           u.Email,
			LastName:        u.Name,
			Company:         "<n/a>",
			ChampionAccount: u.ID.String(),
		},
	}
}

// Sink delivers sync events to the CRM transport.
type Sink interface {
	Deliver(ctx context.Context, event SyncEvent) error
}
