package models

import "github.com/google/uuid"

const ProviderDiscord = "discord"

// Account links an external provider identity to an internal user. One row
// per linked provider.
type Account struct {
	Entity
	AccountID  string    `db:"account_id"`
	ProviderID string    `db:"provider_id"`
	UserID     uuid.UUID `db:"user_id"`
}
