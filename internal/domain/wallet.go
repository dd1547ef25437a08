package domain

import "time"

// TrackedWallet is one address the tracker watches for swaps. WebhookID is
// only populated for rows created by the legacy one-webhook-per-wallet mode;
// current registrations share a single webhook over the whole set.
type TrackedWallet struct {
	ID        string    `json:"id" db:"id"`
	Address   string    `json:"address" db:"address"`
	Name      string    `json:"name" db:"name"`
	WebhookID *string   `json:"webhook_id,omitempty" db:"webhook_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
