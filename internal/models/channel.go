package models

import (
	"time"

	"github.com/lib/pq"
)

// Channel represents a registered storefront consumer of the Conecta API
// (web storefront, mobile app, partner integration). Sensitive keys are
// omitted from JSON responses unless explicitly requested.
type Channel struct {
	ID             int            `db:"id" json:"id"`
	ChannelID      string         `db:"channel_id" json:"channelId"`
	Name           string         `db:"name" json:"name"`
	APIKey         string         `db:"api_key" json:"apiKey,omitempty"`
	SandboxKey     string         `db:"sandbox_key" json:"sandboxKey,omitempty"`
	WebhookURL     string         `db:"webhook_url" json:"webhookUrl"`
	WebhookSecret  string         `db:"webhook_secret" json:"webhookSecret,omitempty"`
	IPWhitelist    pq.StringArray `db:"ip_whitelist" json:"ipWhitelist"`
	IsActive       bool           `db:"is_active" json:"isActive"`
	CreatedAt      time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updatedAt"`
}
