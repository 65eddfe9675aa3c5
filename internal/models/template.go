package models

import (
	"time"

	"github.com/lib/pq"
)

// MessageTemplate holds the text variants of a WhatsApp or email message.
// Placeholders use {{name}} syntax and are substituted at render time.
// Variants are alternative phrasings rotated across recipients.
type MessageTemplate struct {
	ID        int             `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Channel   CampaignChannel `db:"channel" json:"channel"`
	Subject   *string         `db:"subject" json:"subject,omitempty"`
	Variants  pq.StringArray  `db:"variants" json:"variants"`
	IsActive  bool            `db:"is_active" json:"isActive"`
	CreatedAt time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time       `db:"updated_at" json:"updatedAt"`
}
