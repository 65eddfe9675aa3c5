package models

import (
	"time"

	"github.com/lib/pq"
)

// Customer represents a CRM contact managed through the admin panel.
// A customer may or may not have placed orders through the storefront.
type Customer struct {
	ID         int            `db:"id" json:"id"`
	Name       string         `db:"name" json:"name"`
	Email      *string        `db:"email" json:"email,omitempty"`
	Phone      string         `db:"phone" json:"phone"`
	Document   *string        `db:"document" json:"document,omitempty"`
	PersonType PersonType     `db:"person_type" json:"personType"`
	Tags       pq.StringArray `db:"tags" json:"tags"`
	Notes      *string        `db:"notes" json:"notes,omitempty"`
	OptInWhatsApp bool        `db:"opt_in_whatsapp" json:"optInWhatsapp"`
	OptInEmail    bool        `db:"opt_in_email" json:"optInEmail"`
	IsActive   bool           `db:"is_active" json:"isActive"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updatedAt"`
}
