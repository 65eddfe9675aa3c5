package models

import (
	"time"

	"github.com/lib/pq"
)

// CampaignChannel selects the transport a campaign is delivered on.
type CampaignChannel string

const (
	CampaignWhatsApp CampaignChannel = "whatsapp"
	CampaignEmail    CampaignChannel = "email"
)

// CampaignStatus tracks the dispatch lifecycle of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSending   CampaignStatus = "sending"
	CampaignCompleted CampaignStatus = "completed"
	CampaignFailed    CampaignStatus = "failed"
)

// Campaign is a scheduled bulk send of a message template to a customer
// audience selected by tags and/or person type.
type Campaign struct {
	ID             int             `db:"id" json:"id"`
	Name           string          `db:"name" json:"name"`
	Channel        CampaignChannel `db:"channel" json:"channel"`
	TemplateID     int             `db:"template_id" json:"templateId"`
	AudienceTags   pq.StringArray  `db:"audience_tags" json:"audienceTags"`
	PersonType     *PersonType     `db:"person_type" json:"personType,omitempty"`
	MediaURL       *string         `db:"media_url" json:"mediaUrl,omitempty"`
	Status         CampaignStatus  `db:"status" json:"status"`
	ScheduledAt    *time.Time      `db:"scheduled_at" json:"scheduledAt,omitempty"`
	StartedAt      *time.Time      `db:"started_at" json:"startedAt,omitempty"`
	CompletedAt    *time.Time      `db:"completed_at" json:"completedAt,omitempty"`
	FailedReason   *string         `db:"failed_reason" json:"failedReason,omitempty"`
	TotalRecipients int            `db:"total_recipients" json:"totalRecipients"`
	SentCount      int             `db:"sent_count" json:"sentCount"`
	DeliveredCount int             `db:"delivered_count" json:"deliveredCount"`
	FailedCount    int             `db:"failed_count" json:"failedCount"`
	CreatedAt      time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time       `db:"updated_at" json:"updatedAt"`
}

// SendStatus tracks one recipient's delivery state within a campaign.
type SendStatus string

const (
	SendPending   SendStatus = "pending"
	SendSent      SendStatus = "sent"
	SendDelivered SendStatus = "delivered"
	SendFailed    SendStatus = "failed"
)

// CampaignSend is the per-recipient record of a campaign dispatch. The
// provider message ID correlates delivery-receipt webhooks back to it.
type CampaignSend struct {
	ID                int        `db:"id" json:"-"`
	CampaignID        int        `db:"campaign_id" json:"campaignId"`
	CustomerID        int        `db:"customer_id" json:"customerId"`
	Destination       string     `db:"destination" json:"destination"`
	ProviderMessageID *string    `db:"provider_message_id" json:"providerMessageId,omitempty"`
	Status            SendStatus `db:"status" json:"status"`
	FailedReason      *string    `db:"failed_reason" json:"failedReason,omitempty"`
	SentAt            *time.Time `db:"sent_at" json:"sentAt,omitempty"`
	DeliveredAt       *time.Time `db:"delivered_at" json:"deliveredAt,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"-"`
}
