package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ConectaTel/conecta_api/internal/models"
)

// CampaignRepository handles data access for campaigns and per-recipient sends.
type CampaignRepository struct {
	db *sqlx.DB
}

// NewCampaignRepository creates a new CampaignRepository.
func NewCampaignRepository(db *sqlx.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

// Create inserts a new campaign in draft state.
func (r *CampaignRepository) Create(cp *models.Campaign) error {
	const q = `
        INSERT INTO campaigns (name, channel, template_id, audience_tags, person_type, media_url, status, scheduled_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		cp.Name, cp.Channel, cp.TemplateID, cp.AudienceTags, cp.PersonType,
		cp.MediaURL, cp.Status, cp.ScheduledAt,
	).Scan(&cp.ID, &cp.CreatedAt, &cp.UpdatedAt)
}

// GetByID returns a single campaign by id.
func (r *CampaignRepository) GetByID(id int) (*models.Campaign, error) {
	var cp models.Campaign
	if err := r.db.Get(&cp, `SELECT * FROM campaigns WHERE id = $1 LIMIT 1`, id); err != nil {
		return nil, err
	}
	return &cp, nil
}

// GetAllPaged returns campaigns filtered by status with pagination.
func (r *CampaignRepository) GetAllPaged(status string, page, limit int) ([]models.Campaign, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE ($1 = '' OR status = $1)`

	countQuery := `SELECT COUNT(1) FROM campaigns ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, status); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT * FROM campaigns ` + baseWhere + `
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	var campaigns []models.Campaign
	if err := r.db.Select(&campaigns, listQuery, status, limit, offset); err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// Update overwrites a draft campaign's definition.
func (r *CampaignRepository) Update(cp *models.Campaign) error {
	const q = `
        UPDATE campaigns SET
            name = $2, channel = $3, template_id = $4, audience_tags = $5,
            person_type = $6, media_url = $7, scheduled_at = $8, updated_at = NOW()
        WHERE id = $1`

	res, err := r.db.Exec(q,
		cp.ID, cp.Name, cp.Channel, cp.TemplateID, cp.AudienceTags,
		cp.PersonType, cp.MediaURL, cp.ScheduledAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetStatus moves a campaign to a new lifecycle status.
func (r *CampaignRepository) SetStatus(id int, status models.CampaignStatus) error {
	_, err := r.db.Exec(`UPDATE campaigns SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return err
}

// GetScheduled returns every campaign awaiting dispatch, oldest first.
func (r *CampaignRepository) GetScheduled() ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.db.Select(&campaigns, `
        SELECT * FROM campaigns WHERE status = 'scheduled' ORDER BY scheduled_at`)
	if err != nil {
		return nil, err
	}
	return campaigns, nil
}

// MarkSending claims one scheduled campaign for dispatch. The status guard
// ensures a campaign is picked up exactly once even with overlapping worker
// runs; a lost race reports sql.ErrNoRows.
func (r *CampaignRepository) MarkSending(id int) error {
	res, err := r.db.Exec(`
        UPDATE campaigns SET status = 'sending', started_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND status = 'scheduled'`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// RequeueStale returns campaigns stuck in sending back to scheduled. A
// dispatch run that died mid-flight leaves its claim behind; anything
// started before the cutoff is assumed dead.
func (r *CampaignRepository) RequeueStale(olderThan time.Time) (int64, error) {
	res, err := r.db.Exec(`
        UPDATE campaigns SET status = 'scheduled', started_at = NULL, updated_at = NOW()
        WHERE status = 'sending' AND started_at < $1`, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Finish records the terminal state of a dispatch run.
func (r *CampaignRepository) Finish(id int, status models.CampaignStatus, failedReason *string) error {
	_, err := r.db.Exec(`
        UPDATE campaigns SET status = $2, failed_reason = $3, completed_at = NOW(), updated_at = NOW()
        WHERE id = $1`, id, status, failedReason)
	return err
}

// SetCounters updates the aggregate recipient counters.
func (r *CampaignRepository) SetCounters(id, total, sent, failed int) error {
	_, err := r.db.Exec(`
        UPDATE campaigns SET total_recipients = $2, sent_count = $3, failed_count = $4, updated_at = NOW()
        WHERE id = $1`, id, total, sent, failed)
	return err
}

// CreateSend inserts one per-recipient send record.
func (r *CampaignRepository) CreateSend(s *models.CampaignSend) error {
	const q = `
        INSERT INTO campaign_sends (campaign_id, customer_id, destination, provider_message_id, status, failed_reason, sent_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at`

	return r.db.QueryRowx(q,
		s.CampaignID, s.CustomerID, s.Destination, s.ProviderMessageID,
		s.Status, s.FailedReason, s.SentAt,
	).Scan(&s.ID, &s.CreatedAt)
}

// GetSends returns the per-recipient records for a campaign.
func (r *CampaignRepository) GetSends(campaignID int) ([]models.CampaignSend, error) {
	var sends []models.CampaignSend
	err := r.db.Select(&sends, `SELECT * FROM campaign_sends WHERE campaign_id = $1 ORDER BY id`, campaignID)
	return sends, err
}

// MarkDelivered flips a send to delivered by provider message ID and bumps
// the campaign's delivered counter. Unknown message IDs are reported via
// sql.ErrNoRows so the webhook handler can log and drop them.
func (r *CampaignRepository) MarkDelivered(providerMessageID string, at time.Time) error {
	var campaignID int
	err := r.db.Get(&campaignID, `
        UPDATE campaign_sends SET status = 'delivered', delivered_at = $2
        WHERE provider_message_id = $1 AND status = 'sent'
        RETURNING campaign_id`, providerMessageID, at)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`UPDATE campaigns SET delivered_count = delivered_count + 1, updated_at = NOW() WHERE id = $1`, campaignID)
	return err
}

// MarkSendFailed flips a send to failed by provider message ID.
func (r *CampaignRepository) MarkSendFailed(providerMessageID, reason string) error {
	var campaignID int
	err := r.db.Get(&campaignID, `
        UPDATE campaign_sends SET status = 'failed', failed_reason = $2
        WHERE provider_message_id = $1
        RETURNING campaign_id`, providerMessageID, reason)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(`UPDATE campaigns SET failed_count = failed_count + 1, updated_at = NOW() WHERE id = $1`, campaignID)
	return err
}

// DeliveryStats aggregates sends by status since a cutoff, for dashboards.
type DeliveryStats struct {
	Status models.SendStatus `db:"status" json:"status"`
	Count  int               `db:"count" json:"count"`
}

// SendStatsSince aggregates campaign sends by delivery status.
func (r *CampaignRepository) SendStatsSince(since time.Time) ([]DeliveryStats, error) {
	var out []DeliveryStats
	err := r.db.Select(&out, `
        SELECT status, COUNT(1) AS count FROM campaign_sends
        WHERE created_at >= $1
        GROUP BY status ORDER BY status`, since)
	return out, err
}
