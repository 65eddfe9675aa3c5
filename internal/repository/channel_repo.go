package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/ConectaTel/conecta_api/internal/models"
)

// ChannelRepository provides data access methods for the channels table.
type ChannelRepository struct {
	db *sqlx.DB
}

// NewChannelRepository creates a new ChannelRepository.
func NewChannelRepository(db *sqlx.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

func (r *ChannelRepository) getBy(where string, arg any) (*models.Channel, error) {
	var ch models.Channel
	err := r.db.Get(&ch, `SELECT * FROM channels WHERE `+where+` LIMIT 1`, arg)
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// GetByAPIKey finds a channel by production API key.
func (r *ChannelRepository) GetByAPIKey(apiKey string) (*models.Channel, error) {
	return r.getBy("api_key = $1", apiKey)
}

// GetBySandboxKey finds a channel by sandbox key.
func (r *ChannelRepository) GetBySandboxKey(sandboxKey string) (*models.Channel, error) {
	return r.getBy("sandbox_key = $1", sandboxKey)
}

// GetByChannelID finds a channel by public channel identifier.
func (r *ChannelRepository) GetByChannelID(channelID string) (*models.Channel, error) {
	return r.getBy("channel_id = $1", channelID)
}

// GetByID finds a channel by numeric id.
func (r *ChannelRepository) GetByID(id int) (*models.Channel, error) {
	return r.getBy("id = $1", id)
}

// Create creates a new channel.
func (r *ChannelRepository) Create(ch *models.Channel) error {
	const q = `INSERT INTO channels (channel_id, name, api_key, sandbox_key, webhook_url, webhook_secret, ip_whitelist, is_active)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
              RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		ch.ChannelID, ch.Name, ch.APIKey, ch.SandboxKey,
		ch.WebhookURL, ch.WebhookSecret, ch.IPWhitelist, ch.IsActive,
	).Scan(&ch.ID, &ch.CreatedAt, &ch.UpdatedAt)
}

// Update updates a channel's mutable fields.
func (r *ChannelRepository) Update(ch *models.Channel) error {
	const q = `UPDATE channels SET
            name = $2, webhook_url = $3, ip_whitelist = $4, is_active = $5, updated_at = NOW()
        WHERE id = $1`

	_, err := r.db.Exec(q, ch.ID, ch.Name, ch.WebhookURL, ch.IPWhitelist, ch.IsActive)
	return err
}

// UpdateKeys replaces a channel's API keys and webhook secret.
func (r *ChannelRepository) UpdateKeys(id int, apiKey, sandboxKey, webhookSecret string) error {
	const q = `UPDATE channels SET
            api_key = $2, sandbox_key = $3, webhook_secret = $4, updated_at = NOW()
        WHERE id = $1`

	_, err := r.db.Exec(q, id, apiKey, sandboxKey, webhookSecret)
	return err
}

// List returns all channels.
func (r *ChannelRepository) List() ([]*models.Channel, error) {
	var channels []*models.Channel
	if err := r.db.Select(&channels, `SELECT * FROM channels ORDER BY id`); err != nil {
		return nil, err
	}
	return channels, nil
}
