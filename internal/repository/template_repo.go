package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/ConectaTel/conecta_api/internal/models"
)

// TemplateRepository handles data access for message templates.
type TemplateRepository struct {
	db *sqlx.DB
}

// NewTemplateRepository creates a new TemplateRepository.
func NewTemplateRepository(db *sqlx.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// GetByID returns a single template by id.
func (r *TemplateRepository) GetByID(id int) (*models.MessageTemplate, error) {
	var t models.MessageTemplate
	if err := r.db.Get(&t, `SELECT * FROM message_templates WHERE id = $1 LIMIT 1`, id); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns templates, optionally filtered by channel.
func (r *TemplateRepository) List(channel string) ([]models.MessageTemplate, error) {
	var templates []models.MessageTemplate
	err := r.db.Select(&templates, `
        SELECT * FROM message_templates
        WHERE ($1 = '' OR channel = $1)
        ORDER BY name`, channel)
	return templates, err
}

// Create inserts a new template.
func (r *TemplateRepository) Create(t *models.MessageTemplate) error {
	const q = `
        INSERT INTO message_templates (name, channel, subject, variants, is_active)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q, t.Name, t.Channel, t.Subject, t.Variants, t.IsActive).
		Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

// Update overwrites a template's mutable fields by id.
func (r *TemplateRepository) Update(t *models.MessageTemplate) error {
	const q = `
        UPDATE message_templates SET
            name = $2, channel = $3, subject = $4, variants = $5, is_active = $6, updated_at = NOW()
        WHERE id = $1`

	res, err := r.db.Exec(q, t.ID, t.Name, t.Channel, t.Subject, t.Variants, t.IsActive)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a template by id.
func (r *TemplateRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM message_templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
