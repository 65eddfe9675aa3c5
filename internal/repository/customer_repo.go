package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ConectaTel/conecta_api/internal/models"
)

// CustomerRepository handles data access for CRM customers.
type CustomerRepository struct {
	db *sqlx.DB
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(db *sqlx.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// GetByID returns a single customer by id.
func (r *CustomerRepository) GetByID(id int) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.Get(&c, `SELECT * FROM customers WHERE id = $1 LIMIT 1`, id); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByPhone returns a single customer by phone number.
func (r *CustomerRepository) GetByPhone(phone string) (*models.Customer, error) {
	var c models.Customer
	if err := r.db.Get(&c, `SELECT * FROM customers WHERE phone = $1 LIMIT 1`, phone); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetAllPaged returns customers with filters and pagination plus total count.
// Filters: search (ILIKE on name/phone/email), personType, tag. Empty
// filters are ignored.
func (r *CustomerRepository) GetAllPaged(search, personType, tag string, page, limit int) ([]models.Customer, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE ($1 = '' OR name ILIKE '%%' || $1 || '%%' OR phone ILIKE '%%' || $1 || '%%' OR email ILIKE '%%' || $1 || '%%')
        AND ($2 = '' OR person_type = $2)
        AND ($3 = '' OR $3 = ANY(tags))`

	countQuery := `SELECT COUNT(1) FROM customers ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, search, personType, tag); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT * FROM customers ` + baseWhere + `
        ORDER BY name LIMIT $4 OFFSET $5`
	var customers []models.Customer
	if err := r.db.Select(&customers, listQuery, search, personType, tag, limit, offset); err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

// GetAudience returns active customers matching a campaign audience: any of
// the given tags (empty = all) and an optional person type, restricted to
// those who opted in on the given channel.
func (r *CustomerRepository) GetAudience(tags []string, personType string, channel models.CampaignChannel) ([]models.Customer, error) {
	optInColumn := "opt_in_whatsapp"
	if channel == models.CampaignEmail {
		optInColumn = "opt_in_email"
	}

	q := `SELECT * FROM customers
        WHERE is_active = true
        AND ` + optInColumn + ` = true
        AND (cardinality($1::text[]) = 0 OR tags && $1)
        AND ($2 = '' OR person_type = $2)
        ORDER BY id`

	var customers []models.Customer
	if err := r.db.Select(&customers, q, pq.Array(tags), personType); err != nil {
		return nil, err
	}
	return customers, nil
}

// Create inserts a new customer.
func (r *CustomerRepository) Create(c *models.Customer) error {
	const q = `
        INSERT INTO customers (name, email, phone, document, person_type, tags, notes, opt_in_whatsapp, opt_in_email, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		c.Name, c.Email, c.Phone, c.Document, c.PersonType, c.Tags, c.Notes,
		c.OptInWhatsApp, c.OptInEmail, c.IsActive,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update overwrites a customer's mutable fields by id.
func (r *CustomerRepository) Update(c *models.Customer) error {
	const q = `
        UPDATE customers SET
            name = $2, email = $3, phone = $4, document = $5, person_type = $6,
            tags = $7, notes = $8, opt_in_whatsapp = $9, opt_in_email = $10,
            is_active = $11, updated_at = NOW()
        WHERE id = $1`

	res, err := r.db.Exec(q,
		c.ID, c.Name, c.Email, c.Phone, c.Document, c.PersonType,
		c.Tags, c.Notes, c.OptInWhatsApp, c.OptInEmail, c.IsActive,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a customer by id.
func (r *CustomerRepository) Delete(id int) error {
	res, err := r.db.Exec(`DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
