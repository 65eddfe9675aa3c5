package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/ConectaTel/conecta_api/internal/models"
)

// PlanRepository handles data access for the plan catalog.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// GetActive returns every active plan in stable catalog order. The
// storefront pipeline (filter, score, badge) runs over this list in
// memory; catalog order is the tie-break for equal scores.
func (r *PlanRepository) GetActive() ([]models.Plan, error) {
	const q = `
        SELECT * FROM plans
        WHERE is_active = true
        ORDER BY sort_order, id`

	var plans []models.Plan
	if err := r.db.Select(&plans, q); err != nil {
		return nil, err
	}
	return plans, nil
}

// GetAllPaged returns plans with admin filters and pagination plus total count.
// Filters: category, carrier, search (ILIKE on name). Empty filters are
// ignored. Page begins at 1.
func (r *PlanRepository) GetAllPaged(category, carrier, search string, page, limit int) ([]models.Plan, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE ($1 = '' OR category = $1)
        AND ($2 = '' OR carrier = $2)
        AND ($3 = '' OR name ILIKE '%%' || $3 || '%%')`

	countQuery := `SELECT COUNT(1) FROM plans ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, category, carrier, search); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT * FROM plans ` + baseWhere + `
        ORDER BY sort_order, id LIMIT $4 OFFSET $5`
	var plans []models.Plan
	if err := r.db.Select(&plans, listQuery, category, carrier, search, limit, offset); err != nil {
		return nil, 0, err
	}
	return plans, total, nil
}

// GetByID returns a single plan by id.
func (r *PlanRepository) GetByID(id int) (*models.Plan, error) {
	var p models.Plan
	if err := r.db.Get(&p, `SELECT * FROM plans WHERE id = $1 LIMIT 1`, id); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySKUCode returns a single plan by sku_code.
func (r *PlanRepository) GetBySKUCode(skuCode string) (*models.Plan, error) {
	var p models.Plan
	if err := r.db.Get(&p, `SELECT * FROM plans WHERE sku_code = $1 LIMIT 1`, skuCode); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a new plan.
func (r *PlanRepository) Create(p *models.Plan) error {
	const q = `
        INSERT INTO plans (sku_code, name, category, carrier, person_type, monthly_price,
            data_allowance, install_fee, lines_included, benefits, calculator_eligible, featured, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		p.SkuCode, p.Name, p.Category, p.Carrier, p.PersonType, p.MonthlyPrice,
		p.DataAllowance, p.InstallFee, p.LinesIncluded, p.Benefits,
		p.CalculatorEligible, p.Featured, p.IsActive,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// Update overwrites a plan's mutable fields by id.
func (r *PlanRepository) Update(p *models.Plan) error {
	const q = `
        UPDATE plans SET
            name = $2, category = $3, carrier = $4, person_type = $5, monthly_price = $6,
            data_allowance = $7, install_fee = $8, lines_included = $9, benefits = $10,
            calculator_eligible = $11, featured = $12, is_active = $13, updated_at = NOW()
        WHERE id = $1`

	res, err := r.db.Exec(q,
		p.ID, p.Name, p.Category, p.Carrier, p.PersonType, p.MonthlyPrice,
		p.DataAllowance, p.InstallFee, p.LinesIncluded, p.Benefits,
		p.CalculatorEligible, p.Featured, p.IsActive,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete soft-deletes a plan by deactivating it. Orders keep their own
// snapshot of plan data so no referential cleanup is needed.
func (r *PlanRepository) Delete(id int) error {
	res, err := r.db.Exec(`UPDATE plans SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetCategories returns the distinct categories present in the catalog.
func (r *PlanRepository) GetCategories() ([]string, error) {
	var out []string
	if err := r.db.Select(&out, `SELECT DISTINCT category FROM plans ORDER BY category`); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCarriers returns the distinct carriers present in the catalog.
func (r *PlanRepository) GetCarriers() ([]string, error) {
	var out []string
	if err := r.db.Select(&out, `SELECT DISTINCT carrier FROM plans ORDER BY carrier`); err != nil {
		return nil, err
	}
	return out, nil
}
