package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ConectaTel/conecta_api/internal/models"
)

// OrderRepository handles data access for orders and order items.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts an order and its items in one transaction.
func (r *OrderRepository) Create(order *models.Order) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const orderQ = `
        INSERT INTO orders (order_number, channel_id, customer_id, customer_name, customer_phone,
            customer_email, person_type, modality, status, total_monthly, total_install, item_count, is_sandbox)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        RETURNING id, created_at, updated_at`

	if err := tx.QueryRowx(orderQ,
		order.OrderNumber, order.ChannelID, order.CustomerID, order.CustomerName,
		order.CustomerPhone, order.CustomerEmail, order.PersonType, order.Modality,
		order.Status, order.TotalMonthly, order.TotalInstall, order.ItemCount, order.IsSandbox,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		return err
	}

	const itemQ = `
        INSERT INTO order_items (order_id, plan_id, sku_code, plan_name, category, carrier, unit_price, install_fee, quantity)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id`

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		if err := tx.QueryRowx(itemQ,
			item.OrderID, item.PlanID, item.SkuCode, item.PlanName,
			item.Category, item.Carrier, item.UnitPrice, item.InstallFee, item.Quantity,
		).Scan(&item.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByNumber returns an order with its items by public order number.
func (r *OrderRepository) GetByNumber(orderNumber string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Get(&order, `SELECT * FROM orders WHERE order_number = $1 LIMIT 1`, orderNumber); err != nil {
		return nil, err
	}
	if err := r.loadItems(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByID returns an order with its items by numeric id.
func (r *OrderRepository) GetByID(id int) (*models.Order, error) {
	var order models.Order
	if err := r.db.Get(&order, `SELECT * FROM orders WHERE id = $1 LIMIT 1`, id); err != nil {
		return nil, err
	}
	if err := r.loadItems(&order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) loadItems(order *models.Order) error {
	return r.db.Select(&order.Items, `SELECT * FROM order_items WHERE order_id = $1 ORDER BY id`, order.ID)
}

// GetAllPaged returns orders with filters and pagination plus total count.
// Filters: status, search (ILIKE on order number / customer name / phone).
func (r *OrderRepository) GetAllPaged(status, search string, page, limit int) ([]models.Order, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	offset := (page - 1) * limit

	const baseWhere = `WHERE ($1 = '' OR status = $1)
        AND ($2 = '' OR order_number ILIKE '%%' || $2 || '%%'
            OR customer_name ILIKE '%%' || $2 || '%%'
            OR customer_phone ILIKE '%%' || $2 || '%%')`

	countQuery := `SELECT COUNT(1) FROM orders ` + baseWhere
	var total int
	if err := r.db.Get(&total, countQuery, status, search); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT * FROM orders ` + baseWhere + `
        ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	var orders []models.Order
	if err := r.db.Select(&orders, listQuery, status, search, limit, offset); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// UpdateStatus moves an order to a new status, optionally recording a
// cancellation reason.
func (r *OrderRepository) UpdateStatus(id int, status models.OrderStatus, cancelReason *string) error {
	res, err := r.db.Exec(`
        UPDATE orders SET status = $2, cancel_reason = $3, updated_at = NOW()
        WHERE id = $1`, id, status, cancelReason)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// StatusCount is one bucket of the orders-by-status aggregate.
type StatusCount struct {
	Status models.OrderStatus `db:"status" json:"status"`
	Count  int                `db:"count" json:"count"`
}

// DayCount is one bucket of the orders-per-day aggregate.
type DayCount struct {
	Day     time.Time `db:"day" json:"day"`
	Count   int       `db:"count" json:"count"`
	Revenue int       `db:"revenue" json:"revenue"`
}

// PlanCount is one bucket of the top-plans aggregate.
type PlanCount struct {
	PlanID   int    `db:"plan_id" json:"planId"`
	PlanName string `db:"plan_name" json:"planName"`
	Units    int    `db:"units" json:"units"`
}

// CountByStatus aggregates orders by status since a cutoff time.
func (r *OrderRepository) CountByStatus(since time.Time) ([]StatusCount, error) {
	var out []StatusCount
	err := r.db.Select(&out, `
        SELECT status, COUNT(1) AS count FROM orders
        WHERE created_at >= $1 AND is_sandbox = false
        GROUP BY status ORDER BY status`, since)
	return out, err
}

// CountByDay aggregates order count and monthly revenue per day since a cutoff.
func (r *OrderRepository) CountByDay(since time.Time) ([]DayCount, error) {
	var out []DayCount
	err := r.db.Select(&out, `
        SELECT date_trunc('day', created_at) AS day,
               COUNT(1) AS count,
               COALESCE(SUM(total_monthly), 0) AS revenue
        FROM orders
        WHERE created_at >= $1 AND is_sandbox = false AND status <> 'cancelled'
        GROUP BY day ORDER BY day`, since)
	return out, err
}

// TopPlans returns the best-selling plans by unit count since a cutoff.
func (r *OrderRepository) TopPlans(since time.Time, limit int) ([]PlanCount, error) {
	if limit <= 0 {
		limit = 5
	}
	var out []PlanCount
	err := r.db.Select(&out, `
        SELECT oi.plan_id, oi.plan_name, SUM(oi.quantity) AS units
        FROM order_items oi
        JOIN orders o ON o.id = oi.order_id
        WHERE o.created_at >= $1 AND o.is_sandbox = false AND o.status <> 'cancelled'
        GROUP BY oi.plan_id, oi.plan_name
        ORDER BY units DESC, oi.plan_id
        LIMIT $2`, since, limit)
	return out, err
}
