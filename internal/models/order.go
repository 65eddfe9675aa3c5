package models

import "time"

// OrderStatus tracks the fulfillment lifecycle of a storefront order.
type OrderStatus string

const (
	OrderReceived   OrderStatus = "received"
	OrderProcessing OrderStatus = "processing"
	OrderInstalled  OrderStatus = "installed"
	OrderActivated  OrderStatus = "activated"
	OrderCancelled  OrderStatus = "cancelled"
)

// Order captures a checkout: a snapshot of the cart lines, the session's
// contract modality, and customer contact data collected at checkout time.
type Order struct {
	ID           int         `db:"id" json:"-"`
	OrderNumber  string      `db:"order_number" json:"orderNumber"`
	ChannelID    int         `db:"channel_id" json:"-"`
	CustomerID   *int        `db:"customer_id" json:"-"`
	CustomerName string      `db:"customer_name" json:"customerName"`
	CustomerPhone string     `db:"customer_phone" json:"customerPhone"`
	CustomerEmail *string    `db:"customer_email" json:"customerEmail,omitempty"`
	PersonType   PersonType  `db:"person_type" json:"personType"`
	Modality     Modality    `db:"modality" json:"modality"`
	Status       OrderStatus `db:"status" json:"status"`
	TotalMonthly int         `db:"total_monthly" json:"totalMonthly"`
	TotalInstall int         `db:"total_install" json:"totalInstall"`
	ItemCount    int         `db:"item_count" json:"itemCount"`
	IsSandbox    bool        `db:"is_sandbox" json:"-"`
	CancelReason *string     `db:"cancel_reason" json:"cancelReason,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updatedAt"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem is one line of an order, snapshotted from the cart at checkout.
type OrderItem struct {
	ID           int          `db:"id" json:"-"`
	OrderID      int          `db:"order_id" json:"-"`
	PlanID       int          `db:"plan_id" json:"planId"`
	SkuCode      string       `db:"sku_code" json:"skuCode"`
	PlanName     string       `db:"plan_name" json:"planName"`
	Category     PlanCategory `db:"category" json:"category"`
	Carrier      Carrier      `db:"carrier" json:"carrier"`
	UnitPrice    int          `db:"unit_price" json:"unitPrice"`
	InstallFee   int          `db:"install_fee" json:"installFee"`
	Quantity     int          `db:"quantity" json:"quantity"`
	CreatedAt    time.Time    `db:"created_at" json:"-"`
}

// ValidOrderTransition reports whether an order may move from one status
// to another. Terminal states are activated and cancelled.
func ValidOrderTransition(from, to OrderStatus) bool {
	switch from {
	case OrderReceived:
		return to == OrderProcessing || to == OrderCancelled
	case OrderProcessing:
		return to == OrderInstalled || to == OrderActivated || to == OrderCancelled
	case OrderInstalled:
		return to == OrderActivated || to == OrderCancelled
	}
	return false
}
