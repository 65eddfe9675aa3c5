package service

import (
	"database/sql"
	"time"

	"github.com/ConectaTel/conecta_api/internal/models"
	"github.com/ConectaTel/conecta_api/internal/repository"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// OrderService handles order tracking and admin order management.
type OrderService struct {
	orderRepo    *repository.OrderRepository
	campaignRepo *repository.CampaignRepository
}

// NewOrderService constructs an OrderService.
func NewOrderService(orderRepo *repository.OrderRepository, campaignRepo *repository.CampaignRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo, campaignRepo: campaignRepo}
}

// Track returns an order by its public order number.
func (s *OrderService) Track(orderNumber string) (*models.Order, error) {
	order, err := s.orderRepo.GetByNumber(orderNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// GetOrder returns an order by numeric id.
func (s *OrderService) GetOrder(id int) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

// ListOrders returns orders with filters and pagination.
func (s *OrderService) ListOrders(status, search string, page, limit int) ([]models.Order, int, error) {
	return s.orderRepo.GetAllPaged(status, search, page, limit)
}

// UpdateStatus moves an order through its lifecycle, rejecting transitions
// the state machine does not allow.
func (s *OrderService) UpdateStatus(id int, status models.OrderStatus, cancelReason *string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrOrderNotFound
		}
		return nil, err
	}

	if !models.ValidOrderTransition(order.Status, status) {
		return nil, utils.ErrInvalidTransition
	}
	if status != models.OrderCancelled {
		cancelReason = nil
	}

	if err := s.orderRepo.UpdateStatus(id, status, cancelReason); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(id)
}

// DashboardStats aggregates the admin dashboard widgets.
type DashboardStats struct {
	Since      time.Time                  `json:"since"`
	ByStatus   []repository.StatusCount   `json:"byStatus"`
	ByDay      []repository.DayCount      `json:"byDay"`
	TopPlans   []repository.PlanCount     `json:"topPlans"`
	Deliveries []repository.DeliveryStats `json:"deliveries"`
}

// GetDashboardStats aggregates orders and campaign deliveries over the
// trailing window.
func (s *OrderService) GetDashboardStats(window time.Duration) (*DashboardStats, error) {
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}
	since := time.Now().UTC().Add(-window)

	byStatus, err := s.orderRepo.CountByStatus(since)
	if err != nil {
		return nil, err
	}
	byDay, err := s.orderRepo.CountByDay(since)
	if err != nil {
		return nil, err
	}
	topPlans, err := s.orderRepo.TopPlans(since, 5)
	if err != nil {
		return nil, err
	}
	deliveries, err := s.campaignRepo.SendStatsSince(since)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		Since:      since,
		ByStatus:   byStatus,
		ByDay:      byDay,
		TopPlans:   topPlans,
		Deliveries: deliveries,
	}, nil
}
