package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ConectaTel/conecta_api/internal/cache"
	"github.com/ConectaTel/conecta_api/internal/cart"
	"github.com/ConectaTel/conecta_api/internal/models"
	"github.com/ConectaTel/conecta_api/internal/repository"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// cartStore is the persistence seam for session carts.
type cartStore interface {
	Get(ctx context.Context, sessionID string) (*cache.CartEntry, error)
	Save(ctx context.Context, entry *cache.CartEntry) error
	Delete(ctx context.Context, sessionID string) error
}

// CartService owns the session carts. Each mutation loads the cart from
// Redis, applies the aggregator operation, and writes it back; the SVA
// per-line rule is enforced inside the aggregator and surfaced to the
// storefront as a validation message, never as a server fault.
type CartService struct {
	cartCache    cartStore
	sessionCache *cache.SessionCache
	planRepo     *repository.PlanRepository
	orderRepo    *repository.OrderRepository
	customerRepo *repository.CustomerRepository
}

// NewCartService constructs a CartService.
func NewCartService(
	cartCache cartStore,
	sessionCache *cache.SessionCache,
	planRepo *repository.PlanRepository,
	orderRepo *repository.OrderRepository,
	customerRepo *repository.CustomerRepository,
) *CartService {
	return &CartService{
		cartCache:    cartCache,
		sessionCache: sessionCache,
		planRepo:     planRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
	}
}

// CartView is the storefront-facing snapshot of a cart with its derived
// totals, recomputed on every read.
type CartView struct {
	Lines        []cart.Line `json:"lines"`
	TotalMonthly int         `json:"totalMonthly"`
	TotalInstall int         `json:"totalInstall"`
	ItemCount    int         `json:"itemCount"`
}

func view(c *cart.Cart) *CartView {
	lines := c.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return &CartView{
		Lines:        lines,
		TotalMonthly: c.TotalMonthly(),
		TotalInstall: c.TotalInstall(),
		ItemCount:    c.ItemCount(),
	}
}

// Get returns the session's cart.
func (s *CartService) Get(ctx context.Context, sessionID string) (*CartView, error) {
	entry, err := s.cartCache.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return view(entry.Cart), nil
}

// AddItem adds qty units of a plan to the session's cart. The plan
// snapshot is taken from the catalog at call time.
func (s *CartService) AddItem(ctx context.Context, sessionID string, channelID, planID, qty int) (*CartView, *cart.ValidationError, error) {
	plan, err := s.planRepo.GetByID(planID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, utils.ErrPlanNotFound
		}
		return nil, nil, err
	}
	if !plan.IsActive {
		return nil, nil, utils.ErrPlanInactive
	}

	entry, err := s.cartCache.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	entry.ChannelID = channelID

	if _, verr := entry.Cart.AddItem(*plan, qty); verr != nil {
		return view(entry.Cart), verr, nil
	}
	entry.ReminderSent = false

	if err := s.cartCache.Save(ctx, entry); err != nil {
		return nil, nil, err
	}
	return view(entry.Cart), nil, nil
}

// RemoveItem removes a line from the session's cart. Removing an absent
// line is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, planID int, lineID string) (*CartView, error) {
	entry, err := s.cartCache.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	entry.Cart.RemoveItem(planID, lineID)

	if err := s.cartCache.Save(ctx, entry); err != nil {
		return nil, err
	}
	return view(entry.Cart), nil
}

// UpdateQuantity overwrites a line's quantity; zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, planID, newQty int, lineID string) (*CartView, *cart.ValidationError, error) {
	entry, err := s.cartCache.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if verr := entry.Cart.UpdateQuantity(planID, newQty, lineID); verr != nil {
		return view(entry.Cart), verr, nil
	}

	if err := s.cartCache.Save(ctx, entry); err != nil {
		return nil, nil, err
	}
	return view(entry.Cart), nil, nil
}

// DuplicateItem clones an existing line with quantity 1.
func (s *CartService) DuplicateItem(ctx context.Context, sessionID string, planID int) (*CartView, *cart.ValidationError, error) {
	entry, err := s.cartCache.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if _, verr := entry.Cart.DuplicateItem(planID); verr != nil {
		return view(entry.Cart), verr, nil
	}

	if err := s.cartCache.Save(ctx, entry); err != nil {
		return nil, nil, err
	}
	return view(entry.Cart), nil, nil
}

// Clear empties the session's cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	return s.cartCache.Delete(ctx, sessionID)
}

// SetContactEmail records the visitor's email on the cart entry so the
// abandoned-cart reminder can reach them.
func (s *CartService) SetContactEmail(ctx context.Context, sessionID, email string) error {
	entry, err := s.cartCache.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	entry.Email = email
	return s.cartCache.Save(ctx, entry)
}

// CheckoutRequest carries the contact data collected at checkout.
type CheckoutRequest struct {
	CustomerName  string            `json:"customerName" binding:"required"`
	CustomerPhone string            `json:"customerPhone" binding:"required"`
	CustomerEmail *string           `json:"customerEmail"`
	PersonType    models.PersonType `json:"personType" binding:"required"`
}

// Checkout converts the session's cart into an order and clears the cart.
// The order snapshots every line so later catalog edits cannot alter it.
// The session's contract modality is stamped onto the order.
func (s *CartService) Checkout(ctx context.Context, sessionID string, channelID int, isSandbox bool, req *CheckoutRequest) (*models.Order, error) {
	entry, err := s.cartCache.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(entry.Cart.Lines) == 0 {
		return nil, utils.ErrEmptyCart
	}

	modality := models.ModalityNewLine
	if state, err := s.sessionCache.Get(ctx, sessionID); err == nil &&
		state.Context != nil && state.Context.Modality != "" {
		modality = state.Context.Modality
	}

	order := &models.Order{
		OrderNumber:   generateOrderNumber(),
		ChannelID:     channelID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		PersonType:    req.PersonType,
		Modality:      modality,
		Status:        models.OrderReceived,
		TotalMonthly:  entry.Cart.TotalMonthly(),
		TotalInstall:  entry.Cart.TotalInstall(),
		ItemCount:     entry.Cart.ItemCount(),
		IsSandbox:     isSandbox,
	}

	// Link to an existing CRM customer by phone when one exists.
	if customer, err := s.customerRepo.GetByPhone(req.CustomerPhone); err == nil {
		order.CustomerID = &customer.ID
	}

	for _, line := range entry.Cart.Lines {
		order.Items = append(order.Items, models.OrderItem{
			PlanID:     line.Plan.ID,
			SkuCode:    line.Plan.SkuCode,
			PlanName:   line.Plan.Name,
			Category:   line.Plan.Category,
			Carrier:    line.Plan.Carrier,
			UnitPrice:  line.UnitPrice,
			InstallFee: line.InstallFee,
			Quantity:   line.Quantity,
		})
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.cartCache.Delete(ctx, sessionID); err != nil {
		// The order exists; a stale cart is only a cosmetic leftover.
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to clear cart after checkout")
	}

	return order, nil
}

// generateOrderNumber builds a short public order identifier, e.g.
// CN-20260829-7F3A2B.
func generateOrderNumber() string {
	suffix := strings.ToUpper(uuid.New().String()[:6])
	return fmt.Sprintf("CN-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
