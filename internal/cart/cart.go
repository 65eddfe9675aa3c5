package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ConectaTel/conecta_api/internal/models"
)

// ValidationError is a user-facing rejection of a cart mutation. It is
// feedback, not a fault: the cart state is unchanged when one is returned.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrSVALimit is returned when a mutation would put more units of a
// value-added service in the cart than there are eligible primary lines.
func errSVALimit(name string, eligible int) *ValidationError {
	return &ValidationError{
		Code:    "SVA_LIMIT",
		Message: fmt.Sprintf("%q is limited to one unit per contracted line (%d eligible)", name, eligible),
	}
}

// Line is one selected plan in the cart with a snapshot of its price and
// benefits taken at selection time. Catalog price changes after selection
// do not affect an existing line.
type Line struct {
	LineID     string    `json:"lineId"`
	Plan       models.Plan `json:"plan"`
	Quantity   int       `json:"quantity"`
	UnitPrice  int       `json:"unitPrice"`
	InstallFee int       `json:"installFee"`
	AddedAt    time.Time `json:"addedAt"`
}

// Cart is the mutable set of selected lines for one storefront session.
// All mutation goes through the methods below; callers never touch Lines
// directly. The zero value is usable.
type Cart struct {
	Lines []Line `json:"lines"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem puts qty units of a plan in the cart. If the plan is already
// present its quantity is incremented on the existing line; otherwise a
// new line is created. Quantities below 1 are clamped to 1. SVA plans are
// subject to the per-line cap.
func (c *Cart) AddItem(plan models.Plan, qty int) (*Line, *ValidationError) {
	if qty < 1 {
		qty = 1
	}

	if plan.IsSVA() {
		if verr := c.checkSVALimit(&plan, c.quantityOf(plan.ID)+qty); verr != nil {
			return nil, verr
		}
	}

	for i := range c.Lines {
		if c.Lines[i].Plan.ID == plan.ID {
			c.Lines[i].Quantity += qty
			return &c.Lines[i], nil
		}
	}

	installFee := 0
	if plan.InstallFee != nil {
		installFee = *plan.InstallFee
	}
	c.Lines = append(c.Lines, Line{
		LineID:     uuid.New().String(),
		Plan:       plan,
		Quantity:   qty,
		UnitPrice:  plan.MonthlyPrice,
		InstallFee: installFee,
		AddedAt:    time.Now().UTC(),
	})
	return &c.Lines[len(c.Lines)-1], nil
}

// RemoveItem deletes the line holding planID (or the specific line when
// lineID is non-empty). Removing an absent line is a no-op.
func (c *Cart) RemoveItem(planID int, lineID string) {
	for i := range c.Lines {
		if matchLine(&c.Lines[i], planID, lineID) {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// UpdateQuantity overwrites a line's quantity. A quantity of zero or less
// removes the line. The SVA cap applies to increases.
func (c *Cart) UpdateQuantity(planID int, newQty int, lineID string) *ValidationError {
	if newQty <= 0 {
		c.RemoveItem(planID, lineID)
		return nil
	}

	for i := range c.Lines {
		if !matchLine(&c.Lines[i], planID, lineID) {
			continue
		}
		if c.Lines[i].Plan.IsSVA() {
			// Sibling lines of the same plan count against the cap, so the
			// plan id comes from the matched line, not the caller.
			other := c.quantityOf(c.Lines[i].Plan.ID) - c.Lines[i].Quantity
			if verr := c.checkSVALimit(&c.Lines[i].Plan, other+newQty); verr != nil {
				return verr
			}
		}
		c.Lines[i].Quantity = newQty
		return nil
	}
	return nil
}

// DuplicateItem clones an existing line's plan snapshot into a new line
// with quantity 1. Duplicating an absent plan is a no-op.
func (c *Cart) DuplicateItem(planID int) (*Line, *ValidationError) {
	for i := range c.Lines {
		if c.Lines[i].Plan.ID != planID {
			continue
		}
		src := c.Lines[i]
		if src.Plan.IsSVA() {
			if verr := c.checkSVALimit(&src.Plan, c.quantityOf(planID)+1); verr != nil {
				return nil, verr
			}
		}
		c.Lines = append(c.Lines, Line{
			LineID:     uuid.New().String(),
			Plan:       src.Plan,
			Quantity:   1,
			UnitPrice:  src.UnitPrice,
			InstallFee: src.InstallFee,
			AddedAt:    time.Now().UTC(),
		})
		return &c.Lines[len(c.Lines)-1], nil
	}
	return nil, nil
}

// Clear removes every line.
func (c *Cart) Clear() {
	c.Lines = nil
}

// TotalMonthly is the sum of unit price x quantity across all lines.
// Recomputed on every read; the cart never exceeds tens of lines.
func (c *Cart) TotalMonthly() int {
	total := 0
	for i := range c.Lines {
		total += c.Lines[i].UnitPrice * c.Lines[i].Quantity
	}
	return total
}

// TotalInstall is the sum of install fees across all lines.
func (c *Cart) TotalInstall() int {
	total := 0
	for i := range c.Lines {
		total += c.Lines[i].InstallFee * c.Lines[i].Quantity
	}
	return total
}

// ItemCount is the total unit count across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for i := range c.Lines {
		n += c.Lines[i].Quantity
	}
	return n
}

// SVACount returns the total quantity of the given SVA plan in the cart.
func (c *Cart) SVACount(planID int) int {
	return c.quantityOf(planID)
}

// EligibleLines counts cart lines whose plan category admits an attached
// value-added service.
func (c *Cart) EligibleLines() int {
	n := 0
	for i := range c.Lines {
		if c.Lines[i].Plan.AdmitsSVA() {
			n += c.Lines[i].Quantity
		}
	}
	return n
}

// checkSVALimit validates that wantTotal units of an SVA plan fit within
// the eligible primary lines currently in the cart.
func (c *Cart) checkSVALimit(plan *models.Plan, wantTotal int) *ValidationError {
	eligible := c.EligibleLines()
	if wantTotal > eligible {
		return errSVALimit(plan.Name, eligible)
	}
	return nil
}

func (c *Cart) quantityOf(planID int) int {
	n := 0
	for i := range c.Lines {
		if c.Lines[i].Plan.ID == planID {
			n += c.Lines[i].Quantity
		}
	}
	return n
}

func matchLine(l *Line, planID int, lineID string) bool {
	if lineID != "" {
		return l.LineID == lineID
	}
	return l.Plan.ID == planID
}
