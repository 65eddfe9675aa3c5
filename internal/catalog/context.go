package catalog

import "github.com/ConectaTel/conecta_api/internal/models"

// Context is the browsing intent driving filtering and scoring: the active
// category/carrier selection, the customer kind, the desired number of
// lines and the contract modality. One Context exists per storefront
// session; only the modality survives across visits.
type Context struct {
	Categories []models.PlanCategory `json:"categories"`
	Carriers   []models.Carrier      `json:"carriers"`
	PersonType models.PersonType     `json:"personType"`
	LineCount  *int                  `json:"lineCount,omitempty"`
	Modality   models.Modality       `json:"modality"`
}

// HasCategory reports whether c is in the active category selection.
// An empty selection means no category filter is active.
func (ctx *Context) HasCategory(c models.PlanCategory) bool {
	for _, v := range ctx.Categories {
		if v == c {
			return true
		}
	}
	return false
}

// HasCarrier reports whether c is in the active carrier selection.
func (ctx *Context) HasCarrier(c models.Carrier) bool {
	for _, v := range ctx.Carriers {
		if v == c {
			return true
		}
	}
	return false
}

// Signals accumulates behavioral events for one storefront session.
// Append-only; never persisted beyond the session TTL.
type Signals struct {
	// DwellSeconds maps a category to the total seconds the visitor spent
	// browsing it.
	DwellSeconds map[models.PlanCategory]int `json:"dwellSeconds,omitempty"`
	ViewedPlans  []int                       `json:"viewedPlans,omitempty"`
	AddedPlans   []int                       `json:"addedPlans,omitempty"`
	RemovedPlans []int                       `json:"removedPlans,omitempty"`
}

// CountViews returns how many times planID was viewed this session.
func (s *Signals) CountViews(planID int) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, id := range s.ViewedPlans {
		if id == planID {
			n++
		}
	}
	return n
}

// CountAdds returns how many times planID was added to the cart this session.
func (s *Signals) CountAdds(planID int) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, id := range s.AddedPlans {
		if id == planID {
			n++
		}
	}
	return n
}

// Dwell returns the accumulated dwell seconds for a category.
func (s *Signals) Dwell(c models.PlanCategory) int {
	if s == nil || s.DwellSeconds == nil {
		return 0
	}
	return s.DwellSeconds[c]
}
