package models

import (
	"time"

	"github.com/lib/pq"
)

// PlanCategory enumerates the supported catalog categories.
type PlanCategory string

const (
	CategoryFibra PlanCategory = "fibra"
	CategoryMovel PlanCategory = "movel"
	CategoryFixo  PlanCategory = "fixo"
	CategoryTV    PlanCategory = "tv"
	CategoryCombo PlanCategory = "combo"
	CategorySVA   PlanCategory = "sva"
)

// Carrier enumerates the operator codes a plan can belong to.
type Carrier string

const (
	CarrierVivo  Carrier = "vivo"
	CarrierClaro Carrier = "claro"
	CarrierTim   Carrier = "tim"
	CarrierOi    Carrier = "oi"
)

// PersonType restricts which kind of customer may contract a plan.
type PersonType string

const (
	PersonTypePersonal PersonType = "personal"
	PersonTypeBusiness PersonType = "business"
	PersonTypeBoth     PersonType = "both"
)

// Modality distinguishes a brand-new line from a number portability order.
type Modality string

const (
	ModalityNewLine     Modality = "new_line"
	ModalityPortability Modality = "portability"
)

// ValidCategory reports whether c is one of the closed category set.
func ValidCategory(c PlanCategory) bool {
	switch c {
	case CategoryFibra, CategoryMovel, CategoryFixo, CategoryTV, CategoryCombo, CategorySVA:
		return true
	}
	return false
}

// ValidCarrier reports whether c is one of the closed carrier set.
func ValidCarrier(c Carrier) bool {
	switch c {
	case CarrierVivo, CarrierClaro, CarrierTim, CarrierOi:
		return true
	}
	return false
}

// Plan represents a purchasable plan or value-added service in the catalog.
// Fields are tagged for both DB scanning and JSON serialization.
type Plan struct {
	ID                 int            `db:"id" json:"id"`
	SkuCode            string         `db:"sku_code" json:"skuCode"`
	Name               string         `db:"name" json:"planName"`
	Category           PlanCategory   `db:"category" json:"category"`
	Carrier            Carrier        `db:"carrier" json:"carrier"`
	PersonType         PersonType     `db:"person_type" json:"personType"`
	MonthlyPrice       int            `db:"monthly_price" json:"monthlyPrice"`
	DataAllowance      *string        `db:"data_allowance" json:"dataAllowance,omitempty"`
	InstallFee         *int           `db:"install_fee" json:"installFee,omitempty"`
	LinesIncluded      *int           `db:"lines_included" json:"linesIncluded,omitempty"`
	Benefits           pq.StringArray `db:"benefits" json:"benefits"`
	CalculatorEligible bool           `db:"calculator_eligible" json:"calculatorEligible"`
	Featured           bool           `db:"featured" json:"featured"`
	SortOrder          int            `db:"sort_order" json:"-"`
	IsActive           bool           `db:"is_active" json:"planStatus"`
	CreatedAt          time.Time      `db:"created_at" json:"-"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updatedAt"`
}

// IsSVA reports whether the plan is a value-added service whose quantity
// is capped by the number of eligible primary lines in a cart.
func (p *Plan) IsSVA() bool {
	return p.Category == CategorySVA
}

// AdmitsSVA reports whether a line holding this plan counts as a primary
// line for the one-SVA-per-line rule.
func (p *Plan) AdmitsSVA() bool {
	switch p.Category {
	case CategoryFibra, CategoryMovel, CategoryCombo:
		return true
	}
	return false
}
