package service

import (
	"database/sql"
	"fmt"

	"github.com/ConectaTel/conecta_api/internal/models"
	"github.com/ConectaTel/conecta_api/internal/repository"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// PlanService handles admin catalog management.
type PlanService struct {
	planRepo *repository.PlanRepository
}

// NewPlanService constructs a PlanService.
func NewPlanService(planRepo *repository.PlanRepository) *PlanService {
	return &PlanService{planRepo: planRepo}
}

// PlanRequest is the create/update payload for a plan.
type PlanRequest struct {
	SkuCode            string              `json:"skuCode" binding:"required"`
	Name               string              `json:"name" binding:"required"`
	Category           models.PlanCategory `json:"category" binding:"required"`
	Carrier            models.Carrier      `json:"carrier" binding:"required"`
	PersonType         models.PersonType   `json:"personType" binding:"required"`
	MonthlyPrice       int                 `json:"monthlyPrice" binding:"required"`
	DataAllowance      *string             `json:"dataAllowance"`
	InstallFee         *int                `json:"installFee"`
	LinesIncluded      *int                `json:"linesIncluded"`
	Benefits           []string            `json:"benefits"`
	CalculatorEligible bool                `json:"calculatorEligible"`
	Featured           bool                `json:"featured"`
	IsActive           *bool               `json:"isActive"`
}

// validate rejects values outside the closed enums at the admin boundary.
func (r *PlanRequest) validate() error {
	if !models.ValidCategory(r.Category) {
		return fmt.Errorf("unknown category %q", r.Category)
	}
	if !models.ValidCarrier(r.Carrier) {
		return fmt.Errorf("unknown carrier %q", r.Carrier)
	}
	switch r.PersonType {
	case models.PersonTypePersonal, models.PersonTypeBusiness, models.PersonTypeBoth:
	default:
		return fmt.Errorf("unknown person type %q", r.PersonType)
	}
	if r.MonthlyPrice < 0 {
		return fmt.Errorf("monthly price must be >= 0")
	}
	return nil
}

func (r *PlanRequest) toModel(p *models.Plan) {
	p.SkuCode = r.SkuCode
	p.Name = r.Name
	p.Category = r.Category
	p.Carrier = r.Carrier
	p.PersonType = r.PersonType
	p.MonthlyPrice = r.MonthlyPrice
	p.DataAllowance = r.DataAllowance
	p.InstallFee = r.InstallFee
	p.LinesIncluded = r.LinesIncluded
	p.Benefits = r.Benefits
	p.CalculatorEligible = r.CalculatorEligible
	p.Featured = r.Featured
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
}

// CreatePlan creates a new catalog plan.
func (s *PlanService) CreatePlan(req *PlanRequest) (*models.Plan, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	if existing, _ := s.planRepo.GetBySKUCode(req.SkuCode); existing != nil {
		return nil, fmt.Errorf("sku_code %q already exists", req.SkuCode)
	}

	plan := &models.Plan{IsActive: true}
	req.toModel(plan)

	if err := s.planRepo.Create(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GetPlan retrieves a plan by id.
func (s *PlanService) GetPlan(id int) (*models.Plan, error) {
	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// ListPlans returns plans with admin filters and pagination.
func (s *PlanService) ListPlans(category, carrier, search string, page, limit int) ([]models.Plan, int, error) {
	return s.planRepo.GetAllPaged(category, carrier, search, page, limit)
}

// UpdatePlan overwrites a plan's definition.
func (s *PlanService) UpdatePlan(id int, req *PlanRequest) (*models.Plan, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrPlanNotFound
		}
		return nil, err
	}

	req.toModel(plan)
	if err := s.planRepo.Update(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// DeletePlan deactivates a plan.
func (s *PlanService) DeletePlan(id int) error {
	if err := s.planRepo.Delete(id); err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrPlanNotFound
		}
		return err
	}
	return nil
}

// GetCategories lists the distinct categories in the catalog.
func (s *PlanService) GetCategories() ([]string, error) {
	return s.planRepo.GetCategories()
}

// GetCarriers lists the distinct carriers in the catalog.
func (s *PlanService) GetCarriers() ([]string, error) {
	return s.planRepo.GetCarriers()
}
