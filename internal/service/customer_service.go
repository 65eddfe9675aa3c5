package service

import (
	"database/sql"

	"github.com/ConectaTel/conecta_api/internal/models"
	"github.com/ConectaTel/conecta_api/internal/repository"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// CustomerService handles CRM customer business logic.
type CustomerService struct {
	customerRepo *repository.CustomerRepository
}

// NewCustomerService constructs a CustomerService.
func NewCustomerService(customerRepo *repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerRequest represents the request to create a customer.
type CreateCustomerRequest struct {
	Name          string            `json:"name" binding:"required"`
	Email         *string           `json:"email"`
	Phone         string            `json:"phone" binding:"required"`
	Document      *string           `json:"document"`
	PersonType    models.PersonType `json:"personType" binding:"required"`
	Tags          []string          `json:"tags"`
	Notes         *string           `json:"notes"`
	OptInWhatsApp *bool             `json:"optInWhatsapp"`
	OptInEmail    *bool             `json:"optInEmail"`
}

// UpdateCustomerRequest represents the request to update a customer.
type UpdateCustomerRequest struct {
	Name          string             `json:"name"`
	Email         *string            `json:"email"`
	Phone         string             `json:"phone"`
	Document      *string            `json:"document"`
	PersonType    *models.PersonType `json:"personType"`
	Tags          []string           `json:"tags"`
	Notes         *string            `json:"notes"`
	OptInWhatsApp *bool              `json:"optInWhatsapp"`
	OptInEmail    *bool              `json:"optInEmail"`
	IsActive      *bool              `json:"isActive"`
}

// CreateCustomer creates a new CRM customer. Opt-ins default to true: the
// contact was captured with consent through the storefront or the panel.
func (s *CustomerService) CreateCustomer(req *CreateCustomerRequest) (*models.Customer, error) {
	optWhatsApp := true
	if req.OptInWhatsApp != nil {
		optWhatsApp = *req.OptInWhatsApp
	}
	optEmail := true
	if req.OptInEmail != nil {
		optEmail = *req.OptInEmail
	}

	customer := &models.Customer{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		Document:      req.Document,
		PersonType:    req.PersonType,
		Tags:          req.Tags,
		Notes:         req.Notes,
		OptInWhatsApp: optWhatsApp,
		OptInEmail:    optEmail,
		IsActive:      true,
	}

	if err := s.customerRepo.Create(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetCustomer retrieves a customer by id.
func (s *CustomerService) GetCustomer(id int) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrCustomerNotFound
		}
		return nil, err
	}
	return customer, nil
}

// ListCustomers returns customers with filters and pagination.
func (s *CustomerService) ListCustomers(search, personType, tag string, page, limit int) ([]models.Customer, int, error) {
	return s.customerRepo.GetAllPaged(search, personType, tag, page, limit)
}

// UpdateCustomer updates a customer's fields; empty/nil fields keep their
// current value.
func (s *CustomerService) UpdateCustomer(id int, req *UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrCustomerNotFound
		}
		return nil, err
	}

	if req.Name != "" {
		customer.Name = req.Name
	}
	if req.Email != nil {
		customer.Email = req.Email
	}
	if req.Phone != "" {
		customer.Phone = req.Phone
	}
	if req.Document != nil {
		customer.Document = req.Document
	}
	if req.PersonType != nil {
		customer.PersonType = *req.PersonType
	}
	if req.Tags != nil {
		customer.Tags = req.Tags
	}
	if req.Notes != nil {
		customer.Notes = req.Notes
	}
	if req.OptInWhatsApp != nil {
		customer.OptInWhatsApp = *req.OptInWhatsApp
	}
	if req.OptInEmail != nil {
		customer.OptInEmail = *req.OptInEmail
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}

	if err := s.customerRepo.Update(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// DeleteCustomer removes a customer.
func (s *CustomerService) DeleteCustomer(id int) error {
	if err := s.customerRepo.Delete(id); err != nil {
		if err == sql.ErrNoRows {
			return utils.ErrCustomerNotFound
		}
		return err
	}
	return nil
}
