package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ConectaTel/conecta_api/internal/service"
	"github.com/ConectaTel/conecta_api/internal/utils"
)

// CustomerHandler handles CRM customer management HTTP endpoints.
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler constructs a CustomerHandler.
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CreateCustomer handles POST /v1/admin/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req service.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	customer, err := h.customerService.CreateCustomer(&req)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create customer")
		return
	}

	utils.Success(c, 201, "Customer created successfully", customer)
}

// GetCustomer handles GET /v1/admin/customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetCustomer(id)
	if err != nil {
		if err == utils.ErrCustomerNotFound {
			utils.Error(c, 404, "CUSTOMER_NOT_FOUND", "Customer not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve customer")
		return
	}

	utils.Success(c, 200, "Customer retrieved", customer)
}

// ListCustomers handles GET /v1/admin/customers
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	search := c.Query("search")
	personType := c.Query("personType")
	tag := c.Query("tag")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	customers, total, err := h.customerService.ListCustomers(search, personType, tag, page, limit)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve customers")
		return
	}

	utils.SuccessWithPagination(c, 200, "Customers retrieved", customers, page, limit, total)
}

// UpdateCustomer handles PUT /v1/admin/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid customer ID")
		return
	}

	var req service.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	customer, err := h.customerService.UpdateCustomer(id, &req)
	if err != nil {
		if err == utils.ErrCustomerNotFound {
			utils.Error(c, 404, "CUSTOMER_NOT_FOUND", "Customer not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update customer")
		return
	}

	utils.Success(c, 200, "Customer updated successfully", customer)
}

// DeleteCustomer handles DELETE /v1/admin/customers/:id
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid customer ID")
		return
	}

	if err := h.customerService.DeleteCustomer(id); err != nil {
		if err == utils.ErrCustomerNotFound {
			utils.Error(c, 404, "CUSTOMER_NOT_FOUND", "Customer not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to delete customer")
		return
	}

	utils.Success(c, 200, "Customer deleted successfully", gin.H{"deleted": true})
}
