package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallybank/tallybank/internal/api/dto"
	"github.com/tallybank/tallybank/internal/domain/customer"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/service"
)

type CustomerHandler struct {
	service service.CustomerService
	log     *logger.Logger
}

func NewCustomerHandler(service service.CustomerService, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param customer body dto.CreateCustomerRequest true "Customer"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /customers [post]
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	resp, err := h.service.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	writeWritten(c, http.StatusCreated, resp.Version, resp)
}

// @Summary Get a customer
// @Tags Customers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param If-None-Match header string false "Version token"
// @Success 200 {object} dto.CustomerResponse
// @Success 304
// @Failure 404 {object} ierr.ErrorResponse
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	resp, err := h.service.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	writeVersioned(c, resp.Version, resp)
}

// @Summary List customers
// @Description Query parameters other than limit, offset, sort and order filter by customer attributes
// @Tags Customers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListCustomersResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /customers [get]
func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	f, err := bindListFilter(c, customer.FilterSchema)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.ListCustomers(c.Request.Context(), f)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a customer
// @Tags Customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param If-Match header string true "Version token"
// @Param customer body dto.UpdateCustomerRequest true "Customer"
// @Success 200 {object} dto.CustomerResponse
// @Failure 412 {object} ierr.ErrorResponse
// @Failure 428 {object} ierr.ErrorResponse
// @Router /customers/{id} [put]
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	expected, err := expectedVersion(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	resp, err := h.service.UpdateCustomer(c.Request.Context(), c.Param("id"), expected, req)
	if err != nil {
		c.Error(err)
		return
	}

	writeWritten(c, http.StatusOK, resp.Version, resp)
}
