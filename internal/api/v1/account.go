package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallybank/tallybank/internal/api/dto"
	"github.com/tallybank/tallybank/internal/domain/account"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/service"
)

type AccountHandler struct {
	service service.AccountService
	log     *logger.Logger
}

func NewAccountHandler(service service.AccountService, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		log:     log,
	}
}

// @Summary Open an account
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param account body dto.CreateAccountRequest true "Account"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	resp, err := h.service.CreateAccount(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	writeWritten(c, http.StatusCreated, resp.Version, resp)
}

// @Summary Get an account
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param If-None-Match header string false "Version token"
// @Success 200 {object} dto.AccountResponse
// @Success 304
// @Failure 404 {object} ierr.ErrorResponse
// @Router /accounts/{id} [get]
func (h *AccountHandler) GetAccount(c *gin.Context) {
	resp, err := h.service.GetAccount(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	writeVersioned(c, resp.Version, resp)
}

// @Summary List accounts
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	f, err := bindListFilter(c, account.FilterSchema)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.ListAccounts(c.Request.Context(), f)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Credit or debit an account
// @Description A negative amount debits the account
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param If-Match header string true "Version token"
// @Param request body dto.UpdateBalanceRequest true "Balance change"
// @Success 200 {object} dto.AccountResponse
// @Failure 402 {object} ierr.ErrorResponse
// @Failure 412 {object} ierr.ErrorResponse
// @Failure 428 {object} ierr.ErrorResponse
// @Router /accounts/{id}/balance [put]
func (h *AccountHandler) UpdateBalance(c *gin.Context) {
	expected, err := expectedVersion(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	resp, err := h.service.UpdateBalance(c.Request.Context(), c.Param("id"), expected, req)
	if err != nil {
		c.Error(err)
		return
	}

	writeWritten(c, http.StatusOK, resp.Version, resp)
}
