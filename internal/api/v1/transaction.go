package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tallybank/tallybank/internal/api/dto"
	"github.com/tallybank/tallybank/internal/domain/transaction"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/service"
)

// viewpointParam selects the account a transaction is classified for. It is
// not an attribute filter.
const viewpointParam = "viewpoint"

type TransactionHandler struct {
	service service.TransactionService
	log     *logger.Logger
}

func NewTransactionHandler(service service.TransactionService, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{
		service: service,
		log:     log,
	}
}

// @Summary Record a transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	resp, err := h.service.CreateTransaction(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a transaction
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param viewpoint query string false "Account the type is computed for"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	resp, err := h.service.GetTransaction(c.Request.Context(), c.Param("id"), c.Query(viewpointParam))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param viewpoint query string false "Account the types are computed for"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	f, err := bindListFilter(c, transaction.FilterSchema, viewpointParam)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.ListTransactions(c.Request.Context(), f, c.Query(viewpointParam))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get an account statement
// @Description Every transaction the account took part in, newest first, typed from the account's side
// @Tags Transactions
// @Produce json
// @Security BearerAuth
// @Param accountId path string true "Account ID"
// @Success 200 {object} dto.StatementResponse
// @Router /transactions/accounts/{accountId} [get]
func (h *TransactionHandler) GetStatement(c *gin.Context) {
	resp, err := h.service.GetStatement(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
