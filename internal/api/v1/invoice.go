package v1

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/tallybank/tallybank/internal/api/dto"
	"github.com/tallybank/tallybank/internal/domain/invoice"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/idempotency"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/service"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/tallybank/tallybank/internal/version"
)

type InvoiceHandler struct {
	service     service.InvoiceService
	idempotency *idempotency.Store
	log         *logger.Logger
}

func NewInvoiceHandler(service service.InvoiceService, idempotency *idempotency.Store, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		service:     service,
		idempotency: idempotency,
		log:         log,
	}
}

// @Summary Create an invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param invoice body dto.CreateInvoiceRequest true "Invoice"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Router /invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}

	resp, err := h.service.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	writeWritten(c, http.StatusCreated, resp.Version, resp)
}

// @Summary Get an invoice
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Param If-None-Match header string false "Version token"
// @Success 200 {object} dto.InvoiceResponse
// @Success 304
// @Failure 404 {object} ierr.ErrorResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	resp, err := h.service.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	writeVersioned(c, resp.Version, resp)
}

// @Summary List invoices
// @Tags Invoices
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.ListInvoicesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	f, err := bindListFilter(c, invoice.FilterSchema)
	if err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.ListInvoices(c.Request.Context(), f)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Pay an invoice
// @Description Settles the invoice from the account it is charged to. A repeated Idempotency-Key replays the first successful response.
// @Tags Invoices
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Param If-Match header string true "Version token"
// @Param Idempotency-Key header string false "Client chosen replay key"
// @Param payment body dto.PayInvoiceRequest true "Payment"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 402 {object} ierr.ErrorResponse
// @Failure 403 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 412 {object} ierr.ErrorResponse
// @Failure 428 {object} ierr.ErrorResponse
// @Router /invoices/{id}/payments [post]
func (h *InvoiceHandler) PayInvoice(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	expected, err := expectedVersion(c)
	if err != nil {
		c.Error(err)
		return
	}

	var req dto.PayInvoiceRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		invalidRequest(c, err)
		return
	}

	var replayKey, fingerprint string
	if clientKey, ok := header(c, types.HeaderIdempotencyKey); ok && clientKey != "" {
		replayKey = h.idempotency.Key(idempotency.ScopeInvoicePayment, clientKey, types.GetUsername(ctx), id)
		fingerprint = idempotency.Fingerprint(boundBody(c))

		recorded, err := h.idempotency.Lookup(ctx, idempotency.ScopeInvoicePayment, replayKey, fingerprint)
		if err != nil {
			c.Error(err)
			return
		}
		if recorded != nil {
			h.log.Debugw("replaying invoice payment", "invoice_id", id, "recorded_at", recorded.RecordedAt)
			c.Header(types.HeaderETag, recorded.ETag)
			c.Header(types.HeaderIdempotentReplayed, "true")
			c.Data(recorded.StatusCode, binding.MIMEJSON, recorded.Body)
			return
		}
	}

	resp, err := h.service.PayInvoice(ctx, id, expected, req)
	if err != nil {
		c.Error(err)
		return
	}

	if replayKey != "" {
		body, err := json.Marshal(resp)
		if err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Failed to encode response").
				Mark(ierr.ErrSystem))
			return
		}
		h.idempotency.Save(ctx, idempotency.ScopeInvoicePayment, replayKey, &idempotency.Response{
			StatusCode:  http.StatusOK,
			ETag:        version.Format(resp.Version),
			Body:        body,
			Fingerprint: fingerprint,
		})
	}

	writeWritten(c, http.StatusOK, resp.Version, resp)
}
