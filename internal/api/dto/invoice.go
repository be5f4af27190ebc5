package dto

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallybank/tallybank/internal/domain/invoice"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/tallybank/tallybank/internal/validator"
)

// CreateInvoiceRequest represents the request payload for creating a new invoice
type CreateInvoiceRequest struct {
	// account_id is the account the invoice is charged to
	AccountID string `json:"account_id" validate:"required"`

	// type of the invoice, MONTHLY when omitted
	Type string `json:"type"`

	// currency defaults to the currency of the account
	Currency string `json:"currency" validate:"omitempty,len=3"`

	TotalAmount decimal.Decimal `json:"total_amount" validate:"required,positive_amount"`

	DueDate *time.Time `json:"due_date,omitempty"`

	Description string `json:"description" validate:"omitempty,max=500"`
}

// PayInvoiceRequest settles part or all of an invoice from its account.
// Amounts above what remains are capped.
type PayInvoiceRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required,positive_amount"`
}

type InvoiceResponse struct {
	*invoice.Invoice
}

// ListInvoicesResponse represents the response for listing invoices
type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]

func (r *CreateInvoiceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToInvoice builds a pending invoice for an account owned by username
func (r *CreateInvoiceRequest) ToInvoice(ctx context.Context, username, accountCurrency string) (*invoice.Invoice, error) {
	invoiceType := types.InvoiceTypeMonthly
	if r.Type != "" {
		t, err := parseEnum("type", r.Type, types.InvoiceTypeValues())
		if err != nil {
			return nil, err
		}
		invoiceType = t
	}

	currency := r.Currency
	if currency == "" {
		currency = accountCurrency
	}
	if accountCurrency != "" && !strings.EqualFold(currency, accountCurrency) {
		return nil, ierr.NewErrorf("invoice currency %s does not match account currency %s", currency, accountCurrency).
			WithHint("The invoice currency must match the currency of the account").
			WithReportableDetails(map[string]any{
				"currency":         currency,
				"account_currency": accountCurrency,
			}).
			Mark(ierr.ErrValidation)
	}

	return &invoice.Invoice{
		ID:              types.GenerateID(),
		Number:          types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_INVOICE),
		Type:            invoiceType,
		Status:          types.InvoiceStatusPending,
		AccountID:       r.AccountID,
		Username:        username,
		Currency:        strings.ToUpper(currency),
		TotalAmount:     r.TotalAmount,
		AmountRemaining: r.TotalAmount,
		DueDate:         r.DueDate,
		Description:     r.Description,
		Payments:        []*invoice.Payment{},
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}, nil
}

func (r *PayInvoiceRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToPayment builds the payment as requested, before any capping
func (r *PayInvoiceRequest) ToPayment(ctx context.Context, invoiceID string) *invoice.Payment {
	return &invoice.Payment{
		ID:        types.GenerateID(),
		InvoiceID: invoiceID,
		Amount:    r.Amount,
		CreatedAt: time.Now().UTC(),
		CreatedBy: types.GetUsername(ctx),
	}
}
