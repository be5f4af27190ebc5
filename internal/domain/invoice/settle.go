package invoice

import (
	"github.com/shopspring/decimal"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/types"
)

// Settle applies pay to inv given the balance the paying account currently
// has available. Neither argument is modified; on success the updated copies
// are returned. The steps run in a fixed order:
//
//  1. an invoice with nothing remaining is PAID, whatever its stored status
//  2. a PAID invoice refuses further payments
//  3. a payment above the remaining amount is capped to it
//  4. the capped amount must be covered by balance
//  5. the remaining amount is reduced and the payment appended
func Settle(inv *Invoice, pay *Payment, balance decimal.Decimal) (*Invoice, *Payment, error) {
	if inv == nil || pay == nil {
		return nil, nil, ierr.NewError("invoice and payment are required").
			Mark(ierr.ErrValidation)
	}
	if !pay.Amount.IsPositive() {
		return nil, nil, ierr.NewError("payment amount must be positive").
			WithHint("Payment amount must be greater than zero").
			WithReportableDetails(map[string]any{
				"amount": pay.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	next := inv.clone()
	applied := *pay
	applied.InvoiceID = inv.ID

	if next.AmountRemaining.IsZero() {
		next.Status = types.InvoiceStatusPaid
	}

	if next.Status == types.InvoiceStatusPaid {
		return nil, nil, ierr.NewErrorf("invoice %s is already paid", inv.ID).
			WithHint("This invoice has already been paid in full").
			WithReportableDetails(map[string]any{
				"invoice_id": inv.ID,
			}).
			Mark(ierr.ErrInvoiceAlreadyPaid)
	}

	if applied.Amount.GreaterThan(next.AmountRemaining) {
		applied.Amount = next.AmountRemaining
	}

	if balance.LessThan(applied.Amount) {
		return nil, nil, ierr.NewErrorf("insufficient funds on account %s", inv.AccountID).
			WithHint("The account balance does not cover this payment").
			WithReportableDetails(map[string]any{
				"account_id": inv.AccountID,
				"balance":    balance.String(),
				"amount":     applied.Amount.String(),
			}).
			Mark(ierr.ErrInsufficientFunds)
	}

	next.AmountRemaining = next.AmountRemaining.Sub(applied.Amount)
	next.Payments = append(next.Payments, &applied)
	if next.AmountRemaining.IsZero() {
		next.Status = types.InvoiceStatusPaid
	}

	return next, &applied, nil
}
