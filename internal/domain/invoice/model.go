package invoice

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/types"
)

// Invoice is a bill against one account. AmountRemaining only ever
// decreases, and Status is PAID exactly when AmountRemaining is zero.
type Invoice struct {
	ID              string              `json:"id"`
	Number          string              `json:"number"`
	Type            types.InvoiceType   `json:"type"`
	Status          types.InvoiceStatus `json:"status"`
	AccountID       string              `json:"account_id"`
	Username        string              `json:"username"`
	Currency        string              `json:"currency"`
	TotalAmount     decimal.Decimal     `json:"total_amount"`
	AmountRemaining decimal.Decimal     `json:"amount_remaining"`
	DueDate         *time.Time          `json:"due_date,omitempty"`
	Description     string              `json:"description"`
	// Payments in settlement order
	Payments []*Payment `json:"payments"`

	types.BaseModel
}

// Payment is one settlement applied to an invoice
type Payment struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by"`
}

// IsOverdue reports whether a pending invoice has passed its due date
func (inv *Invoice) IsOverdue(now time.Time) bool {
	return inv.Status == types.InvoiceStatusPending &&
		inv.DueDate != nil &&
		now.After(*inv.DueDate)
}

// MarkOverdue moves a pending invoice past its due date to OVERDUE
func (inv *Invoice) MarkOverdue(now time.Time) {
	if inv.IsOverdue(now) {
		inv.Status = types.InvoiceStatusOverdue
	}
}

// TotalPaid sums all payments applied so far
func (inv *Invoice) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range inv.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

func (inv *Invoice) clone() *Invoice {
	c := *inv
	c.Payments = make([]*Payment, len(inv.Payments), len(inv.Payments)+1)
	copy(c.Payments, inv.Payments)
	if inv.DueDate != nil {
		d := *inv.DueDate
		c.DueDate = &d
	}
	return &c
}

// FilterValue exposes invoice attributes to the in-memory filter backend
func (inv *Invoice) FilterValue(path string) (any, bool) {
	switch path {
	case "number":
		return inv.Number, true
	case "type":
		return string(inv.Type), true
	case "status":
		return string(inv.Status), true
	case "account_id":
		return inv.AccountID, true
	case "username":
		return inv.Username, true
	case "currency":
		return inv.Currency, true
	case "description":
		return inv.Description, true
	case "total_amount":
		return inv.TotalAmount, true
	case "amount_remaining":
		return inv.AmountRemaining, true
	}
	return nil, false
}

// FilterSchema lists the query keys invoices can be listed by
var FilterSchema = filter.NewSchema("invoice",
	filter.Field{Key: "number", Kind: filter.KindStringExact},
	filter.Field{Key: "accountId", Kind: filter.KindStringExact, Path: "account_id"},
	filter.Field{Key: "username", Kind: filter.KindStringExact},
	filter.Field{Key: "currency", Kind: filter.KindStringExact},
	filter.Field{Key: "description", Kind: filter.KindStringContains},
	filter.Field{Key: "status", Kind: filter.KindEnumExact, Enum: filter.EnumOf(types.InvoiceStatusValues())},
	filter.Field{Key: "type", Kind: filter.KindEnumExact, Enum: filter.EnumOf(types.InvoiceTypeValues())},
	filter.Field{Key: "totalAmount", Kind: filter.KindNumberExact, Path: "total_amount"},
	filter.Field{Key: "minTotalAmount", Kind: filter.KindNumberMin, Path: "total_amount"},
	filter.Field{Key: "maxTotalAmount", Kind: filter.KindNumberMax, Path: "total_amount"},
	filter.Field{Key: "minAmountRemaining", Kind: filter.KindNumberMin, Path: "amount_remaining"},
	filter.Field{Key: "maxAmountRemaining", Kind: filter.KindNumberMax, Path: "amount_remaining"},
)
