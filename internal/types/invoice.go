package types

import (
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/samber/lo"
)

// InvoiceStatus is the settlement state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "PENDING"
	InvoiceStatusPaid    InvoiceStatus = "PAID"
	InvoiceStatusOverdue InvoiceStatus = "OVERDUE"
)

func InvoiceStatusValues() []InvoiceStatus {
	return []InvoiceStatus{InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue}
}

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	if !lo.Contains(InvoiceStatusValues(), s) {
		return ierr.NewError("invalid invoice status").
			WithHint("Please provide a valid invoice status").
			WithReportableDetails(map[string]any{
				"allowed": InvoiceStatusValues(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceType describes what the invoice bills for
type InvoiceType string

const (
	InvoiceTypeMonthly  InvoiceType = "MONTHLY"
	InvoiceTypeOneOff   InvoiceType = "ONE_OFF"
	InvoiceTypeFee      InvoiceType = "FEE"
	InvoiceTypeInterest InvoiceType = "INTEREST"
)

func InvoiceTypeValues() []InvoiceType {
	return []InvoiceType{InvoiceTypeMonthly, InvoiceTypeOneOff, InvoiceTypeFee, InvoiceTypeInterest}
}

func (t InvoiceType) Validate() error {
	if !lo.Contains(InvoiceTypeValues(), t) {
		return ierr.NewError("invalid invoice type").
			WithHint("Please provide a valid invoice type").
			WithReportableDetails(map[string]any{
				"allowed": InvoiceTypeValues(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
