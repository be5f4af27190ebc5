package events

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/types"
)

const (
	EventPaymentSettled        = "payment.settled"
	EventAccountBalanceChanged = "account.balance_changed"
)

// Event is the envelope every message on the event topic carries
type Event struct {
	ID        string          `json:"id" validate:"required"`
	EventName string          `json:"event_name" validate:"required"`
	Source    string          `json:"source"`
	Timestamp time.Time       `json:"timestamp" validate:"required"`
	Payload   json.RawMessage `json:"payload"`
}

// PaymentSettled is published once an invoice payment has been debited
// remotely and committed locally
type PaymentSettled struct {
	InvoiceID       string              `json:"invoice_id"`
	PaymentID       string              `json:"payment_id"`
	AccountID       string              `json:"account_id"`
	Username        string              `json:"username"`
	Currency        string              `json:"currency"`
	Amount          decimal.Decimal     `json:"amount"`
	AmountRemaining decimal.Decimal     `json:"amount_remaining"`
	Status          types.InvoiceStatus `json:"status"`
}

// AccountBalanceChanged is published after every committed balance change
type AccountBalanceChanged struct {
	AccountID string          `json:"account_id"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Balance   decimal.Decimal `json:"balance"`
	Version   int64           `json:"version"`
}

// NewEvent wraps payload in an envelope stamped with a fresh id
func NewEvent(name, source string, payload any) (*Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to encode %s event", name).
			Mark(ierr.ErrSystem)
	}
	return &Event{
		ID:        types.GenerateUUID(),
		EventName: name,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	}, nil
}

// Decode unmarshals the payload into v
func (e *Event) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return ierr.WithError(err).
			WithHintf("Malformed %s event payload", e.EventName).
			WithReportableDetails(map[string]any{
				"event_id": e.ID,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
