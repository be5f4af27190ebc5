package events

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/types"
)

func TestEventPayloadRoundTrip(t *testing.T) {
	in := PaymentSettled{
		InvoiceID: "inv-1",
		PaymentID: "pay-1",
		AccountID: "acc-1",
		Amount:    decimal.RequireFromString("12.50"),
		Status:    types.InvoiceStatusPaid,
	}

	event, err := NewEvent(EventPaymentSettled, "invoice", in)
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, EventPaymentSettled, event.EventName)
	assert.False(t, event.Timestamp.IsZero())

	var out PaymentSettled
	require.NoError(t, event.Decode(&out))
	assert.Equal(t, in.PaymentID, out.PaymentID)
	assert.True(t, in.Amount.Equal(out.Amount))
	assert.Equal(t, types.InvoiceStatusPaid, out.Status)
}

func TestDecodeMalformedPayload(t *testing.T) {
	event := &Event{ID: "e1", EventName: EventPaymentSettled, Payload: []byte("{not json")}

	var out PaymentSettled
	err := event.Decode(&out)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
}
