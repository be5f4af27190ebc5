package invoice

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/types"
)

func d(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

func pendingInvoice(total, remaining int64) *Invoice {
	return &Invoice{
		ID:              "inv_1",
		AccountID:       "acc_1",
		Status:          types.InvoiceStatusPending,
		TotalAmount:     d(total),
		AmountRemaining: d(remaining),
		BaseModel:       types.BaseModel{Version: 2},
	}
}

func TestSettlePartial(t *testing.T) {
	inv := pendingInvoice(100, 100)

	next, pay, err := Settle(inv, &Payment{ID: "pay_1", Amount: d(30)}, d(500))
	require.NoError(t, err)

	assert.True(t, d(30).Equal(pay.Amount))
	assert.Equal(t, "inv_1", pay.InvoiceID)
	assert.True(t, d(70).Equal(next.AmountRemaining))
	assert.Equal(t, types.InvoiceStatusPending, next.Status)
	require.Len(t, next.Payments, 1)
	assert.Equal(t, "pay_1", next.Payments[0].ID)

	// input untouched
	assert.True(t, d(100).Equal(inv.AmountRemaining))
	assert.Empty(t, inv.Payments)
}

func TestSettleOverpaymentIsCapped(t *testing.T) {
	inv := pendingInvoice(50, 50)
	original := &Payment{ID: "pay_1", Amount: d(80)}

	next, pay, err := Settle(inv, original, d(100))
	require.NoError(t, err)

	assert.True(t, d(50).Equal(pay.Amount))
	assert.True(t, next.AmountRemaining.IsZero())
	assert.Equal(t, types.InvoiceStatusPaid, next.Status)
	assert.True(t, d(80).Equal(original.Amount))
}

func TestSettleCapAppliesBeforeFundsCheck(t *testing.T) {
	inv := pendingInvoice(50, 20)

	next, pay, err := Settle(inv, &Payment{Amount: d(80)}, d(25))
	require.NoError(t, err)
	assert.True(t, d(20).Equal(pay.Amount))
	assert.Equal(t, types.InvoiceStatusPaid, next.Status)
}

func TestSettleInsufficientFunds(t *testing.T) {
	inv := pendingInvoice(50, 50)

	next, pay, err := Settle(inv, &Payment{Amount: d(50)}, d(30))
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrInsufficientFunds))
	assert.Nil(t, next)
	assert.Nil(t, pay)

	assert.True(t, d(50).Equal(inv.AmountRemaining))
	assert.Equal(t, types.InvoiceStatusPending, inv.Status)
	assert.Empty(t, inv.Payments)
}

func TestSettleTwiceFailsAlreadyPaid(t *testing.T) {
	inv := pendingInvoice(50, 50)
	pay := &Payment{Amount: d(50)}

	first, _, err := Settle(inv, pay, d(100))
	require.NoError(t, err)
	require.Equal(t, types.InvoiceStatusPaid, first.Status)

	_, _, err = Settle(first, pay, d(100))
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrInvoiceAlreadyPaid))
}

func TestSettleSelfHealsStaleStatus(t *testing.T) {
	inv := pendingInvoice(50, 0)
	inv.Status = types.InvoiceStatusOverdue

	_, _, err := Settle(inv, &Payment{Amount: d(10)}, d(100))
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrInvoiceAlreadyPaid))
	// input status not rewritten in place
	assert.Equal(t, types.InvoiceStatusOverdue, inv.Status)
}

func TestSettleOverdueIsPayable(t *testing.T) {
	past := time.Now().Add(-48 * time.Hour)
	inv := pendingInvoice(40, 40)
	inv.DueDate = &past
	inv.MarkOverdue(time.Now())
	require.Equal(t, types.InvoiceStatusOverdue, inv.Status)

	next, _, err := Settle(inv, &Payment{Amount: d(40)}, d(40))
	require.NoError(t, err)
	assert.Equal(t, types.InvoiceStatusPaid, next.Status)
}

func TestSettleRejectsNonPositiveAmount(t *testing.T) {
	_, _, err := Settle(pendingInvoice(10, 10), &Payment{Amount: d(0)}, d(10))
	assert.True(t, ierr.IsValidation(err))

	_, _, err = Settle(pendingInvoice(10, 10), &Payment{Amount: d(-5)}, d(10))
	assert.True(t, ierr.IsValidation(err))
}

func TestSettleKeepsPaymentOrder(t *testing.T) {
	inv := pendingInvoice(90, 90)
	var err error
	for _, id := range []string{"a", "b", "c"} {
		inv, _, err = Settle(inv, &Payment{ID: id, Amount: d(30)}, d(1000))
		require.NoError(t, err)
	}
	require.Len(t, inv.Payments, 3)
	assert.Equal(t, "a", inv.Payments[0].ID)
	assert.Equal(t, "c", inv.Payments[2].ID)
	assert.Equal(t, types.InvoiceStatusPaid, inv.Status)
	assert.True(t, d(90).Equal(inv.TotalPaid()))
}
