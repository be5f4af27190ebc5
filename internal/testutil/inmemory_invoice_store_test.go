package testutil

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tallybank/tallybank/internal/domain/invoice"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/types"
)

func TestInvoiceStoreRejectsSecondConcurrentWriter(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryInvoiceStore()
	require.NoError(t, store.Create(ctx, &invoice.Invoice{
		ID:              "inv-1",
		AccountID:       "acc-1",
		Status:          types.InvoiceStatusPending,
		TotalAmount:     decimal.NewFromInt(100),
		AmountRemaining: decimal.NewFromInt(100),
	}))

	first, err := store.Get(ctx, "inv-1")
	require.NoError(t, err)
	second, err := store.Get(ctx, "inv-1")
	require.NoError(t, err)
	require.Equal(t, first.Version, second.Version)

	first.AmountRemaining = decimal.NewFromInt(60)
	require.NoError(t, store.Update(ctx, first))
	assert.Equal(t, int64(1), first.Version)

	second.AmountRemaining = decimal.NewFromInt(30)
	err = store.Update(ctx, second)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrVersionStale))
	assert.Equal(t, int64(0), second.Version)

	stored, err := store.Get(ctx, "inv-1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(60).Equal(stored.AmountRemaining))
	assert.Equal(t, int64(1), stored.Version)
}

func TestInvoiceStoreUpdateMissing(t *testing.T) {
	err := NewInMemoryInvoiceStore().Update(context.Background(), &invoice.Invoice{ID: "nope"})
	assert.True(t, ierr.IsNotFound(err))
}
