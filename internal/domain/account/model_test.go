package account

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/types"
)

func newAccount(balance, overdraft int64) *Account {
	return &Account{
		ID:             "acc",
		State:          types.AccountStateActive,
		Category:       types.AccountCategoryChecking,
		Balance:        decimal.NewFromInt(balance),
		OverdraftLimit: decimal.NewFromInt(overdraft),
	}
}

func TestApplyBalanceChange(t *testing.T) {
	tests := []struct {
		name      string
		balance   int64
		overdraft int64
		amount    int64
		expected  int64
		wantErr   error
	}{
		{"credit", 10, 0, 5, 15, nil},
		{"debit within balance", 10, 0, -10, 0, nil},
		{"debit into overdraft", 10, 20, -25, -15, nil},
		{"debit beyond overdraft", 10, 20, -31, 10, ierr.ErrInsufficientFunds},
		{"debit beyond balance", 10, 0, -11, 10, ierr.ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAccount(tt.balance, tt.overdraft)
			err := a.ApplyBalanceChange(decimal.NewFromInt(tt.amount))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, ierr.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}
			assert.True(t, decimal.NewFromInt(tt.expected).Equal(a.Balance), "balance %s", a.Balance)
		})
	}
}

func TestApplyBalanceChangeBlocked(t *testing.T) {
	a := newAccount(10, 0)
	a.State = types.AccountStateBlocked
	err := a.ApplyBalanceChange(decimal.NewFromInt(1))
	assert.True(t, ierr.Is(err, ierr.ErrInvalidOperation))
}

func TestFilterSchema(t *testing.T) {
	_, err := FilterSchema.Compile(map[string][]string{"owner": {"x"}})
	assert.True(t, ierr.Is(err, ierr.ErrUnknownFilterKey))

	e, err := FilterSchema.Compile(map[string][]string{"category": {"checking"}, "minBalance": {"5"}})
	require.NoError(t, err)
	assert.NotNil(t, e)
}
