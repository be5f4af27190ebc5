package account

import (
	"github.com/shopspring/decimal"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/types"
)

// Account holds the balance of one customer product. Only the account
// service mutates it; other services read it over HTTP and ask for debits.
type Account struct {
	ID             string                `json:"id"`
	CustomerID     string                `json:"customer_id"`
	OwnerUsername  string                `json:"owner_username"`
	Category       types.AccountCategory `json:"category"`
	State          types.AccountState    `json:"state"`
	Currency       string                `json:"currency"`
	Balance        decimal.Decimal       `json:"balance"`
	RateOfInterest decimal.Decimal       `json:"rate_of_interest"`
	OverdraftLimit decimal.Decimal       `json:"overdraft_limit"`

	types.BaseModel
}

// AvailableFunds is the balance plus the permitted overdraft
func (a *Account) AvailableFunds() decimal.Decimal {
	return a.Balance.Add(a.OverdraftLimit)
}

// ApplyBalanceChange adds amount to the balance. Negative amounts are debits
// and fail with ErrInsufficientFunds when they exceed the available funds.
// The account is left untouched on error.
func (a *Account) ApplyBalanceChange(amount decimal.Decimal) error {
	if a.State != types.AccountStateActive {
		return ierr.NewErrorf("account %s is %s", a.ID, a.State).
			WithHint("Only active accounts can be debited or credited").
			WithReportableDetails(map[string]any{
				"account_id": a.ID,
				"state":      a.State,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	next := a.Balance.Add(amount)
	if amount.IsNegative() && next.Add(a.OverdraftLimit).IsNegative() {
		return ierr.NewErrorf("insufficient funds on account %s", a.ID).
			WithHint("The account balance does not cover this amount").
			WithReportableDetails(map[string]any{
				"account_id": a.ID,
				"balance":    a.Balance.String(),
				"amount":     amount.String(),
			}).
			Mark(ierr.ErrInsufficientFunds)
	}
	a.Balance = next
	return nil
}

func (a *Account) Validate() error {
	if err := a.Category.Validate(); err != nil {
		return err
	}
	if err := a.State.Validate(); err != nil {
		return err
	}
	if a.OverdraftLimit.IsNegative() {
		return ierr.NewError("overdraft limit must not be negative").
			WithHint("Overdraft limit must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// FilterValue exposes account attributes to the in-memory filter backend
func (a *Account) FilterValue(path string) (any, bool) {
	switch path {
	case "customer_id":
		return a.CustomerID, true
	case "owner_username":
		return a.OwnerUsername, true
	case "category":
		return string(a.Category), true
	case "state":
		return string(a.State), true
	case "currency":
		return a.Currency, true
	case "balance":
		return a.Balance, true
	case "rate_of_interest":
		return a.RateOfInterest, true
	}
	return nil, false
}

// FilterSchema lists the query keys accounts can be listed by
var FilterSchema = filter.NewSchema("account",
	filter.Field{Key: "customerId", Kind: filter.KindStringExact, Path: "customer_id"},
	filter.Field{Key: "username", Kind: filter.KindStringExact, Path: "owner_username"},
	filter.Field{Key: "category", Kind: filter.KindEnumExact, Enum: filter.EnumOf(types.AccountCategoryValues())},
	filter.Field{Key: "state", Kind: filter.KindEnumExact, Enum: filter.EnumOf(types.AccountStateValues())},
	filter.Field{Key: "currency", Kind: filter.KindStringExact},
	filter.Field{Key: "minBalance", Kind: filter.KindNumberMin, Path: "balance"},
	filter.Field{Key: "maxBalance", Kind: filter.KindNumberMax, Path: "balance"},
	filter.Field{Key: "rateOfInterest", Kind: filter.KindNumberExact, Path: "rate_of_interest"},
)
