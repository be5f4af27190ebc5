package types

import (
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/samber/lo"
)

// AccountCategory is the product type of an account
type AccountCategory string

const (
	AccountCategoryChecking   AccountCategory = "CHECKING"
	AccountCategorySavings    AccountCategory = "SAVINGS"
	AccountCategoryCredit     AccountCategory = "CREDIT"
	AccountCategoryDeposit    AccountCategory = "DEPOSIT"
	AccountCategoryInvestment AccountCategory = "INVESTMENT"
)

func AccountCategoryValues() []AccountCategory {
	return []AccountCategory{
		AccountCategoryChecking,
		AccountCategorySavings,
		AccountCategoryCredit,
		AccountCategoryDeposit,
		AccountCategoryInvestment,
	}
}

func (c AccountCategory) Validate() error {
	if !lo.Contains(AccountCategoryValues(), c) {
		return ierr.NewError("invalid account category").
			WithHint("Please provide a valid account category").
			WithReportableDetails(map[string]any{
				"allowed": AccountCategoryValues(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AccountState is the lifecycle state of an account
type AccountState string

const (
	AccountStateActive  AccountState = "ACTIVE"
	AccountStateBlocked AccountState = "BLOCKED"
	AccountStateClosed  AccountState = "CLOSED"
)

func AccountStateValues() []AccountState {
	return []AccountState{AccountStateActive, AccountStateBlocked, AccountStateClosed}
}

func (s AccountState) Validate() error {
	if !lo.Contains(AccountStateValues(), s) {
		return ierr.NewError("invalid account state").
			WithHint("Please provide a valid account state").
			WithReportableDetails(map[string]any{
				"allowed": AccountStateValues(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
