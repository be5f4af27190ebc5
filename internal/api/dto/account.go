package dto

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tallybank/tallybank/internal/domain/account"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/tallybank/tallybank/internal/validator"
)

type CreateAccountRequest struct {
	CustomerID     string          `json:"customer_id" validate:"required"`
	Category       string          `json:"category" validate:"required"`
	Currency       string          `json:"currency" validate:"required,len=3"`
	Balance        decimal.Decimal `json:"balance"`
	RateOfInterest decimal.Decimal `json:"rate_of_interest"`
	OverdraftLimit decimal.Decimal `json:"overdraft_limit"`
}

// UpdateBalanceRequest moves the balance by Amount. Negative amounts debit.
type UpdateBalanceRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

type AccountResponse struct {
	*account.Account
}

// ListAccountsResponse represents the response for listing accounts
type ListAccountsResponse = types.ListResponse[*AccountResponse]

func (r *CreateAccountRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToAccount builds an active account owned by ownerUsername
func (r *CreateAccountRequest) ToAccount(ctx context.Context, ownerUsername string) (*account.Account, error) {
	category, err := parseEnum("category", r.Category, types.AccountCategoryValues())
	if err != nil {
		return nil, err
	}

	a := &account.Account{
		ID:             types.GenerateID(),
		CustomerID:     r.CustomerID,
		OwnerUsername:  ownerUsername,
		Category:       category,
		State:          types.AccountStateActive,
		Currency:       r.Currency,
		Balance:        r.Balance,
		RateOfInterest: r.RateOfInterest,
		OverdraftLimit: r.OverdraftLimit,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *UpdateBalanceRequest) Validate() error {
	return validator.ValidateRequest(r)
}
