package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/tallybank/tallybank/internal/api/dto"
	"github.com/tallybank/tallybank/internal/domain/account"
	"github.com/tallybank/tallybank/internal/domain/events"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/interfaces"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/tallybank/tallybank/internal/version"
)

type AccountService = interfaces.AccountService

type accountService struct {
	ServiceParams
}

func NewAccountService(params ServiceParams) AccountService {
	return &accountService{
		ServiceParams: params,
	}
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ctx, cust.Username, "customer", cust.ID); err != nil {
		return nil, err
	}

	acct, err := req.ToAccount(ctx, cust.Username)
	if err != nil {
		return nil, err
	}

	if err := s.AccountRepo.Create(ctx, acct); err != nil {
		return nil, err
	}

	s.Logger.Infow("created account",
		"account_id", acct.ID,
		"customer_id", acct.CustomerID,
		"category", acct.Category,
	)
	return &dto.AccountResponse{Account: acct}, nil
}

func (s *accountService) GetAccount(ctx context.Context, id string) (*dto.AccountResponse, error) {
	acct, err := s.AccountRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ctx, acct.OwnerUsername, "account", id); err != nil {
		return nil, err
	}
	return &dto.AccountResponse{Account: acct}, nil
}

func (s *accountService) ListAccounts(ctx context.Context, f *filter.ListFilter) (*dto.ListAccountsResponse, error) {
	f = scopeToCaller(ctx, f, "owner_username")
	if err := f.Validate(); err != nil {
		return nil, err
	}

	accounts, err := s.AccountRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	count, err := s.AccountRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := lo.Map(accounts, func(a *account.Account, _ int) *dto.AccountResponse {
		return &dto.AccountResponse{Account: a}
	})
	resp := types.NewListResponse(items, count, f.GetLimit(), f.GetOffset())
	return &resp, nil
}

func (s *accountService) UpdateBalance(ctx context.Context, id string, expectedVersion int64, req dto.UpdateBalanceRequest) (*dto.AccountResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Amount.IsZero() {
		return nil, ierr.NewError("balance change must not be zero").
			WithHint("Amount must be non-zero, negative amounts debit the account").
			Mark(ierr.ErrValidation)
	}

	acct, err := s.AccountRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ctx, acct.OwnerUsername, "account", id); err != nil {
		return nil, err
	}
	if err := version.Compare(expectedVersion, acct.Version); err != nil {
		return nil, err
	}

	if err := acct.ApplyBalanceChange(req.Amount); err != nil {
		return nil, err
	}
	acct.UpdatedAt = time.Now().UTC()
	acct.UpdatedBy = types.GetUsername(ctx)

	if err := s.AccountRepo.Update(ctx, acct); err != nil {
		return nil, err
	}

	s.Logger.Infow("changed account balance",
		"account_id", acct.ID,
		"amount", req.Amount.String(),
		"balance", acct.Balance.String(),
		"version", acct.Version,
	)

	s.publish(ctx, events.EventAccountBalanceChanged, &events.AccountBalanceChanged{
		AccountID: acct.ID,
		Currency:  acct.Currency,
		Amount:    req.Amount,
		Balance:   acct.Balance,
		Version:   acct.Version,
	})

	return &dto.AccountResponse{Account: acct}, nil
}
