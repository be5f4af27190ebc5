package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/tallybank/tallybank/internal/api/dto"
	"github.com/tallybank/tallybank/internal/domain/account"
	"github.com/tallybank/tallybank/internal/domain/customer"
	"github.com/tallybank/tallybank/internal/domain/events"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/testutil"
	"github.com/tallybank/tallybank/internal/types"
)

type AccountServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  AccountService
	customer *customer.Customer
}

func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewAccountService(newTestServiceParams(&s.BaseServiceTestSuite))

	s.customer = &customer.Customer{
		ID:            types.GenerateID(),
		Username:      testutil.DefaultUsername,
		LastName:      "Smith",
		Gender:        types.GenderFemale,
		MaritalStatus: types.MaritalStatusSingle,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.Require().NoError(s.GetStores().CustomerRepo.Create(s.GetContext(), s.customer))
}

func (s *AccountServiceSuite) createAccount(balance int64) *dto.AccountResponse {
	resp, err := s.service.CreateAccount(s.GetContext(), dto.CreateAccountRequest{
		CustomerID:     s.customer.ID,
		Category:       "checking",
		Currency:       "EUR",
		Balance:        decimal.NewFromInt(balance),
		OverdraftLimit: decimal.NewFromInt(50),
	})
	s.Require().NoError(err)
	return resp
}

func (s *AccountServiceSuite) TestCreateAccount() {
	resp := s.createAccount(100)
	s.Equal(testutil.DefaultUsername, resp.OwnerUsername)
	s.Equal(types.AccountCategoryChecking, resp.Category)
	s.Equal(types.AccountStateActive, resp.State)

	_, err := s.service.CreateAccount(s.GetContext(), dto.CreateAccountRequest{
		CustomerID: "missing",
		Category:   "CHECKING",
		Currency:   "EUR",
	})
	s.True(ierr.IsNotFound(err))

	_, err = s.service.CreateAccount(s.GetContext(), dto.CreateAccountRequest{
		CustomerID: s.customer.ID,
		Category:   "lottery",
		Currency:   "EUR",
	})
	s.True(ierr.IsValidation(err))

	_, err = s.service.CreateAccount(testutil.SetupContextFor("mallory"), dto.CreateAccountRequest{
		CustomerID: s.customer.ID,
		Category:   "CHECKING",
		Currency:   "EUR",
	})
	s.True(ierr.IsPermissionDenied(err))
}

func (s *AccountServiceSuite) TestUpdateBalance() {
	acct := s.createAccount(100)

	testCases := []struct {
		name      string
		version   int64
		amount    int64
		balance   int64
		errMark   error
		published bool
	}{
		{name: "credit", version: 0, amount: 25, balance: 125, published: true},
		{name: "debit into overdraft", version: 1, amount: -150, balance: -25, published: true},
		{name: "beyond overdraft", version: 2, amount: -30, errMark: ierr.ErrInsufficientFunds},
		{name: "stale token", version: 1, amount: 5, errMark: ierr.ErrVersionStale},
		{name: "token ahead", version: 9, amount: 5, errMark: ierr.ErrVersionAhead},
		{name: "zero amount", version: 2, amount: 0, errMark: ierr.ErrValidation},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			before := len(s.GetPublisher().GetEvents())
			resp, err := s.service.UpdateBalance(s.GetContext(), acct.ID, tc.version, dto.UpdateBalanceRequest{
				Amount: decimal.NewFromInt(tc.amount),
			})

			if tc.errMark != nil {
				s.True(ierr.Is(err, tc.errMark), "got %v", err)
				s.Len(s.GetPublisher().GetEvents(), before)
				return
			}

			s.Require().NoError(err)
			s.True(resp.Balance.Equal(decimal.NewFromInt(tc.balance)))
			s.Equal(tc.version+1, resp.Version)

			published := s.GetPublisher().EventsNamed(events.EventAccountBalanceChanged)
			s.Len(published, before+1)
			var payload events.AccountBalanceChanged
			s.NoError(published[len(published)-1].Decode(&payload))
			s.Equal(acct.ID, payload.AccountID)
			s.Equal(resp.Version, payload.Version)
		})
	}
}

func (s *AccountServiceSuite) TestPublishFailureDoesNotFailUpdate() {
	acct := s.createAccount(100)
	s.GetPublisher().Err = ierr.NewError("broker down").Mark(ierr.ErrSystem)

	resp, err := s.service.UpdateBalance(s.GetContext(), acct.ID, 0, dto.UpdateBalanceRequest{
		Amount: decimal.NewFromInt(-10),
	})
	s.NoError(err)
	s.True(resp.Balance.Equal(decimal.NewFromInt(90)))
}

func (s *AccountServiceSuite) TestListAccountsByBalance() {
	s.createAccount(10)
	s.createAccount(500)

	expr, err := filterAccounts(map[string][]string{"minBalance": {"100"}})
	s.Require().NoError(err)
	resp, err := s.service.ListAccounts(s.GetContext(), filter.NewListFilter(expr, nil))
	s.NoError(err)
	s.Len(resp.Items, 1)
	s.True(resp.Items[0].Balance.Equal(decimal.NewFromInt(500)))

	// unparseable numbers drop their own predicate
	expr, err = filterAccounts(map[string][]string{"minBalance": {"lots"}})
	s.Require().NoError(err)
	resp, err = s.service.ListAccounts(s.GetContext(), filter.NewListFilter(expr, nil))
	s.NoError(err)
	s.Len(resp.Items, 2)

	others, err := s.service.ListAccounts(testutil.SetupContextFor("bob"), filter.NewListFilter(nil, nil))
	s.NoError(err)
	s.Empty(others.Items)
}

func filterAccounts(params map[string][]string) (filter.Expr, error) {
	return account.FilterSchema.Compile(params)
}
