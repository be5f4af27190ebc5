package service

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/tallybank/tallybank/internal/api/dto"
	"github.com/tallybank/tallybank/internal/domain/customer"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/testutil"
	"github.com/tallybank/tallybank/internal/types"
)

type CustomerServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CustomerService
}

func TestCustomerService(t *testing.T) {
	suite.Run(t, new(CustomerServiceSuite))
}

func (s *CustomerServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCustomerService(newTestServiceParams(&s.BaseServiceTestSuite))
}

func (s *CustomerServiceSuite) createRequest(username string) dto.CreateCustomerRequest {
	return dto.CreateCustomerRequest{
		Username:       username,
		LastName:       "Smith",
		FirstName:      "Alice",
		Email:          username + "@example.com",
		Gender:         "female",
		MaritalStatus:  "single",
		TierLevel:      2,
		Interests:      []string{"savings"},
		ContactOptions: []string{"email", "phone"},
		Address: dto.AddressRequest{
			Street: "Main Street",
			City:   "Berlin",
		},
	}
}

func (s *CustomerServiceSuite) TestCreateCustomer() {
	testCases := []struct {
		name          string
		request       dto.CreateCustomerRequest
		expectedError bool
		errorCode     string
	}{
		{
			name:    "successful_creation",
			request: s.createRequest(testutil.DefaultUsername),
		},
		{
			name:          "other_username",
			request:       s.createRequest("mallory"),
			expectedError: true,
			errorCode:     ierr.ErrCodePermissionDenied,
		},
		{
			name: "unknown_gender",
			request: func() dto.CreateCustomerRequest {
				r := s.createRequest(testutil.DefaultUsername)
				r.Gender = "robot"
				return r
			}(),
			expectedError: true,
			errorCode:     ierr.ErrCodeValidation,
		},
		{
			name: "missing_last_name",
			request: func() dto.CreateCustomerRequest {
				r := s.createRequest(testutil.DefaultUsername)
				r.LastName = ""
				return r
			}(),
			expectedError: true,
			errorCode:     ierr.ErrCodeValidation,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.service.CreateCustomer(s.GetContext(), tc.request)

			if tc.expectedError {
				s.Error(err)
				s.Nil(resp)
				s.Equal(tc.errorCode, ierr.CodeFromErr(err))
				return
			}

			s.NoError(err)
			s.Equal(types.GenderFemale, resp.Gender)
			s.Equal(int64(0), resp.Version)

			stored, err := s.GetStores().CustomerRepo.Get(s.GetContext(), resp.ID)
			s.NoError(err)
			s.Equal(tc.request.Username, stored.Username)
		})
	}
}

func (s *CustomerServiceSuite) TestGetCustomerOfSomebodyElse() {
	resp, err := s.service.CreateCustomer(testutil.SetupAdminContext(), s.createRequest("bob"))
	s.Require().NoError(err)

	_, err = s.service.GetCustomer(s.GetContext(), resp.ID)
	s.True(ierr.IsPermissionDenied(err))

	got, err := s.service.GetCustomer(testutil.SetupAdminContext(), resp.ID)
	s.NoError(err)
	s.Equal("bob", got.Username)
}

func (s *CustomerServiceSuite) TestListCustomersIsScopedToCaller() {
	admin := testutil.SetupAdminContext()
	for _, u := range []string{testutil.DefaultUsername, "bob", "carol"} {
		_, err := s.service.CreateCustomer(admin, s.createRequest(u))
		s.Require().NoError(err)
	}

	own, err := s.service.ListCustomers(s.GetContext(), filter.NewListFilter(nil, nil))
	s.NoError(err)
	s.Len(own.Items, 1)
	s.Equal(1, own.Pagination.Total)

	all, err := s.service.ListCustomers(admin, filter.NewListFilter(nil, nil))
	s.NoError(err)
	s.Len(all.Items, 3)

	expr, err := customer.FilterSchema.Compile(map[string][]string{"username": {"bob"}})
	s.Require().NoError(err)
	one, err := s.service.ListCustomers(admin, filter.NewListFilter(expr, nil))
	s.NoError(err)
	s.Len(one.Items, 1)
	s.Equal("bob", one.Items[0].Username)

	none, err := s.service.ListCustomers(admin, filter.NewListFilter(filter.Never{}, nil))
	s.NoError(err)
	s.Empty(none.Items)
}

func (s *CustomerServiceSuite) TestUpdateCustomer() {
	created, err := s.service.CreateCustomer(s.GetContext(), s.createRequest(testutil.DefaultUsername))
	s.Require().NoError(err)

	update := dto.UpdateCustomerRequest{
		LastName:      "Jones",
		Gender:        "FEMALE",
		MaritalStatus: "MARRIED",
		TierLevel:     3,
	}

	updated, err := s.service.UpdateCustomer(s.GetContext(), created.ID, 0, update)
	s.Require().NoError(err)
	s.Equal("Jones", updated.LastName)
	s.Equal(types.MaritalStatusMarried, updated.MaritalStatus)
	s.Equal(int64(1), updated.Version)

	_, err = s.service.UpdateCustomer(s.GetContext(), created.ID, 0, update)
	s.True(ierr.Is(err, ierr.ErrVersionStale))

	_, err = s.service.UpdateCustomer(s.GetContext(), created.ID, 5, update)
	s.True(ierr.Is(err, ierr.ErrVersionAhead))

	_, err = s.service.UpdateCustomer(s.GetContext(), "missing", 0, update)
	s.True(ierr.IsNotFound(err))
}
