package service

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/tallybank/tallybank/internal/api/dto"
	"github.com/tallybank/tallybank/internal/domain/customer"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/interfaces"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/tallybank/tallybank/internal/version"
)

type CustomerService = interfaces.CustomerService

type customerService struct {
	ServiceParams
}

func NewCustomerService(params ServiceParams) CustomerService {
	return &customerService{
		ServiceParams: params,
	}
}

func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := req.ToCustomer(ctx)
	if err != nil {
		return nil, err
	}

	// customers register themselves, admins may register anybody
	if err := authorizeOwner(ctx, cust.Username, "customer", cust.ID); err != nil {
		return nil, err
	}

	if err := s.CustomerRepo.Create(ctx, cust); err != nil {
		return nil, err
	}

	s.Logger.Infow("created customer",
		"customer_id", cust.ID,
		"username", cust.Username,
	)
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) GetCustomer(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ctx, cust.Username, "customer", id); err != nil {
		return nil, err
	}
	return &dto.CustomerResponse{Customer: cust}, nil
}

func (s *customerService) ListCustomers(ctx context.Context, f *filter.ListFilter) (*dto.ListCustomersResponse, error) {
	f = scopeToCaller(ctx, f, "username")
	if err := f.Validate(); err != nil {
		return nil, err
	}

	customers, err := s.CustomerRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	count, err := s.CustomerRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := lo.Map(customers, func(c *customer.Customer, _ int) *dto.CustomerResponse {
		return &dto.CustomerResponse{Customer: c}
	})
	resp := types.NewListResponse(items, count, f.GetLimit(), f.GetOffset())
	return &resp, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, id string, expectedVersion int64, req dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(ctx, cust.Username, "customer", id); err != nil {
		return nil, err
	}
	if err := version.Compare(expectedVersion, cust.Version); err != nil {
		return nil, err
	}

	if err := req.ApplyTo(cust); err != nil {
		return nil, err
	}
	cust.UpdatedAt = time.Now().UTC()
	cust.UpdatedBy = types.GetUsername(ctx)

	if err := s.CustomerRepo.Update(ctx, cust); err != nil {
		return nil, err
	}

	s.Logger.Infow("updated customer",
		"customer_id", cust.ID,
		"version", cust.Version,
	)
	return &dto.CustomerResponse{Customer: cust}, nil
}
