package testutil

import (
	"context"
	"slices"

	"github.com/tallybank/tallybank/internal/domain/customer"
	"github.com/tallybank/tallybank/internal/filter"
)

// InMemoryCustomerStore implements customer.Repository
type InMemoryCustomerStore struct {
	*InMemoryStore[*customer.Customer]
}

var _ customer.Repository = (*InMemoryCustomerStore)(nil)

// NewInMemoryCustomerStore creates a new in-memory customer store
func NewInMemoryCustomerStore() *InMemoryCustomerStore {
	return &InMemoryCustomerStore{
		InMemoryStore: NewInMemoryStore[*customer.Customer]("customer"),
	}
}

func copyCustomer(c *customer.Customer) *customer.Customer {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Interests = slices.Clone(c.Interests)
	cp.ContactOptions = slices.Clone(c.ContactOptions)
	return &cp
}

func (s *InMemoryCustomerStore) Create(ctx context.Context, c *customer.Customer) error {
	return s.InMemoryStore.Create(ctx, c.ID, copyCustomer(c))
}

func (s *InMemoryCustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyCustomer(c), nil
}

func (s *InMemoryCustomerStore) Update(ctx context.Context, c *customer.Customer) error {
	next := copyCustomer(c)
	next.Version = c.Version + 1
	if err := s.InMemoryStore.Update(ctx, c.ID, next, c.Version, func(c *customer.Customer) int64 { return c.Version }); err != nil {
		return err
	}
	c.Version++
	return nil
}

func (s *InMemoryCustomerStore) List(ctx context.Context, f *filter.ListFilter) ([]*customer.Customer, error) {
	items, err := s.InMemoryStore.List(ctx, f, byCreatedAt(f, func(c *customer.Customer) int64 {
		return c.CreatedAt.UnixNano()
	}))
	if err != nil {
		return nil, err
	}
	out := make([]*customer.Customer, len(items))
	for i, c := range items {
		out[i] = copyCustomer(c)
	}
	return out, nil
}

func (s *InMemoryCustomerStore) Count(ctx context.Context, f *filter.ListFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, f)
}
