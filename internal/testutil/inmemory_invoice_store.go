package testutil

import (
	"context"
	"slices"

	"github.com/tallybank/tallybank/internal/domain/invoice"
	"github.com/tallybank/tallybank/internal/filter"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
	// FailUpdates makes every Update fail with this error
	FailUpdates error
}

var _ invoice.Repository = (*InMemoryInvoiceStore)(nil)

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice]("invoice"),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	cp := *inv
	cp.Payments = slices.Clone(inv.Payments)
	if inv.DueDate != nil {
		d := *inv.DueDate
		cp.DueDate = &d
	}
	return &cp
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	cp := copyInvoice(inv)
	cp.Payments = nil
	return s.InMemoryStore.Create(ctx, inv.ID, cp)
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cp := copyInvoice(inv)
	if cp.Payments == nil {
		cp.Payments = []*invoice.Payment{}
	}
	return cp, nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if s.FailUpdates != nil {
		return s.FailUpdates
	}
	next := copyInvoice(inv)
	next.Version = inv.Version + 1
	if err := s.InMemoryStore.Update(ctx, inv.ID, next, inv.Version, func(i *invoice.Invoice) int64 { return i.Version }); err != nil {
		return err
	}
	inv.Version++
	return nil
}

// List returns invoices without their payments
func (s *InMemoryInvoiceStore) List(ctx context.Context, f *filter.ListFilter) ([]*invoice.Invoice, error) {
	items, err := s.InMemoryStore.List(ctx, f, byCreatedAt(f, func(i *invoice.Invoice) int64 {
		return i.CreatedAt.UnixNano()
	}))
	if err != nil {
		return nil, err
	}
	out := make([]*invoice.Invoice, len(items))
	for i, inv := range items {
		out[i] = copyInvoice(inv)
		out[i].Payments = []*invoice.Payment{}
	}
	return out, nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, f *filter.ListFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, f)
}
