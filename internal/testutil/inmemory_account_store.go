package testutil

import (
	"context"

	"github.com/tallybank/tallybank/internal/domain/account"
	"github.com/tallybank/tallybank/internal/filter"
)

// InMemoryAccountStore implements account.Repository
type InMemoryAccountStore struct {
	*InMemoryStore[*account.Account]
}

var _ account.Repository = (*InMemoryAccountStore)(nil)

func NewInMemoryAccountStore() *InMemoryAccountStore {
	return &InMemoryAccountStore{
		InMemoryStore: NewInMemoryStore[*account.Account]("account"),
	}
}

func copyAccount(a *account.Account) *account.Account {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}

func (s *InMemoryAccountStore) Create(ctx context.Context, a *account.Account) error {
	return s.InMemoryStore.Create(ctx, a.ID, copyAccount(a))
}

func (s *InMemoryAccountStore) Get(ctx context.Context, id string) (*account.Account, error) {
	a, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyAccount(a), nil
}

func (s *InMemoryAccountStore) Update(ctx context.Context, a *account.Account) error {
	next := copyAccount(a)
	next.Version = a.Version + 1
	if err := s.InMemoryStore.Update(ctx, a.ID, next, a.Version, func(a *account.Account) int64 { return a.Version }); err != nil {
		return err
	}
	a.Version++
	return nil
}

func (s *InMemoryAccountStore) List(ctx context.Context, f *filter.ListFilter) ([]*account.Account, error) {
	items, err := s.InMemoryStore.List(ctx, f, byCreatedAt(f, func(a *account.Account) int64 {
		return a.CreatedAt.UnixNano()
	}))
	if err != nil {
		return nil, err
	}
	out := make([]*account.Account, len(items))
	for i, a := range items {
		out[i] = copyAccount(a)
	}
	return out, nil
}

func (s *InMemoryAccountStore) Count(ctx context.Context, f *filter.ListFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, f)
}
