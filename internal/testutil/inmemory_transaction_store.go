package testutil

import (
	"context"

	"github.com/tallybank/tallybank/internal/domain/transaction"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/filter"
)

// InMemoryTransactionStore implements transaction.Repository
type InMemoryTransactionStore struct {
	*InMemoryStore[*transaction.Transaction]
}

var _ transaction.Repository = (*InMemoryTransactionStore)(nil)

func NewInMemoryTransactionStore() *InMemoryTransactionStore {
	return &InMemoryTransactionStore{
		InMemoryStore: NewInMemoryStore[*transaction.Transaction]("transaction"),
	}
}

func copyTransaction(t *transaction.Transaction) *transaction.Transaction {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

// Create enforces unique references the way the unique index does
func (s *InMemoryTransactionStore) Create(ctx context.Context, t *transaction.Transaction) error {
	return s.CreateUnique(ctx, t.ID, copyTransaction(t), func(x *transaction.Transaction) bool {
		return t.Reference != "" && x.Reference == t.Reference
	})
}

func (s *InMemoryTransactionStore) Get(ctx context.Context, id string) (*transaction.Transaction, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyTransaction(t), nil
}

func (s *InMemoryTransactionStore) GetByReference(ctx context.Context, reference string) (*transaction.Transaction, error) {
	t, ok := s.Find(ctx, func(x *transaction.Transaction) bool { return reference != "" && x.Reference == reference })
	if !ok {
		return nil, ierr.NewErrorf("transaction with reference %s not found", reference).
			WithHint("Transaction not found").
			Mark(ierr.ErrNotFound)
	}
	return copyTransaction(t), nil
}

func (s *InMemoryTransactionStore) List(ctx context.Context, f *filter.ListFilter) ([]*transaction.Transaction, error) {
	items, err := s.InMemoryStore.List(ctx, f, byCreatedAt(f, func(t *transaction.Transaction) int64 {
		return t.CreatedAt.UnixNano()
	}))
	if err != nil {
		return nil, err
	}
	out := make([]*transaction.Transaction, len(items))
	for i, t := range items {
		out[i] = copyTransaction(t)
	}
	return out, nil
}

func (s *InMemoryTransactionStore) Count(ctx context.Context, f *filter.ListFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, f)
}
