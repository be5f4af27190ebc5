package transaction

import (
	"context"

	"github.com/tallybank/tallybank/internal/filter"
)

// Repository defines the interface for ledger persistence. Transactions are
// append-only.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	Get(ctx context.Context, id string) (*Transaction, error)
	// GetByReference finds the transaction recorded for an external
	// reference such as a settled invoice payment
	GetByReference(ctx context.Context, reference string) (*Transaction, error)
	List(ctx context.Context, f *filter.ListFilter) ([]*Transaction, error)
	Count(ctx context.Context, f *filter.ListFilter) (int, error)
}
