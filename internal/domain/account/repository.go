package account

import (
	"context"

	"github.com/tallybank/tallybank/internal/filter"
)

// Repository defines the interface for account persistence operations
type Repository interface {
	Create(ctx context.Context, a *Account) error
	Get(ctx context.Context, id string) (*Account, error)
	// Update writes a if its Version still matches the stored one and then
	// bumps a.Version by one
	Update(ctx context.Context, a *Account) error
	List(ctx context.Context, f *filter.ListFilter) ([]*Account, error)
	Count(ctx context.Context, f *filter.ListFilter) (int, error)
}
