package customer

import (
	"context"

	"github.com/tallybank/tallybank/internal/filter"
)

// Repository defines the interface for customer persistence operations
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Get(ctx context.Context, id string) (*Customer, error)
	// Update writes c if its Version still matches the stored one and then
	// bumps c.Version by one
	Update(ctx context.Context, c *Customer) error
	List(ctx context.Context, f *filter.ListFilter) ([]*Customer, error)
	Count(ctx context.Context, f *filter.ListFilter) (int, error)
}
