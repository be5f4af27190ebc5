package invoice

import (
	"context"

	"github.com/tallybank/tallybank/internal/filter"
)

// Repository defines the interface for invoice persistence operations.
// Invoices are never deleted.
type Repository interface {
	// Create stores a new invoice without payments
	Create(ctx context.Context, inv *Invoice) error

	// Get retrieves an invoice with its payments in settlement order
	Get(ctx context.Context, id string) (*Invoice, error)

	// Update writes the invoice if its Version still matches the stored one,
	// appends payments not yet stored, and bumps inv.Version by one
	Update(ctx context.Context, inv *Invoice) error

	// List retrieves invoices without their payments
	List(ctx context.Context, f *filter.ListFilter) ([]*Invoice, error)

	// Count returns the number of invoices matching the filter
	Count(ctx context.Context, f *filter.ListFilter) (int, error)
}
