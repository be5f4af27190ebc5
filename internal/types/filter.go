package types

import (
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/samber/lo"
)

const (
	FILTER_DEFAULT_LIMIT = 50
	FILTER_MAX_LIMIT     = 1000
	FILTER_DEFAULT_SORT  = "created_at"
	FILTER_DEFAULT_ORDER = OrderDesc

	OrderDesc = "desc"
	OrderAsc  = "asc"
)

// PaginationKeys are the query keys bound into a QueryFilter. They are never
// handed to an attribute filter compiler.
var PaginationKeys = []string{"limit", "offset", "sort", "order"}

// QueryFilter carries pagination and ordering for list endpoints
type QueryFilter struct {
	Limit  *int    `json:"limit,omitempty" form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset *int    `json:"offset,omitempty" form:"offset" validate:"omitempty,min=0"`
	Sort   *string `json:"sort,omitempty" form:"sort"`
	Order  *string `json:"order,omitempty" form:"order" validate:"omitempty,oneof=asc desc"`
}

// NewDefaultQueryFilter returns the first page in the default order
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  lo.ToPtr(FILTER_DEFAULT_LIMIT),
		Offset: lo.ToPtr(0),
		Sort:   lo.ToPtr(FILTER_DEFAULT_SORT),
		Order:  lo.ToPtr(FILTER_DEFAULT_ORDER),
	}
}

// NewNoLimitQueryFilter returns a filter with no pagination limits
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{
		Offset: lo.ToPtr(0),
		Sort:   lo.ToPtr(FILTER_DEFAULT_SORT),
		Order:  lo.ToPtr(FILTER_DEFAULT_ORDER),
	}
}

func (f *QueryFilter) GetLimit() int {
	if f == nil || f.Limit == nil {
		return FILTER_DEFAULT_LIMIT
	}
	return *f.Limit
}

func (f *QueryFilter) GetOffset() int {
	if f == nil || f.Offset == nil {
		return 0
	}
	return *f.Offset
}

func (f *QueryFilter) GetSort() string {
	if f == nil || f.Sort == nil || *f.Sort == "" {
		return FILTER_DEFAULT_SORT
	}
	return *f.Sort
}

func (f *QueryFilter) GetOrder() string {
	if f == nil || f.Order == nil || *f.Order == "" {
		return FILTER_DEFAULT_ORDER
	}
	return *f.Order
}

// IsUnlimited returns true if this is an unlimited query
func (f *QueryFilter) IsUnlimited() bool {
	return f != nil && f.Limit == nil
}

// Validate validates the filter fields
func (f *QueryFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Limit != nil && (*f.Limit < 1 || *f.Limit > FILTER_MAX_LIMIT) {
		return ierr.NewError("limit must be between 1 and 1000").
			WithHint("Please provide a limit between 1 and 1000").
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("offset must be non-negative").
			WithHint("Please provide a non-negative offset").
			Mark(ierr.ErrValidation)
	}
	if f.Order != nil && *f.Order != OrderAsc && *f.Order != OrderDesc {
		return ierr.NewError("order must be either 'asc' or 'desc'").
			WithHint("Order must be either asc or desc").
			Mark(ierr.ErrValidation)
	}
	return nil
}
