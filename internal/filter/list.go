package filter

import "github.com/tallybank/tallybank/internal/types"

// ListFilter is what list endpoints hand to repositories: a compiled
// attribute predicate plus pagination.
type ListFilter struct {
	*types.QueryFilter
	Expr Expr
}

func NewListFilter(expr Expr, qf *types.QueryFilter) *ListFilter {
	if qf == nil {
		qf = types.NewDefaultQueryFilter()
	}
	return &ListFilter{QueryFilter: qf, Expr: expr}
}

// NewNoLimitListFilter returns a filter over every record matching expr
func NewNoLimitListFilter(expr Expr) *ListFilter {
	return &ListFilter{QueryFilter: types.NewNoLimitQueryFilter(), Expr: expr}
}
