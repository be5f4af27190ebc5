package dsl

import (
	"entgo.io/ent/dialect/sql"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/types"
)

type Predicate = func(*sql.Selector)
type OrderFunc = func(*sql.Selector)

type FieldInfo struct {
	ColumnName string // real DB column name
	Array      bool   // text[] column, predicates test membership
}

type FieldResolver func(logical string) (*FieldInfo, error)

// MapResolver resolves logical paths through a fixed column table
func MapResolver(entity string, columns map[string]FieldInfo) FieldResolver {
	return func(logical string) (*FieldInfo, error) {
		fi, ok := columns[logical]
		if !ok {
			return nil, ierr.NewErrorf("no column for %s.%s", entity, logical).
				WithHintf("Cannot filter or sort by %s", logical).
				Mark(ierr.ErrValidation)
		}
		return &fi, nil
	}
}

// BuildPredicate translates a compiled filter into a WHERE clause. A nil
// expression yields a nil predicate.
func BuildPredicate(e filter.Expr, resolve FieldResolver) (Predicate, error) {
	if e == nil {
		return nil, nil
	}
	p, err := build(e, resolve)
	if err != nil {
		return nil, err
	}
	return func(sel *sql.Selector) { sel.Where(p) }, nil
}

func build(e filter.Expr, resolve FieldResolver) (*sql.Predicate, error) {
	switch x := e.(type) {
	case filter.Never:
		return sql.False(), nil

	case filter.And:
		if len(x.Exprs) == 0 {
			return sql.P(func(b *sql.Builder) { b.WriteString("TRUE") }), nil
		}
		preds := make([]*sql.Predicate, 0, len(x.Exprs))
		for _, child := range x.Exprs {
			p, err := build(child, resolve)
			if err != nil {
				return nil, err
			}
			preds = append(preds, p)
		}
		return sql.And(preds...), nil

	case filter.Equals:
		fi, err := resolve(x.Path)
		if err != nil {
			return nil, err
		}
		if fi.Array {
			return arrayHas(fi.ColumnName, x.Value), nil
		}
		return sql.EQ(fi.ColumnName, x.Value), nil

	case filter.Contains:
		fi, err := resolve(x.Path)
		if err != nil {
			return nil, err
		}
		if fi.Array {
			return arrayHas(fi.ColumnName, x.Value), nil
		}
		return sql.ContainsFold(fi.ColumnName, x.Value), nil

	case filter.Compare:
		fi, err := resolve(x.Path)
		if err != nil {
			return nil, err
		}
		switch x.Op {
		case filter.OpGTE:
			return sql.GTE(fi.ColumnName, x.Value), nil
		case filter.OpLTE:
			return sql.LTE(fi.ColumnName, x.Value), nil
		default:
			return sql.EQ(fi.ColumnName, x.Value), nil
		}
	}

	return nil, ierr.NewErrorf("unsupported filter expression %T", e).
		Mark(ierr.ErrSystem)
}

// arrayHas renders "$n = ANY(column)"; tag values are canonical enum labels
func arrayHas(column, value string) *sql.Predicate {
	return sql.P(func(b *sql.Builder) {
		b.Arg(value).WriteString(" = ANY(").Ident(column).WriteString(")")
	})
}

// BuildOrder returns the ORDER BY for a query filter
func BuildOrder(f *types.QueryFilter, resolve FieldResolver) (OrderFunc, error) {
	fi, err := resolve(f.GetSort())
	if err != nil {
		return nil, err
	}
	if fi.Array {
		return nil, ierr.NewErrorf("cannot sort by %s", f.GetSort()).
			WithHint("Sorting is not supported on this field").
			Mark(ierr.ErrValidation)
	}
	if f.GetOrder() == types.OrderAsc {
		return func(sel *sql.Selector) { sel.OrderBy(sql.Asc(fi.ColumnName)) }, nil
	}
	return func(sel *sql.Selector) { sel.OrderBy(sql.Desc(fi.ColumnName)) }, nil
}
