package filter

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Record exposes attribute values to the in-memory backend. Values are
// string, []string, decimal.Decimal or one of the Go integer/float types.
type Record interface {
	FilterValue(path string) (any, bool)
}

// Match evaluates e against r. A nil expression matches every record.
func Match(e Expr, r Record) bool {
	switch x := e.(type) {
	case nil:
		return true
	case Never:
		return false
	case And:
		for _, child := range x.Exprs {
			if !Match(child, r) {
				return false
			}
		}
		return true
	case Equals:
		v, ok := r.FilterValue(x.Path)
		if !ok {
			return false
		}
		return anyString(v, func(s string) bool { return s == x.Value })
	case Contains:
		v, ok := r.FilterValue(x.Path)
		if !ok {
			return false
		}
		needle := strings.ToLower(x.Value)
		return anyString(v, func(s string) bool {
			return strings.Contains(strings.ToLower(s), needle)
		})
	case Compare:
		v, ok := r.FilterValue(x.Path)
		if !ok {
			return false
		}
		n, ok := toDecimal(v)
		if !ok {
			return false
		}
		switch x.Op {
		case OpGTE:
			return n.GreaterThanOrEqual(x.Value)
		case OpLTE:
			return n.LessThanOrEqual(x.Value)
		default:
			return n.Equal(x.Value)
		}
	}
	return false
}

func anyString(v any, pred func(string) bool) bool {
	switch s := v.(type) {
	case string:
		return pred(s)
	case []string:
		for _, e := range s {
			if pred(e) {
				return true
			}
		}
	case *string:
		return s != nil && pred(*s)
	case interface{ String() string }:
		return pred(s.String())
	}
	return false
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case *decimal.Decimal:
		if n == nil {
			return decimal.Zero, false
		}
		return *n, true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int32:
		return decimal.NewFromInt32(n), true
	case int64:
		return decimal.NewFromInt(n), true
	case float64:
		return decimal.NewFromFloat(n), true
	}
	return decimal.Zero, false
}
