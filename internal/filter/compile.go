package filter

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/logger"
)

// Compile turns query parameters into a predicate.
//
// An empty map compiles to nil (no filtering). Unknown keys fail with
// ErrUnknownFilterKey. A key with zero or several values, an enum label that
// matches nothing, or an unknown tag makes the whole filter Never. A numeric
// value that does not parse drops only its own sub-predicate.
func (s *Schema) Compile(params map[string][]string) (Expr, error) {
	if len(params) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if _, ok := s.fields[k]; !ok {
			return nil, ierr.NewErrorf("unknown filter key %q for %s", k, s.entity).
				WithHintf("Unknown filter parameter %s", k).
				WithReportableDetails(map[string]any{
					"key":     k,
					"allowed": s.Keys(),
				}).
				Mark(ierr.ErrUnknownFilterKey)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	exprs := make([]Expr, 0, len(keys))
	for _, k := range keys {
		e := s.compileField(s.fields[k], params[k])
		if e == nil {
			continue
		}
		if IsNever(e) {
			return Never{}, nil
		}
		exprs = append(exprs, e)
	}

	switch len(exprs) {
	case 0:
		return nil, nil
	case 1:
		return exprs[0], nil
	default:
		return And{Exprs: exprs}, nil
	}
}

func (s *Schema) compileField(f Field, values []string) Expr {
	if f.Kind == KindTagSet {
		return compileTagSet(f, values)
	}

	if len(values) != 1 {
		return Never{}
	}
	value := values[0]

	switch f.Kind {
	case KindStringExact:
		return Equals{Path: f.Path, Value: value}
	case KindStringContains, KindNestedPath:
		return Contains{Path: f.Path, Value: value}
	case KindEnumExact:
		label, ok := lookup(f, value)
		if !ok {
			return Never{}
		}
		return Equals{Path: f.Path, Value: label}
	case KindNumberExact, KindNumberMin, KindNumberMax:
		n, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			logger.L.Debugw("dropping unparseable numeric filter",
				"entity", s.entity,
				"key", f.Key,
				"value", value,
			)
			return nil
		}
		return Compare{Path: f.Path, Op: compareOp(f.Kind), Value: n}
	}
	return Never{}
}

// compileTagSet requires every listed tag, each matched as a member
func compileTagSet(f Field, values []string) Expr {
	if len(values) == 0 {
		return Never{}
	}
	exprs := make([]Expr, 0, len(values))
	for _, v := range values {
		label, ok := lookup(f, v)
		if !ok {
			return Never{}
		}
		exprs = append(exprs, Contains{Path: f.Path, Value: label})
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return And{Exprs: exprs}
}

func lookup(f Field, value string) (string, bool) {
	if f.Enum == nil {
		return "", false
	}
	return f.Enum(value)
}

func compareOp(k Kind) CompareOp {
	switch k {
	case KindNumberMin:
		return OpGTE
	case KindNumberMax:
		return OpLTE
	default:
		return OpEQ
	}
}
