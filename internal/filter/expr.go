package filter

import "github.com/shopspring/decimal"

// Expr is a compiled predicate over one entity type. It is plain data so that
// each storage backend can translate it independently. A nil Expr means no
// filtering was requested.
type Expr interface {
	expr()
}

// Equals matches when the attribute at Path equals Value exactly. On
// multi-valued attributes it matches when any element equals Value.
type Equals struct {
	Path  string
	Value string
}

// Contains matches a case-insensitive substring of the attribute at Path.
// On multi-valued attributes it matches when any element contains Value.
type Contains struct {
	Path  string
	Value string
}

// CompareOp is a numeric comparison operator
type CompareOp string

const (
	OpEQ  CompareOp = "eq"
	OpGTE CompareOp = "gte"
	OpLTE CompareOp = "lte"
)

// Compare matches a numeric attribute against Value
type Compare struct {
	Path  string
	Op    CompareOp
	Value decimal.Decimal
}

// And matches when every child matches. An empty And matches everything.
type And struct {
	Exprs []Expr
}

// Never matches nothing. It is the result of a filter that cannot be
// satisfied, such as an ambiguous key or an unknown enum label.
type Never struct{}

func (Equals) expr()   {}
func (Contains) expr() {}
func (Compare) expr()  {}
func (And) expr()      {}
func (Never) expr()    {}

// IsNever reports whether e can match nothing
func IsNever(e Expr) bool {
	_, ok := e.(Never)
	return ok
}
