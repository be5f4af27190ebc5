package transaction

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/types"
)

// Transaction is an immutable ledger movement between two parties. Either
// side may be nil for cash movements, or the zero sentinel for movements
// with the bank itself. Its type is never stored; see Classify.
type Transaction struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Sender    *string         `json:"sender"`
	Receiver  *string         `json:"receiver"`
	Purpose   string          `json:"purpose"`
	Reference string          `json:"reference"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by"`
}

// Involves reports whether accountID is either party of the transaction
func (t *Transaction) Involves(accountID string) bool {
	return is(t.Sender, accountID) || is(t.Receiver, accountID)
}

// FilterValue exposes transaction attributes to the in-memory filter backend
func (t *Transaction) FilterValue(path string) (any, bool) {
	switch path {
	case "sender":
		return t.Sender, t.Sender != nil
	case "receiver":
		return t.Receiver, t.Receiver != nil
	case "currency":
		return t.Currency, true
	case "purpose":
		return t.Purpose, true
	case "reference":
		return t.Reference, true
	case "amount":
		return t.Amount, true
	}
	return nil, false
}

// FilterSchema lists the query keys transactions can be listed by
var FilterSchema = filter.NewSchema("transaction",
	filter.Field{Key: "sender", Kind: filter.KindStringExact},
	filter.Field{Key: "receiver", Kind: filter.KindStringExact},
	filter.Field{Key: "currency", Kind: filter.KindStringExact},
	filter.Field{Key: "reference", Kind: filter.KindStringExact},
	filter.Field{Key: "purpose", Kind: filter.KindStringContains},
	filter.Field{Key: "amount", Kind: filter.KindNumberExact},
	filter.Field{Key: "minAmount", Kind: filter.KindNumberMin, Path: "amount"},
	filter.Field{Key: "maxAmount", Kind: filter.KindNumberMax, Path: "amount"},
)

// IsSystemParty reports whether id is the zero sentinel
func IsSystemParty(id *string) bool {
	return is(id, types.SentinelZeroID)
}

func is(p *string, v string) bool {
	return p != nil && *p == v
}
