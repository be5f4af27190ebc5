package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tallybank/tallybank/internal/domain/account"
	"github.com/tallybank/tallybank/internal/gateway"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/tallybank/tallybank/internal/version"
)

// MockAccountGateway serves remote accounts from an account store, the way
// the account service would. Accounts registered as unavailable come back
// degraded.
type MockAccountGateway struct {
	mu          sync.Mutex
	store       *InMemoryAccountStore
	unavailable map[string]bool
	// DebitErr makes every debit fail with this error
	DebitErr error
	debits   []Debit
}

// Debit is one debit the gateway was asked for
type Debit struct {
	AccountID string
	Amount    decimal.Decimal
	Version   int64
	Token     string
}

var _ gateway.AccountGateway = (*MockAccountGateway)(nil)

func NewMockAccountGateway(store *InMemoryAccountStore) *MockAccountGateway {
	return &MockAccountGateway{
		store:       store,
		unavailable: make(map[string]bool),
	}
}

// SetUnavailable makes fetches of id fail as if the account service timed out
func (g *MockAccountGateway) SetUnavailable(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.unavailable[id] = true
}

func (g *MockAccountGateway) FetchAccount(ctx context.Context, id string, creds gateway.Credentials) *gateway.RemoteAccount {
	g.mu.Lock()
	unavailable := g.unavailable[id]
	g.mu.Unlock()

	if unavailable {
		return gateway.NewDegradedAccount(id, gateway.OwnerUnavailable)
	}
	a, err := g.store.Get(ctx, id)
	if err != nil {
		return gateway.NewDegradedAccount(id, gateway.OwnerNotFound)
	}
	return remoteAccount(a)
}

func (g *MockAccountGateway) DebitAccount(ctx context.Context, id string, amount decimal.Decimal, v int64, creds gateway.Credentials) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.debits = append(g.debits, Debit{AccountID: id, Amount: amount, Version: v, Token: creds.Token})
	if g.DebitErr != nil {
		return g.DebitErr
	}

	a, err := g.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := version.Compare(v, a.Version); err != nil {
		return err
	}
	if err := a.ApplyBalanceChange(amount.Neg()); err != nil {
		return err
	}
	return g.store.Update(ctx, a)
}

// Debits returns the debits requested so far
func (g *MockAccountGateway) Debits() []Debit {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Debit, len(g.debits))
	copy(out, g.debits)
	return out
}

func remoteAccount(a *account.Account) *gateway.RemoteAccount {
	return &gateway.RemoteAccount{
		ID:            a.ID,
		OwnerUsername: a.OwnerUsername,
		Currency:      a.Currency,
		Balance:       a.Balance,
		Version:       a.Version,
	}
}

// NewActiveAccount returns an active account of username holding balance
func NewActiveAccount(ctx context.Context, username string, balance decimal.Decimal) *account.Account {
	return &account.Account{
		ID:            types.GenerateID(),
		CustomerID:    types.GenerateID(),
		OwnerUsername: username,
		Category:      types.AccountCategoryChecking,
		State:         types.AccountStateActive,
		Currency:      "EUR",
		Balance:       balance,
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
}
