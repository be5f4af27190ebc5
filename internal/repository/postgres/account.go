package postgres

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/tallybank/tallybank/internal/domain/account"
	"github.com/tallybank/tallybank/internal/dsl"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/postgres"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/shopspring/decimal"
)

type accountRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// NewAccountRepository creates a new instance of account repository
func NewAccountRepository(db *postgres.DB, logger *logger.Logger) account.Repository {
	return &accountRepository{db: db, logger: logger}
}

var accountColumns = dsl.MapResolver("account", map[string]dsl.FieldInfo{
	"customer_id":      {ColumnName: "customer_id"},
	"owner_username":   {ColumnName: "owner_username"},
	"category":         {ColumnName: "category"},
	"state":            {ColumnName: "state"},
	"currency":         {ColumnName: "currency"},
	"balance":          {ColumnName: "balance"},
	"rate_of_interest": {ColumnName: "rate_of_interest"},
	"created_at":       {ColumnName: "created_at"},
	"updated_at":       {ColumnName: "updated_at"},
})

type accountRow struct {
	ID             string          `db:"id"`
	CustomerID     string          `db:"customer_id"`
	OwnerUsername  string          `db:"owner_username"`
	Category       string          `db:"category"`
	State          string          `db:"state"`
	Currency       string          `db:"currency"`
	Balance        decimal.Decimal `db:"balance"`
	RateOfInterest decimal.Decimal `db:"rate_of_interest"`
	OverdraftLimit decimal.Decimal `db:"overdraft_limit"`
	types.BaseModel
}

func toAccountRow(a *account.Account) *accountRow {
	return &accountRow{
		ID:             a.ID,
		CustomerID:     a.CustomerID,
		OwnerUsername:  a.OwnerUsername,
		Category:       string(a.Category),
		State:          string(a.State),
		Currency:       a.Currency,
		Balance:        a.Balance,
		RateOfInterest: a.RateOfInterest,
		OverdraftLimit: a.OverdraftLimit,
		BaseModel:      a.BaseModel,
	}
}

func (r *accountRow) toDomain() *account.Account {
	return &account.Account{
		ID:             r.ID,
		CustomerID:     r.CustomerID,
		OwnerUsername:  r.OwnerUsername,
		Category:       types.AccountCategory(r.Category),
		State:          types.AccountState(r.State),
		Currency:       r.Currency,
		Balance:        r.Balance,
		RateOfInterest: r.RateOfInterest,
		OverdraftLimit: r.OverdraftLimit,
		BaseModel:      r.BaseModel,
	}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (
			id, customer_id, owner_username, category, state, currency, balance,
			rate_of_interest, overdraft_limit, version, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :customer_id, :owner_username, :category, :state, :currency, :balance,
			:rate_of_interest, :overdraft_limit, :version, :created_at, :updated_at, :created_by, :updated_by
		)`

	r.logger.Debugw("creating account", "account_id", a.ID, "customer_id", a.CustomerID)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, toAccountRow(a)); err != nil {
		return dbError(err, "failed to create account")
	}
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id string) (*account.Account, error) {
	var row accountRow
	if err := getOne(ctx, r.db.GetQuerier(ctx), &row, "account", id,
		"SELECT * FROM accounts WHERE id = $1", id); err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *accountRepository) Update(ctx context.Context, a *account.Account) error {
	query := `
		UPDATE accounts SET
			state = :state,
			balance = :balance,
			rate_of_interest = :rate_of_interest,
			overdraft_limit = :overdraft_limit,
			version = version + 1,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND version = :version`

	a.UpdatedAt = time.Now().UTC()
	a.UpdatedBy = types.GetUsername(ctx)

	r.logger.Debugw("updating account",
		"account_id", a.ID,
		"version", a.Version,
		"balance", a.Balance,
	)

	q := r.db.GetQuerier(ctx)
	result, err := q.NamedExecContext(ctx, query, toAccountRow(a))
	if err != nil {
		return dbError(err, "failed to update account")
	}
	n, err := result.RowsAffected()
	if err != nil {
		return dbError(err, "failed to update account")
	}
	if n == 0 {
		return checkVersionConflict(ctx, q, "accounts", "account", a.ID, a.Version)
	}
	a.Version++
	return nil
}

func (r *accountRepository) List(ctx context.Context, f *filter.ListFilter) ([]*account.Account, error) {
	query, args, err := listQuery("accounts", f, accountColumns)
	if err != nil {
		return nil, err
	}

	var rows []accountRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, dbError(err, "failed to list accounts")
	}
	return lo.Map(rows, func(row accountRow, _ int) *account.Account { return row.toDomain() }), nil
}

func (r *accountRepository) Count(ctx context.Context, f *filter.ListFilter) (int, error) {
	return count(ctx, r.db.GetQuerier(ctx), "accounts", f, accountColumns)
}
