package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tallybank/tallybank/internal/domain/transaction"
	"github.com/tallybank/tallybank/internal/dsl"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/postgres"
)

type transactionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTransactionRepository(db *postgres.DB, logger *logger.Logger) transaction.Repository {
	return &transactionRepository{db: db, logger: logger}
}

var transactionColumns = dsl.MapResolver("transaction", map[string]dsl.FieldInfo{
	"sender":     {ColumnName: "sender"},
	"receiver":   {ColumnName: "receiver"},
	"currency":   {ColumnName: "currency"},
	"purpose":    {ColumnName: "purpose"},
	"reference":  {ColumnName: "reference"},
	"amount":     {ColumnName: "amount"},
	"created_at": {ColumnName: "created_at"},
})

type transactionRow struct {
	ID        string          `db:"id"`
	Amount    decimal.Decimal `db:"amount"`
	Currency  string          `db:"currency"`
	Sender    *string         `db:"sender"`
	Receiver  *string         `db:"receiver"`
	Purpose   string          `db:"purpose"`
	Reference *string         `db:"reference"`
	CreatedAt time.Time       `db:"created_at"`
	CreatedBy string          `db:"created_by"`
}

func toTransactionRow(t *transaction.Transaction) *transactionRow {
	return &transactionRow{
		ID:        t.ID,
		Amount:    t.Amount,
		Currency:  t.Currency,
		Sender:    t.Sender,
		Receiver:  t.Receiver,
		Purpose:   t.Purpose,
		Reference: lo.EmptyableToPtr(t.Reference),
		CreatedAt: t.CreatedAt,
		CreatedBy: t.CreatedBy,
	}
}

func (r *transactionRow) toDomain() *transaction.Transaction {
	return &transaction.Transaction{
		ID:        r.ID,
		Amount:    r.Amount,
		Currency:  r.Currency,
		Sender:    r.Sender,
		Receiver:  r.Receiver,
		Purpose:   r.Purpose,
		Reference: lo.FromPtr(r.Reference),
		CreatedAt: r.CreatedAt,
		CreatedBy: r.CreatedBy,
	}
}

func (r *transactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, amount, currency, sender, receiver, purpose, reference, created_at, created_by
		) VALUES (
			:id, :amount, :currency, :sender, :receiver, :purpose, :reference, :created_at, :created_by
		)`

	r.logger.Debugw("recording transaction",
		"transaction_id", t.ID,
		"amount", t.Amount,
		"reference", t.Reference,
	)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, toTransactionRow(t)); err != nil {
		return dbError(err, "failed to record transaction")
	}
	return nil
}

func (r *transactionRepository) Get(ctx context.Context, id string) (*transaction.Transaction, error) {
	var row transactionRow
	if err := getOne(ctx, r.db.GetQuerier(ctx), &row, "transaction", id,
		"SELECT * FROM transactions WHERE id = $1", id); err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

func (r *transactionRepository) GetByReference(ctx context.Context, reference string) (*transaction.Transaction, error) {
	var row transactionRow
	err := r.db.GetQuerier(ctx).GetContext(ctx, &row, "SELECT * FROM transactions WHERE reference = $1", reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("transaction", reference)
	}
	if err != nil {
		return nil, dbError(err, "failed to get transaction by reference")
	}
	return row.toDomain(), nil
}

func (r *transactionRepository) List(ctx context.Context, f *filter.ListFilter) ([]*transaction.Transaction, error) {
	query, args, err := listQuery("transactions", f, transactionColumns)
	if err != nil {
		return nil, err
	}

	var rows []transactionRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, dbError(err, "failed to list transactions")
	}
	return lo.Map(rows, func(row transactionRow, _ int) *transaction.Transaction { return row.toDomain() }), nil
}

func (r *transactionRepository) Count(ctx context.Context, f *filter.ListFilter) (int, error) {
	return count(ctx, r.db.GetQuerier(ctx), "transactions", f, transactionColumns)
}
