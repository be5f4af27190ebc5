package postgres

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tallybank/tallybank/internal/domain/invoice"
	"github.com/tallybank/tallybank/internal/dsl"
	"github.com/tallybank/tallybank/internal/filter"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/postgres"
	"github.com/tallybank/tallybank/internal/types"
)

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

var invoiceColumns = dsl.MapResolver("invoice", map[string]dsl.FieldInfo{
	"number":           {ColumnName: "number"},
	"type":             {ColumnName: "type"},
	"status":           {ColumnName: "status"},
	"account_id":       {ColumnName: "account_id"},
	"username":         {ColumnName: "username"},
	"currency":         {ColumnName: "currency"},
	"description":      {ColumnName: "description"},
	"total_amount":     {ColumnName: "total_amount"},
	"amount_remaining": {ColumnName: "amount_remaining"},
	"due_date":         {ColumnName: "due_date"},
	"created_at":       {ColumnName: "created_at"},
	"updated_at":       {ColumnName: "updated_at"},
})

type invoiceRow struct {
	ID              string          `db:"id"`
	Number          string          `db:"number"`
	Type            string          `db:"type"`
	Status          string          `db:"status"`
	AccountID       string          `db:"account_id"`
	Username        string          `db:"username"`
	Currency        string          `db:"currency"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	AmountRemaining decimal.Decimal `db:"amount_remaining"`
	DueDate         *time.Time      `db:"due_date"`
	Description     string          `db:"description"`
	types.BaseModel
}

type paymentRow struct {
	Seq       int64           `db:"seq"`
	ID        string          `db:"id"`
	InvoiceID string          `db:"invoice_id"`
	Amount    decimal.Decimal `db:"amount"`
	CreatedAt time.Time       `db:"created_at"`
	CreatedBy string          `db:"created_by"`
}

func toInvoiceRow(inv *invoice.Invoice) *invoiceRow {
	return &invoiceRow{
		ID:              inv.ID,
		Number:          inv.Number,
		Type:            string(inv.Type),
		Status:          string(inv.Status),
		AccountID:       inv.AccountID,
		Username:        inv.Username,
		Currency:        inv.Currency,
		TotalAmount:     inv.TotalAmount,
		AmountRemaining: inv.AmountRemaining,
		DueDate:         inv.DueDate,
		Description:     inv.Description,
		BaseModel:       inv.BaseModel,
	}
}

func (r *invoiceRow) toDomain() *invoice.Invoice {
	return &invoice.Invoice{
		ID:              r.ID,
		Number:          r.Number,
		Type:            types.InvoiceType(r.Type),
		Status:          types.InvoiceStatus(r.Status),
		AccountID:       r.AccountID,
		Username:        r.Username,
		Currency:        r.Currency,
		TotalAmount:     r.TotalAmount,
		AmountRemaining: r.AmountRemaining,
		DueDate:         r.DueDate,
		Description:     r.Description,
		Payments:        []*invoice.Payment{},
		BaseModel:       r.BaseModel,
	}
}

func (r *paymentRow) toDomain() *invoice.Payment {
	return &invoice.Payment{
		ID:        r.ID,
		InvoiceID: r.InvoiceID,
		Amount:    r.Amount,
		CreatedAt: r.CreatedAt,
		CreatedBy: r.CreatedBy,
	}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, number, type, status, account_id, username, currency, total_amount,
			amount_remaining, due_date, description, version, created_at, updated_at,
			created_by, updated_by
		) VALUES (
			:id, :number, :type, :status, :account_id, :username, :currency, :total_amount,
			:amount_remaining, :due_date, :description, :version, :created_at, :updated_at,
			:created_by, :updated_by
		)`

	r.logger.Debugw("creating invoice",
		"invoice_id", inv.ID,
		"account_id", inv.AccountID,
		"total_amount", inv.TotalAmount,
	)

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, toInvoiceRow(inv)); err != nil {
		return dbError(err, "failed to create invoice")
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	q := r.db.GetQuerier(ctx)

	var row invoiceRow
	if err := getOne(ctx, q, &row, "invoice", id, "SELECT * FROM invoices WHERE id = $1", id); err != nil {
		return nil, err
	}
	inv := row.toDomain()

	var payments []paymentRow
	if err := q.SelectContext(ctx, &payments,
		"SELECT * FROM invoice_payments WHERE invoice_id = $1 ORDER BY seq ASC", id); err != nil {
		return nil, dbError(err, "failed to load invoice payments")
	}
	inv.Payments = lo.Map(payments, func(p paymentRow, _ int) *invoice.Payment { return p.toDomain() })
	return inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	return r.db.WithTx(ctx, func(ctx context.Context) error {
		q := r.db.GetQuerier(ctx)

		now := time.Now().UTC()
		inv.UpdatedAt = now
		inv.UpdatedBy = types.GetUsername(ctx)

		result, err := q.NamedExecContext(ctx, `
			UPDATE invoices SET
				status = :status,
				amount_remaining = :amount_remaining,
				due_date = :due_date,
				description = :description,
				version = version + 1,
				updated_at = :updated_at,
				updated_by = :updated_by
			WHERE id = :id AND version = :version`, toInvoiceRow(inv))
		if err != nil {
			return dbError(err, "failed to update invoice")
		}
		n, err := result.RowsAffected()
		if err != nil {
			return dbError(err, "failed to update invoice")
		}
		if n == 0 {
			return checkVersionConflict(ctx, q, "invoices", "invoice", inv.ID, inv.Version)
		}

		var stored []string
		if err := q.SelectContext(ctx, &stored,
			"SELECT id FROM invoice_payments WHERE invoice_id = $1", inv.ID); err != nil {
			return dbError(err, "failed to load invoice payments")
		}

		for _, p := range inv.Payments {
			if lo.Contains(stored, p.ID) {
				continue
			}
			if p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
			if _, err := q.NamedExecContext(ctx, `
				INSERT INTO invoice_payments (id, invoice_id, amount, created_at, created_by)
				VALUES (:id, :invoice_id, :amount, :created_at, :created_by)`, &paymentRow{
				ID:        p.ID,
				InvoiceID: inv.ID,
				Amount:    p.Amount,
				CreatedAt: p.CreatedAt,
				CreatedBy: p.CreatedBy,
			}); err != nil {
				return dbError(err, "failed to append invoice payment")
			}
		}

		inv.Version++
		return nil
	})
}

func (r *invoiceRepository) List(ctx context.Context, f *filter.ListFilter) ([]*invoice.Invoice, error) {
	query, args, err := listQuery("invoices", f, invoiceColumns)
	if err != nil {
		return nil, err
	}

	var rows []invoiceRow
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, dbError(err, "failed to list invoices")
	}
	return lo.Map(rows, func(row invoiceRow, _ int) *invoice.Invoice { return row.toDomain() }), nil
}

func (r *invoiceRepository) Count(ctx context.Context, f *filter.ListFilter) (int, error) {
	return count(ctx, r.db.GetQuerier(ctx), "invoices", f, invoiceColumns)
}
