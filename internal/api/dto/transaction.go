package dto

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tallybank/tallybank/internal/domain/transaction"
	ierr "github.com/tallybank/tallybank/internal/errors"
	"github.com/tallybank/tallybank/internal/types"
	"github.com/tallybank/tallybank/internal/validator"
)

// CreateTransactionRequest records a movement. A nil party is cash.
type CreateTransactionRequest struct {
	Amount    decimal.Decimal `json:"amount" validate:"required,positive_amount"`
	Currency  string          `json:"currency" validate:"required,len=3"`
	Sender    *string         `json:"sender"`
	Receiver  *string         `json:"receiver"`
	Purpose   string          `json:"purpose" validate:"omitempty,max=500"`
	Reference string          `json:"reference" validate:"omitempty,max=100"`
}

// TransactionResponse carries the type the transaction has from the
// requested viewpoint. It is computed on every read.
type TransactionResponse struct {
	*transaction.Transaction
	Type types.TransactionType `json:"type"`
}

// ListTransactionsResponse represents the response for listing transactions
type ListTransactionsResponse = types.ListResponse[*TransactionResponse]

// StatementResponse lists every transaction an account took part in, newest first
type StatementResponse struct {
	AccountID    string                 `json:"account_id"`
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int                    `json:"total"`
}

func (r *CreateTransactionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	sender := strings.TrimSpace(lo.FromPtr(r.Sender))
	receiver := strings.TrimSpace(lo.FromPtr(r.Receiver))
	if sender == "" && receiver == "" {
		return ierr.NewError("transaction without parties").
			WithHint("A transaction needs a sender, a receiver or both").
			Mark(ierr.ErrValidation)
	}
	if sender != "" && sender == receiver {
		return ierr.NewError("sender and receiver are the same").
			WithHint("Sender and receiver must differ").
			WithReportableDetails(map[string]any{
				"account_id": sender,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *CreateTransactionRequest) ToTransaction(ctx context.Context) *transaction.Transaction {
	return &transaction.Transaction{
		ID:        types.GenerateID(),
		Amount:    r.Amount,
		Currency:  strings.ToUpper(r.Currency),
		Sender:    party(r.Sender),
		Receiver:  party(r.Receiver),
		Purpose:   r.Purpose,
		Reference: r.Reference,
		CreatedAt: time.Now().UTC(),
		CreatedBy: types.GetUsername(ctx),
	}
}

func party(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	return lo.ToPtr(strings.TrimSpace(*p))
}

// NewTransactionResponse classifies t from viewpoint
func NewTransactionResponse(t *transaction.Transaction, viewpoint string) *TransactionResponse {
	return &TransactionResponse{
		Transaction: t,
		Type:        transaction.Classify(t, viewpoint),
	}
}
